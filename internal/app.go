package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/0sokrat0/TGSamui/internal/adapters/memory"
	postgres_adapter "github.com/0sokrat0/TGSamui/internal/adapters/postgres"
	rabbitmq_adapter "github.com/0sokrat0/TGSamui/internal/adapters/rabbitmq"
	redis_adapter "github.com/0sokrat0/TGSamui/internal/adapters/redis"
	"github.com/0sokrat0/TGSamui/internal/adapters/telegram"
	"github.com/0sokrat0/TGSamui/internal/configs"
	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"
	"github.com/0sokrat0/TGSamui/internal/core/usecase"
	"github.com/0sokrat0/TGSamui/pkg/postgres"
	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_common"
	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_producer"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// App – структура приложения
type App struct {
	config *configs.AppConfig
	log    *zap.Logger

	core     *core
	sessions io.Closer

	// Use Case, который запускается самим приложением по таймеру
	digest *usecase.DigestUseCase

	// Входящие порты (слушатели событий)
	updatesListener  port.EventListenerPort
	deliveryListener port.EventListenerPort
}

// core - хранилища и очередь, общие для бота и разового прохода дайджеста
type core struct {
	db            *postgres.Gateway
	eventProducer *rabbitmq_producer.Publisher

	properties  *postgres_adapter.PostgresPropertyRepository
	favorites   *postgres_adapter.PostgresFavoritesRepository
	reviews     *postgres_adapter.PostgresReviewRepository
	users       *postgres_adapter.PostgresUserRepository
	newsletters *postgres_adapter.PostgresNewsletterRepository
	lastRun     *postgres_adapter.PostgresLastRunRepository
	queue       *rabbitmq_adapter.RabbitMQDeliveryQueueAdapter
}

func newCore(ctx context.Context, cfg *configs.AppConfig, log *zap.Logger) (*core, error) {
	db, err := postgres.NewGateway(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MinConns:    cfg.Database.MinConns,
		MaxConns:    cfg.Database.MaxConns,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("App: Connected to PostgreSQL")

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		ExchangeName:             cfg.RabbitMQ.Exchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	log.Info("App: RabbitMQ event producer initialized")

	c := &core{db: db, eventProducer: eventProducer}
	fail := func(err error) (*core, error) {
		c.close(log)
		return nil, err
	}

	if c.properties, err = postgres_adapter.NewPostgresPropertyRepository(db, log); err != nil {
		return fail(err)
	}
	if c.favorites, err = postgres_adapter.NewPostgresFavoritesRepository(db, log); err != nil {
		return fail(err)
	}
	if c.reviews, err = postgres_adapter.NewPostgresReviewRepository(db, log); err != nil {
		return fail(err)
	}
	if c.users, err = postgres_adapter.NewPostgresUserRepository(db, log); err != nil {
		return fail(err)
	}
	if c.newsletters, err = postgres_adapter.NewPostgresNewsletterRepository(db); err != nil {
		return fail(err)
	}
	if c.lastRun, err = postgres_adapter.NewPostgresLastRunRepository(db, log); err != nil {
		return fail(err)
	}
	if c.queue, err = rabbitmq_adapter.NewRabbitMQDeliveryQueueAdapter(eventProducer, constants.RoutingKeyDeliveryTasks, log); err != nil {
		return fail(err)
	}
	return c, nil
}

func (c *core) newDigest(cfg *configs.AppConfig, log *zap.Logger) *usecase.DigestUseCase {
	return usecase.NewDigestUseCase(c.properties, c.users, c.queue, c.lastRun, cfg.Digest.Interval, log)
}

func (c *core) close(log *zap.Logger) {
	if c.eventProducer != nil {
		if err := c.eventProducer.Close(); err != nil {
			log.Warn("App: Error closing event producer", zap.Error(err))
		}
	}
	if c.db != nil {
		c.db.Close()
	}
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp(ctx context.Context, cfg *configs.AppConfig, log *zap.Logger) (*App, error) {
	if err := cfg.RequireServe(); err != nil {
		return nil, err
	}
	coordMode, err := domain.ParseCoordinateMode(cfg.Bot.CoordinateMode)
	if err != nil {
		return nil, err
	}
	catalog, err := constants.LoadCatalog(cfg.Bot.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load filter catalog: %w", err)
	}

	// 1. Инициализация низкоуровневых зависимостей
	c, err := newCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &App{config: cfg, log: log.Named("app"), core: c}
	fail := func(err error) (*App, error) {
		a.close()
		return nil, err
	}

	sessions, err := a.newSessionStore(ctx)
	if err != nil {
		return fail(err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fail(fmt.Errorf("failed to create Telegram client: %w", err))
	}
	if err := tgbotapi.SetLogger(zap.NewStdLog(log.Named("tgbotapi"))); err != nil {
		return fail(fmt.Errorf("failed to set Telegram logger: %w", err))
	}
	log.Info("App: Authorized on Telegram", zap.String("bot", bot.Self.UserName))

	// 2. Исходящие адаптеры
	messenger, err := telegram.NewMessenger(bot, log)
	if err != nil {
		return fail(err)
	}

	// 3. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики)
	pager := usecase.NewPagerUseCase(messenger, log)
	dispatcher, err := usecase.NewDispatcher(usecase.DispatcherDeps{
		Sessions:   sessions,
		Messenger:  messenger,
		AdminIDs:   cfg.Telegram.AdminIDs,
		Authoring:  usecase.NewAuthoringUseCase(c.properties, messenger, coordMode, log),
		Browse:     usecase.NewBrowseUseCase(c.properties, messenger, pager, catalog, log),
		Pager:      pager,
		Favorites:  usecase.NewFavoritesUseCase(c.favorites, c.properties, pager, messenger, cfg.Bot.FavoritesLimit, log),
		Reviews:    usecase.NewReviewsUseCase(c.reviews, c.properties, messenger, cfg.Telegram.AdminIDs, log),
		Profile:    usecase.NewProfileUseCase(c.users, messenger, log),
		Admin:      usecase.NewAdminUseCase(c.properties, c.users, messenger),
		Newsletter: usecase.NewNewsletterUseCase(c.newsletters, c.users, c.queue, messenger, log),
	}, log)
	if err != nil {
		return fail(err)
	}
	deliver, err := usecase.NewDeliverUseCase(messenger, log)
	if err != nil {
		return fail(err)
	}
	if cfg.Digest.Enabled {
		a.digest = c.newDigest(cfg, log)
	}
	log.Info("App: All use cases initialized")

	// 4. ИНИЦИАЛИЗАЦИЯ ВХОДЯЩИХ АДАПТЕРОВ (те, которые ВЫЗЫВАЮТ наше ядро)
	deliveryConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		QueueName:           constants.QueueDeliveryTasks,
		RoutingKeyForBind:   constants.RoutingKeyDeliveryTasks,
		ExchangeNameForBind: cfg.RabbitMQ.Exchange,
		PrefetchCount:       5,
		DurableQueue:        true,
		ConsumerTag:         "delivery-adapter",
		DeclareQueue:        true,
	}
	deliveryListener, err := rabbitmq_adapter.NewDeliveryConsumerAdapter(deliveryConsumerCfg, deliver, log)
	if err != nil {
		return fail(err)
	}
	a.deliveryListener = deliveryListener
	updatesListener, err := telegram.NewUpdateListener(bot, dispatcher, cfg.Telegram.Workers, log)
	if err != nil {
		return fail(err)
	}
	a.updatesListener = updatesListener
	log.Info("App: Event listeners initialized")

	return a, nil
}

func (a *App) newSessionStore(ctx context.Context) (port.SessionStore, error) {
	if a.config.Redis.URL == "" {
		a.log.Info("App: REDIS_URL is empty, sessions are kept in memory")
		return memory.NewSessionStore(), nil
	}
	client, err := redis_adapter.NewClient(ctx, a.config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	store, err := redis_adapter.NewSessionStore(client, a.config.Redis.Prefix, a.log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	a.sessions = store
	a.log.Info("App: Redis session store initialized")
	return store, nil
}

// close освобождает ресурсы. Слушатели к этому моменту должны быть остановлены.
func (a *App) close() {
	for name, l := range map[string]port.EventListenerPort{
		"updates listener":  a.updatesListener,
		"delivery listener": a.deliveryListener,
	} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			a.log.Warn("App: Error closing listener", zap.String("listener", name), zap.Error(err))
		}
	}
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.log.Warn("App: Error closing session store", zap.Error(err))
		}
	}
	a.core.close(a.log)
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Единый контекст для graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	defer func() {
		a.log.Info("App: Shutdown sequence initiated...")
		wg.Wait()
		a.log.Info("App: All background processes finished")
		a.close()
		a.log.Info("App: Application shut down gracefully")
	}()

	listenerErrors := make(chan error, 2)
	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		a.log.Info("App: Starting listener", zap.String("listener", name))
		if err := listener.Start(appCtx); err != nil {
			a.log.Error("App: Listener stopped with an unexpected error", zap.String("listener", name), zap.Error(err))
			listenerErrors <- fmt.Errorf("%s error: %w", name, err)
			return
		}
		a.log.Info("App: Listener stopped", zap.String("listener", name))
	}

	wg.Add(2)
	go startListener("delivery listener", a.deliveryListener)
	go startListener("updates listener", a.updatesListener)

	if a.digest != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.log.Info("App: Digest scheduled", zap.Duration("interval", a.config.Digest.Interval))
			a.digest.Run(appCtx)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.log.Info("App: Running. Waiting for signals or listener error...")
	var runErr error
	select {
	case sig := <-quit:
		a.log.Info("App: Received signal, shutting down", zap.String("signal", sig.String()))
	case runErr = <-listenerErrors:
		a.log.Error("App: A critical component failed, shutting down", zap.Error(runErr))
	}

	cancelApp()
	return runErr
}

// RunDigestOnce выполняет один проход дайджеста без запуска бота.
func RunDigestOnce(ctx context.Context, cfg *configs.AppConfig, log *zap.Logger) (usecase.DigestReport, error) {
	if err := cfg.RequireBroker(); err != nil {
		return usecase.DigestReport{}, err
	}
	c, err := newCore(ctx, cfg, log)
	if err != nil {
		return usecase.DigestReport{}, err
	}
	defer c.close(log)

	return c.newDigest(cfg, log).Execute(ctx)
}
