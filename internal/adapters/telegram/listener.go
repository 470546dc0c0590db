package telegram

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"
)

// PollTimeout - таймаут long polling в секундах
const PollTimeout = 60

const workerQueueSize = 64

// UpdateHandler обрабатывает одно событие ядра
type UpdateHandler interface {
	Handle(ctx context.Context, upd domain.Update) error
}

type updatesSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UpdateListener получает события long polling и раздает их воркерам.
// События одного чата всегда попадают к одному воркеру и обрабатываются по порядку.
type UpdateListener struct {
	bot     updatesSource
	handler UpdateHandler
	workers int
	log     *zap.Logger

	closed   atomic.Bool
	inflight sync.WaitGroup
}

var _ port.EventListenerPort = (*UpdateListener)(nil)

// NewUpdateListener создает входящий адаптер транспорта.
func NewUpdateListener(bot *tgbotapi.BotAPI, handler UpdateHandler, workers int, log *zap.Logger) (*UpdateListener, error) {
	if bot == nil {
		return nil, fmt.Errorf("telegram listener: bot cannot be nil")
	}
	return newUpdateListener(bot, handler, workers, log)
}

func newUpdateListener(bot updatesSource, handler UpdateHandler, workers int, log *zap.Logger) (*UpdateListener, error) {
	if handler == nil {
		return nil, fmt.Errorf("telegram listener: handler cannot be nil")
	}
	if workers < 1 {
		return nil, fmt.Errorf("telegram listener: workers must be positive, got %d", workers)
	}
	return &UpdateListener{bot: bot, handler: handler, workers: workers, log: log.Named("telegram_listener")}, nil
}

// Start блокируется до отмены ctx или закрытия канала событий.
func (l *UpdateListener) Start(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = PollTimeout
	updates := l.bot.GetUpdatesChan(cfg)

	queues := make([]chan domain.Update, l.workers)
	for i := range queues {
		queues[i] = make(chan domain.Update, workerQueueSize)
		l.inflight.Add(1)
		go l.work(ctx, queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
	}()

	l.log.Info("Listener: Polling updates", zap.Int("workers", l.workers))
	for {
		select {
		case <-ctx.Done():
			l.log.Info("Listener: Context cancelled, shutting down")
			return nil
		case raw, ok := <-updates:
			if !ok {
				if l.closed.Load() {
					return nil
				}
				return fmt.Errorf("telegram listener: updates channel closed")
			}
			upd, ok := ConvertUpdate(raw)
			if !ok {
				l.log.Debug("Listener: Skipping unsupported update", zap.Int("update_id", raw.UpdateID))
				continue
			}
			select {
			case queues[shard(upd.ChatID, len(queues))] <- upd:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (l *UpdateListener) work(ctx context.Context, queue <-chan domain.Update) {
	defer l.inflight.Done()
	for upd := range queue {
		l.handle(ctx, upd)
	}
}

func (l *UpdateListener) handle(ctx context.Context, upd domain.Update) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("Listener: Handler panicked",
				zap.Int64("chat_id", upd.ChatID), zap.Any("panic", r))
		}
	}()
	if err := l.handler.Handle(ctx, upd); err != nil {
		l.log.Warn("Listener: Error handling update",
			zap.Int64("chat_id", upd.ChatID), zap.Int64("user_id", upd.UserID), zap.Error(err))
	}
}

// Close останавливает polling и дожидается воркеров.
func (l *UpdateListener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	l.bot.StopReceivingUpdates()
	l.inflight.Wait()
	l.log.Info("Listener: Closed.")
	return nil
}

func shard(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}

// ConvertUpdate приводит событие Bot API к виду ядра.
// Возвращает false для событий, которые бот не обрабатывает.
func ConvertUpdate(raw tgbotapi.Update) (domain.Update, bool) {
	if cq := raw.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
			return domain.Update{}, false
		}
		upd := domain.Update{
			Kind:       domain.UpdateCallback,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			CallbackID: cq.ID,
		}
		fillSender(&upd, cq.From)
		if cb, err := domain.DecodeCallback(cq.Data); err == nil {
			upd.Callback = &cb
		}
		return upd, true
	}

	msg := raw.Message
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return domain.Update{}, false
	}
	upd := domain.Update{ChatID: msg.Chat.ID, MessageID: msg.MessageID}
	fillSender(&upd, msg.From)

	switch {
	case len(msg.Photo) > 0:
		upd.Kind = domain.UpdatePhoto
		upd.Photo = largestPhoto(msg.Photo)
		upd.Text = msg.Caption
	case msg.Contact != nil:
		upd.Kind = domain.UpdateContact
		upd.Phone = msg.Contact.PhoneNumber
	case msg.Location != nil:
		upd.Kind = domain.UpdateLocation
		upd.Location = &domain.Coordinates{Latitude: msg.Location.Latitude, Longitude: msg.Location.Longitude}
	case msg.Text != "":
		upd.Kind = domain.UpdateText
		upd.Text = msg.Text
	default:
		return domain.Update{}, false
	}
	return upd, true
}

func fillSender(upd *domain.Update, from *tgbotapi.User) {
	upd.UserID = from.ID
	upd.Username = from.UserName
	upd.FirstName = from.FirstName
}

func largestPhoto(sizes []tgbotapi.PhotoSize) domain.PhotoRef {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return domain.PhotoRef(best.FileID)
}
