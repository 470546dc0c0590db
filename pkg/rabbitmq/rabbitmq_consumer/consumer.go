package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessageHandler функция-обработчик для полученных сообщений
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) (ack bool, requeueOnError bool, err error)

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config
	// Настройки очереди
	QueueName       string
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table // Например, x-dead-letter-exchange

	// Настройки обменника (если нужно объявлять или привязываться к нему)
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool

	RoutingKeyForBind string

	// QoS. PrefetchCount также ограничивает число одновременно работающих обработчиков.
	PrefetchCount int

	ConsumerTag string
}

// Consumer структура для управления потребителем
type Consumer struct {
	config     ConsumerConfig
	handler    MessageHandler
	log        *zap.Logger
	connection *amqp.Connection
	channel    *amqp.Channel
	// Имя очереди, особенно если оно сгенерировано сервером
	actualQueueName string

	wg sync.WaitGroup
}

// NewConsumer создает нового потребителя и настраивает сущности RabbitMQ
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, log *zap.Logger) (*Consumer, error) {
	c, err := newConsumer(cfg, handler, log)
	if err != nil {
		return nil, err
	}
	if err := c.connectAndSetup(); err != nil {
		return nil, fmt.Errorf("consumer: initial connection and setup failed: %w", err)
	}
	return c, nil
}

func newConsumer(cfg ConsumerConfig, handler MessageHandler, log *zap.Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return nil, fmt.Errorf("consumer: queue name is required if DeclareQueue is false")
	}
	if cfg.DeclareExchangeForBind && cfg.ExchangeTypeForBind == "" {
		return nil, fmt.Errorf("consumer: exchange type is required if declaring an exchange for binding")
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	return &Consumer{
		config:  cfg,
		handler: handler,
		log:     log.Named("consumer"),
	}, nil
}

// connectAndSetup устанавливает соединение, канал и настраивает сущности RabbitMQ
func (c *Consumer) connectAndSetup() error {
	c.log.Info("Consumer: Connecting to RabbitMQ", zap.String("url", c.config.RedactedURL()))
	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	c.connection = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	c.channel = ch

	fail := func(err error) error {
		_ = c.channel.Close()
		_ = c.connection.Close()
		return err
	}

	// 1. QoS должен быть выставлен до Consume
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fail(fmt.Errorf("failed to set QoS: %w", err))
		}
	}

	// 2. Объявление очереди
	c.actualQueueName = c.config.QueueName
	if c.config.DeclareQueue {
		q, err := c.channel.QueueDeclare(
			c.config.QueueName,
			c.config.DurableQueue,
			c.config.AutoDeleteQueue,
			c.config.ExclusiveQueue,
			false, // no-wait
			c.config.QueueArgs,
		)
		if err != nil {
			return fail(fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err))
		}
		c.actualQueueName = q.Name
	}

	// 3. Объявление обменника для привязки
	if c.config.DeclareExchangeForBind {
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeNameForBind,
			c.config.ExchangeTypeForBind,
			c.config.DurableExchangeForBind,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return fail(fmt.Errorf("failed to declare exchange '%s' for binding: %w", c.config.ExchangeNameForBind, err))
		}
	}

	// 4. Привязка очереди к обменнику
	if c.config.ExchangeNameForBind != "" {
		err := c.channel.QueueBind(
			c.actualQueueName,
			c.config.RoutingKeyForBind,
			c.config.ExchangeNameForBind,
			false, // noWait
			nil,
		)
		if err != nil {
			return fail(fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, c.config.ExchangeNameForBind, err))
		}
	}

	c.log.Info("Consumer: Setup complete",
		zap.String("queue", c.actualQueueName),
		zap.String("exchange", c.config.ExchangeNameForBind),
		zap.String("routing_key", c.config.RoutingKeyForBind))
	return nil
}

// StartConsuming потребляет сообщения до отмены ctx или закрытия соединения
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.actualQueueName,
		c.config.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to register a consumer on queue '%s': %w", c.actualQueueName, err)
	}

	c.log.Info("Consumer: Waiting for messages", zap.String("queue", c.actualQueueName))

	slots := c.config.PrefetchCount
	if slots <= 0 {
		slots = 1
	}
	sem := make(chan struct{}, slots)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					c.log.Info("Consumer: Deliveries channel closed", zap.String("queue", c.actualQueueName))
					return
				}
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					// Не подтвержденное сообщение вернется в очередь при закрытии канала
					return
				}
				c.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer c.wg.Done()
					defer func() { <-sem }()
					c.process(ctx, delivery)
				}(d)
			}
		}
	}()

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		c.log.Info("Consumer: Context cancelled, shutting down", zap.String("queue", c.actualQueueName))
		return nil
	case err := <-notifyClose:
		c.log.Error("Consumer: Connection closed", zap.String("queue", c.actualQueueName), zap.Error(err))
		if err == nil {
			return fmt.Errorf("consumer: connection closed")
		}
		return err
	}
}

// process вызывает обработчик и подтверждает или отклоняет сообщение
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	log := c.log.With(zap.Uint64("delivery_tag", d.DeliveryTag), zap.String("message_id", d.MessageId))

	ack, requeue, err := c.handler(ctx, d)
	switch {
	case err != nil:
		log.Warn("Consumer: Error processing message", zap.Bool("requeue", requeue), zap.Error(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("Consumer: Error sending Nack", zap.Error(nackErr))
		}
	case ack:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("Consumer: Error sending Ack", zap.Error(ackErr))
			return
		}
		log.Debug("Consumer: Message acked")
	default:
		log.Debug("Consumer: Message rejected by handler")
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("Consumer: Error sending Nack", zap.Error(nackErr))
		}
	}
}

// Close дожидается обработчиков и закрывает соединение потребителя
func (c *Consumer) Close() error {
	c.log.Info("Consumer: Waiting for message handlers to finish...")
	c.wg.Wait()

	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.log.Warn("Consumer: Error closing channel", zap.Error(err))
			firstErr = err
		}
		c.channel = nil
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			c.log.Warn("Consumer: Error closing connection", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
		c.connection = nil
	}
	c.log.Info("Consumer: Closed.")
	return firstErr
}
