package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/usecase"
	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeliveryConsumerAdapter - входящий адаптер, который слушает очередь задач
// доставки и вызывает use case отправки.
type DeliveryConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  *usecase.DeliverUseCase
	log      *zap.Logger
}

// NewDeliveryConsumerAdapter создает адаптер и подключается к очереди.
func NewDeliveryConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase *usecase.DeliverUseCase,
	log *zap.Logger,
) (*DeliveryConsumerAdapter, error) {
	adapter, err := newDeliveryConsumerAdapter(useCase, log)
	if err != nil {
		return nil, err
	}

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.messageHandler, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for delivery tasks: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func newDeliveryConsumerAdapter(useCase *usecase.DeliverUseCase, log *zap.Logger) (*DeliveryConsumerAdapter, error) {
	if useCase == nil {
		return nil, fmt.Errorf("delivery consumer: use case cannot be nil")
	}
	return &DeliveryConsumerAdapter{useCase: useCase, log: log.Named("delivery_consumer")}, nil
}

// messageHandler: битое сообщение отбрасывается, ошибка доставки повторяется один раз.
func (a *DeliveryConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) (ack bool, requeueOnError bool, err error) {
	var task domain.DeliveryTask
	if err := json.Unmarshal(d.Body, &task); err != nil {
		a.log.Warn("DeliveryConsumer: Malformed task, dropping", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
		return false, false, fmt.Errorf("unmarshal error: %w", err)
	}
	if task.ChatID == 0 {
		a.log.Warn("DeliveryConsumer: Task without chat id, dropping", zap.String("task_id", task.ID))
		return false, false, fmt.Errorf("delivery task %s has no chat id", task.ID)
	}

	if err := a.useCase.Execute(ctx, task); err != nil {
		if d.Redelivered {
			a.log.Warn("DeliveryConsumer: Repeated delivery failure, discarding task",
				zap.String("task_id", task.ID), zap.Int64("chat_id", task.ChatID), zap.Error(err))
			return false, false, err
		}
		return false, true, err
	}
	return true, false, nil
}

// Start реализует EventListenerPort
func (a *DeliveryConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *DeliveryConsumerAdapter) Close() error {
	return a.consumer.Close()
}
