package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_common"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

// Publisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// RabbitMQDeliveryQueueAdapter реализует DeliveryQueuePort для RabbitMQ.
type RabbitMQDeliveryQueueAdapter struct {
	producer   Publisher
	routingKey string
	log        *zap.Logger
}

// NewRabbitMQDeliveryQueueAdapter создает адаптер очереди задач доставки.
func NewRabbitMQDeliveryQueueAdapter(producer Publisher, routingKey string, log *zap.Logger) (*RabbitMQDeliveryQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &RabbitMQDeliveryQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
		log:        log.Named("delivery_queue"),
	}, nil
}

// Enqueue публикует задачу доставки. Пустой ID задачи заполняется новым UUID.
func (a *RabbitMQDeliveryQueueAdapter) Enqueue(ctx context.Context, task domain.DeliveryTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal delivery task %s: %w", task.ID, err)
	}

	msg := amqp.Publishing{
		ContentType:  rabbitmq_common.ContentTypeJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    task.ID,
		Type:         string(task.Kind),
		Timestamp:    time.Now(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to publish delivery task %s: %w", task.ID, err)
	}

	a.log.Debug("DeliveryQueue: Task published",
		zap.String("task_id", task.ID),
		zap.String("kind", string(task.Kind)),
		zap.Int64("chat_id", task.ChatID))
	return nil
}
