package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	routingKeys []string
	messages    []amqp.Publishing
	err         error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.messages = append(p.messages, msg)
	return nil
}

func TestNewRabbitMQDeliveryQueueAdapter_Validation(t *testing.T) {
	_, err := NewRabbitMQDeliveryQueueAdapter(nil, "delivery.task", zap.NewNop())
	assert.Error(t, err)

	_, err = NewRabbitMQDeliveryQueueAdapter(&recordingPublisher{}, "", zap.NewNop())
	assert.Error(t, err)
}

func TestEnqueue_PublishesPersistentJSON(t *testing.T) {
	pub := &recordingPublisher{}
	q, err := NewRabbitMQDeliveryQueueAdapter(pub, "delivery.task", zap.NewNop())
	require.NoError(t, err)

	task := domain.DeliveryTask{Kind: domain.DeliveryKindNewsletter, ChatID: 42, Text: "hello", Photo: "AgACAgIAAxkBAAIBZ2photo"}
	require.NoError(t, q.Enqueue(context.Background(), task))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, []string{"delivery.task"}, pub.routingKeys)

	msg := pub.messages[0]
	assert.Equal(t, rabbitmq_common.ContentTypeJSON, msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "newsletter", msg.Type)
	assert.NotEmpty(t, msg.MessageId)

	var got domain.DeliveryTask
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, msg.MessageId, got.ID)
	task.ID = got.ID
	assert.Equal(t, task, got)
}

func TestEnqueue_KeepsExistingID(t *testing.T) {
	pub := &recordingPublisher{}
	q, err := NewRabbitMQDeliveryQueueAdapter(pub, "delivery.task", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, q.Enqueue(context.Background(), domain.DeliveryTask{ID: "fixed", Kind: domain.DeliveryKindDigest, ChatID: 1}))
	assert.Equal(t, "fixed", pub.messages[0].MessageId)
}

func TestEnqueue_WrapsPublishError(t *testing.T) {
	brokerErr := errors.New("channel/connection is not open")
	q, err := NewRabbitMQDeliveryQueueAdapter(&recordingPublisher{err: brokerErr}, "delivery.task", zap.NewNop())
	require.NoError(t, err)

	err = q.Enqueue(context.Background(), domain.DeliveryTask{Kind: domain.DeliveryKindDigest, ChatID: 1})
	assert.ErrorIs(t, err, brokerErr)
}
