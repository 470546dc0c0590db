package usecase

import (
	"context"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// DeliverUseCase отправляет одну задачу доставки из очереди.
type DeliverUseCase struct {
	messenger port.Messenger
	log       *zap.Logger
}

// NewDeliverUseCase создает use case доставки.
func NewDeliverUseCase(messenger port.Messenger, log *zap.Logger) (*DeliverUseCase, error) {
	if messenger == nil {
		return nil, fmt.Errorf("deliver use case: messenger cannot be nil")
	}
	return &DeliverUseCase{messenger: messenger, log: log.Named("deliver")}, nil
}

// Execute отправляет текст или фото с подписью.
func (uc *DeliverUseCase) Execute(ctx context.Context, task domain.DeliveryTask) error {
	var err error
	if task.Photo != "" {
		_, err = uc.messenger.SendPhoto(ctx, task.ChatID, task.Photo, task.Text, nil)
	} else {
		_, err = uc.messenger.SendText(ctx, task.ChatID, task.Text, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to deliver %s task %s to chat %d: %w", task.Kind, task.ID, task.ChatID, err)
	}
	uc.log.Debug("Deliver: Sent", zap.String("task_id", task.ID), zap.String("kind", string(task.Kind)), zap.Int64("chat_id", task.ChatID))
	return nil
}
