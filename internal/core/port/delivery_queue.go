package port

import (
	"context"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// DeliveryQueuePort определяет контракт для отправки задач доставки в очередь.
type DeliveryQueuePort interface {
	Enqueue(ctx context.Context, task domain.DeliveryTask) error
}
