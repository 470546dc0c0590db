package port

import (
	"context"
	"time"
)

// LastRunRepositoryPort определяет контракт для хранения и получения
// времени последнего успешного запуска фоновой задачи.
type LastRunRepositoryPort interface {
	GetLastRunTimestamp(ctx context.Context, jobName string) (time.Time, error)
	SetLastRunTimestamp(ctx context.Context, jobName string, t time.Time) error
}
