package port

import (
	"context"
	"time"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// PropertyStoragePort определяет контракт хранилища карточек.
// Отсутствующая карточка возвращается как domain.ErrNotFound.
type PropertyStoragePort interface {
	Create(ctx context.Context, p domain.Property) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.Property, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Property, error)
	Update(ctx context.Context, id int64, change domain.FieldChange) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	ListSummaries(ctx context.Context) ([]domain.PropertySummary, error)
	TopRated(ctx context.Context, limit int) ([]domain.Property, error)
}

// DigestSourcePort - запросы и флаги, которыми пользуется задача дайджеста.
type DigestSourcePort interface {
	UnnotifiedSince(ctx context.Context, since time.Time) ([]domain.Property, error)
	MarkNotified(ctx context.Context, ids []int64) error
}
