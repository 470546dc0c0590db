package port

import (
	"context"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// ReviewStoragePort определяет контракт хранилища отзывов.
type ReviewStoragePort interface {
	Create(ctx context.Context, r domain.Review) (int64, error)
	SetRating(ctx context.Context, reviewID int64, rating int) error
	GetByID(ctx context.Context, reviewID int64) (domain.Review, error)
	Approve(ctx context.Context, reviewID int64) error
	Delete(ctx context.Context, reviewID int64) error
	ListApproved(ctx context.Context, propertyID int64) ([]domain.Review, error)
	ListPending(ctx context.Context) ([]domain.Review, error)
}
