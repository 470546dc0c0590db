package port

import (
	"context"
	"time"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// UserStoragePort определяет контракт хранилища пользователей.
type UserStoragePort interface {
	Upsert(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id int64) (domain.User, error)
	SetEmail(ctx context.Context, id int64, email string) error
	SetPhone(ctx context.Context, id int64, phone string) error
	SetNotifications(ctx context.Context, id int64, enabled bool) error
	Stats(ctx context.Context, now time.Time) (domain.UserStats, error)
	Subscribers(ctx context.Context) ([]domain.User, error)
	// SubscribersDue возвращает подписчиков, которым дайджест не отправлялся дольше interval.
	SubscribersDue(ctx context.Context, now time.Time, interval time.Duration) ([]domain.User, error)
	TouchLastNotified(ctx context.Context, ids []int64, t time.Time) error
}

// NewsletterStoragePort сохраняет рассылки.
type NewsletterStoragePort interface {
	Create(ctx context.Context, n domain.Newsletter) (int64, error)
}
