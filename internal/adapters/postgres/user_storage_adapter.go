package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const selectUser = `
	SELECT user_id, COALESCE(username, ''), COALESCE(first_name, ''), COALESCE(email, ''),
	       COALESCE(phone_number, ''), notifications_enabled, last_notified, last_activity, created_at
	FROM users`

// PostgresUserRepository реализует UserStoragePort и NewsletterStoragePort для PostgreSQL.
type PostgresUserRepository struct {
	db  postgres.Executor
	log *zap.Logger
}

// NewPostgresUserRepository создает новый экземпляр адаптера.
func NewPostgresUserRepository(db postgres.Executor, log *zap.Logger) (*PostgresUserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres user repository: db cannot be nil")
	}
	return &PostgresUserRepository{db: db, log: log.Named("user_repo")}, nil
}

// Upsert создает пользователя или обновляет его имя и время активности.
func (r *PostgresUserRepository) Upsert(ctx context.Context, u domain.User) error {
	_, err := r.db.Execute(ctx, `
		INSERT INTO users (user_id, username, first_name, last_activity)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username, first_name = EXCLUDED.first_name, last_activity = NOW()`,
		u.ID, nullText(u.Username), nullText(u.FirstName))
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", u.ID, err)
	}
	return nil
}

// GetByID читает пользователя.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	rows, err := r.db.FetchAll(ctx, selectUser+` WHERE user_id = $1`, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("error querying user %d: %w", id, err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("error reading user %d: %w", id, err)
	}
	return u, nil
}

// SetEmail сохраняет email пользователя.
func (r *PostgresUserRepository) SetEmail(ctx context.Context, id int64, email string) error {
	return r.updateField(ctx, id, "email", email)
}

// SetPhone сохраняет телефон пользователя.
func (r *PostgresUserRepository) SetPhone(ctx context.Context, id int64, phone string) error {
	return r.updateField(ctx, id, "phone_number", phone)
}

// SetNotifications включает или выключает подписку на дайджест.
func (r *PostgresUserRepository) SetNotifications(ctx context.Context, id int64, enabled bool) error {
	return r.updateField(ctx, id, "notifications_enabled", enabled)
}

// updateField вызывается только с именами колонок из этого файла.
func (r *PostgresUserRepository) updateField(ctx context.Context, id int64, column string, value any) error {
	affected, err := r.db.Execute(ctx, fmt.Sprintf(`UPDATE users SET %s = $1 WHERE user_id = $2`, column), value, id)
	if err != nil {
		return fmt.Errorf("failed to update %s of user %d: %w", column, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Stats считает пользователей: всего, активных и новых за неделю, подписанных.
func (r *PostgresUserRepository) Stats(ctx context.Context, now time.Time) (domain.UserStats, error) {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	var s domain.UserStats
	err := r.db.FetchOne(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE last_activity >= $1),
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COUNT(*) FILTER (WHERE notifications_enabled)
		FROM users`, weekAgo).Scan(&s.Total, &s.ActiveWeek, &s.NewThisWeek, &s.Subscribed)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("error collecting user statistics: %w", err)
	}
	return s, nil
}

// Subscribers возвращает всех пользователей с включенной подпиской.
func (r *PostgresUserRepository) Subscribers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.FetchAll(ctx, selectUser+` WHERE notifications_enabled ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("error querying subscribers: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// SubscribersDue возвращает подписчиков, которым дайджест не отправлялся дольше interval.
func (r *PostgresUserRepository) SubscribersDue(ctx context.Context, now time.Time, interval time.Duration) ([]domain.User, error) {
	rows, err := r.db.FetchAll(ctx, selectUser+`
		WHERE notifications_enabled AND (last_notified IS NULL OR last_notified <= $1)
		ORDER BY user_id`, now.Add(-interval))
	if err != nil {
		return nil, fmt.Errorf("error querying due subscribers: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// TouchLastNotified отмечает время последней отправки дайджеста.
func (r *PostgresUserRepository) TouchLastNotified(ctx context.Context, ids []int64, t time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.Execute(ctx, `UPDATE users SET last_notified = $1 WHERE user_id = ANY($2)`, t, ids); err != nil {
		return fmt.Errorf("failed to update last_notified: %w", err)
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.Email, &u.Phone,
		&u.NotificationsEnabled, &u.LastNotified, &u.LastActivity, &u.CreatedAt)
	return u, err
}

// PostgresNewsletterRepository реализует NewsletterStoragePort.
type PostgresNewsletterRepository struct {
	db postgres.Executor
}

// NewPostgresNewsletterRepository создает новый экземпляр адаптера.
func NewPostgresNewsletterRepository(db postgres.Executor) (*PostgresNewsletterRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres newsletter repository: db cannot be nil")
	}
	return &PostgresNewsletterRepository{db: db}, nil
}

// Create сохраняет рассылку и возвращает ее идентификатор.
func (r *PostgresNewsletterRepository) Create(ctx context.Context, n domain.Newsletter) (int64, error) {
	var id int64
	err := r.db.FetchOne(ctx, `
		INSERT INTO newsletters (subject, message, photo)
		VALUES ($1, $2, $3)
		RETURNING id`, n.Subject, n.Message, nullText(string(n.Photo))).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert newsletter %q: %w", n.Subject, err)
	}
	return id, nil
}
