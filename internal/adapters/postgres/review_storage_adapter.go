package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const selectReview = `SELECT review_id, property_id, user_id, COALESCE(username, ''), review, rating, approved, created_at FROM reviews`

// PostgresReviewRepository реализует ReviewStoragePort для PostgreSQL.
type PostgresReviewRepository struct {
	db  postgres.Executor
	log *zap.Logger
}

// NewPostgresReviewRepository создает новый экземпляр адаптера.
func NewPostgresReviewRepository(db postgres.Executor, log *zap.Logger) (*PostgresReviewRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres review repository: db cannot be nil")
	}
	return &PostgresReviewRepository{db: db, log: log.Named("review_repo")}, nil
}

// Create вставляет текст отзыва без оценки и возвращает его идентификатор.
func (r *PostgresReviewRepository) Create(ctx context.Context, rv domain.Review) (int64, error) {
	var id int64
	err := r.db.FetchOne(ctx, `
		INSERT INTO reviews (property_id, user_id, username, review, approved)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING review_id`, rv.PropertyID, rv.UserID, nullText(rv.Username), rv.Text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert review for property %d: %w", rv.PropertyID, err)
	}
	return id, nil
}

// SetRating записывает оценку по идентификатору отзыва.
func (r *PostgresReviewRepository) SetRating(ctx context.Context, reviewID int64, rating int) error {
	affected, err := r.db.Execute(ctx, `UPDATE reviews SET rating = $1 WHERE review_id = $2`, rating, reviewID)
	if err != nil {
		return fmt.Errorf("failed to set rating of review %d: %w", reviewID, err)
	}
	if affected == 0 {
		return fmt.Errorf("review %d: %w", reviewID, domain.ErrNotFound)
	}
	return nil
}

// GetByID читает отзыв.
func (r *PostgresReviewRepository) GetByID(ctx context.Context, reviewID int64) (domain.Review, error) {
	rows, err := r.db.FetchAll(ctx, selectReview+` WHERE review_id = $1`, reviewID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("error querying review %d: %w", reviewID, err)
	}
	rv, err := pgx.CollectExactlyOneRow(rows, scanReview)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Review{}, fmt.Errorf("review %d: %w", reviewID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Review{}, fmt.Errorf("error reading review %d: %w", reviewID, err)
	}
	return rv, nil
}

// Approve делает отзыв видимым.
func (r *PostgresReviewRepository) Approve(ctx context.Context, reviewID int64) error {
	affected, err := r.db.Execute(ctx, `UPDATE reviews SET approved = TRUE WHERE review_id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("failed to approve review %d: %w", reviewID, err)
	}
	if affected == 0 {
		return fmt.Errorf("review %d: %w", reviewID, domain.ErrNotFound)
	}
	r.log.Info("PostgresReviewRepo: Review approved", zap.Int64("review_id", reviewID))
	return nil
}

// Delete удаляет отзыв.
func (r *PostgresReviewRepository) Delete(ctx context.Context, reviewID int64) error {
	affected, err := r.db.Execute(ctx, `DELETE FROM reviews WHERE review_id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", reviewID, err)
	}
	if affected == 0 {
		return fmt.Errorf("review %d: %w", reviewID, domain.ErrNotFound)
	}
	r.log.Info("PostgresReviewRepo: Review deleted", zap.Int64("review_id", reviewID))
	return nil
}

// ListApproved возвращает одобренные отзывы карточки, новые первыми.
func (r *PostgresReviewRepository) ListApproved(ctx context.Context, propertyID int64) ([]domain.Review, error) {
	rows, err := r.db.FetchAll(ctx, selectReview+` WHERE property_id = $1 AND approved ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("error querying reviews of property %d: %w", propertyID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

// ListPending возвращает отзывы с оценкой, ожидающие модерации.
func (r *PostgresReviewRepository) ListPending(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.FetchAll(ctx, selectReview+` WHERE NOT approved AND rating IS NOT NULL ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("error querying pending reviews: %w", err)
	}
	return pgx.CollectRows(rows, scanReview)
}

func scanReview(row pgx.CollectableRow) (domain.Review, error) {
	var rv domain.Review
	var rating *int64
	err := row.Scan(&rv.ID, &rv.PropertyID, &rv.UserID, &rv.Username, &rv.Text, &rating, &rv.Approved, &rv.CreatedAt)
	if rating != nil {
		n := int(*rating)
		rv.Rating = &n
	}
	return rv, err
}
