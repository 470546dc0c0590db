package postgres

import (
	"context"
	"fmt"

	"github.com/0sokrat0/TGSamui/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PostgresFavoritesRepository реализует FavoritesPort поверх таблицы favorites
// с уникальным индексом (user_id, property_id).
type PostgresFavoritesRepository struct {
	db  postgres.Executor
	log *zap.Logger
}

// NewPostgresFavoritesRepository создает новый экземпляр адаптера.
func NewPostgresFavoritesRepository(db postgres.Executor, log *zap.Logger) (*PostgresFavoritesRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres favorites repository: db cannot be nil")
	}
	return &PostgresFavoritesRepository{db: db, log: log.Named("favorites_repo")}, nil
}

// Add вставляет связь, только если ее еще нет.
func (r *PostgresFavoritesRepository) Add(ctx context.Context, userID, propertyID int64) (bool, error) {
	affected, err := r.db.Execute(ctx, `
		INSERT INTO favorites (user_id, property_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, property_id) DO NOTHING`, userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite (user %d, property %d): %w", userID, propertyID, err)
	}
	r.log.Debug("PostgresFavoritesRepo: Add", zap.Int64("user_id", userID), zap.Int64("property_id", propertyID), zap.Bool("inserted", affected > 0))
	return affected > 0, nil
}

// Remove удаляет связь. Отсутствие связи ошибкой не считается.
func (r *PostgresFavoritesRepository) Remove(ctx context.Context, userID, propertyID int64) error {
	if _, err := r.db.Execute(ctx, `DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`, userID, propertyID); err != nil {
		return fmt.Errorf("failed to remove favorite (user %d, property %d): %w", userID, propertyID, err)
	}
	return nil
}

// List возвращает идентификаторы избранных карточек в порядке добавления.
func (r *PostgresFavoritesRepository) List(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.FetchAll(ctx, `SELECT property_id FROM favorites WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing favorites of user %d: %w", userID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error reading favorites of user %d: %w", userID, err)
	}
	return ids, nil
}

// Count возвращает количество избранных карточек пользователя.
func (r *PostgresFavoritesRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.FetchOne(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting favorites of user %d: %w", userID, err)
	}
	return n, nil
}
