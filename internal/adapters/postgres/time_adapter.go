package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0sokrat0/TGSamui/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PostgresLastRunRepository реализует LastRunRepositoryPort для PostgreSQL.
type PostgresLastRunRepository struct {
	db  postgres.Executor
	log *zap.Logger
}

// NewPostgresLastRunRepository создает новый экземпляр PostgresLastRunRepository.
func NewPostgresLastRunRepository(db postgres.Executor, log *zap.Logger) (*PostgresLastRunRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres last run repository: db cannot be nil")
	}
	return &PostgresLastRunRepository{db: db, log: log.Named("last_run_repo")}, nil
}

// GetLastRunTimestamp извлекает время последнего запуска задачи.
// Отсутствие записи не ошибка: возвращается нулевое время.
func (r *PostgresLastRunRepository) GetLastRunTimestamp(ctx context.Context, jobName string) (time.Time, error) {
	var lastRun time.Time
	err := r.db.FetchOne(ctx, `SELECT last_run_timestamp FROM job_last_runs WHERE job_name = $1`, jobName).Scan(&lastRun)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Info("PostgresLastRunRepo: No last run timestamp found", zap.String("job", jobName))
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("error querying last run for job '%s': %w", jobName, err)
	}

	r.log.Debug("PostgresLastRunRepo: Found last run timestamp", zap.String("job", jobName), zap.Time("last_run", lastRun))
	return lastRun, nil
}

// SetLastRunTimestamp устанавливает или обновляет время последнего запуска задачи.
func (r *PostgresLastRunRepository) SetLastRunTimestamp(ctx context.Context, jobName string, t time.Time) error {
	_, err := r.db.Execute(ctx, `
        INSERT INTO job_last_runs (job_name, last_run_timestamp)
        VALUES ($1, $2)
        ON CONFLICT (job_name) DO UPDATE SET last_run_timestamp = EXCLUDED.last_run_timestamp`, jobName, t)
	if err != nil {
		return fmt.Errorf("error setting last run for job '%s': %w", jobName, err)
	}

	r.log.Info("PostgresLastRunRepo: Last run timestamp saved", zap.String("job", jobName), zap.Time("last_run", t))
	return nil
}
