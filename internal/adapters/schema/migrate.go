package schema

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models - таблицы в порядке создания: сначала те, на которые ссылаются
func Models() []any {
	return []any{
		&Property{},
		&User{},
		&Favorite{},
		&Review{},
		&Newsletter{},
		&JobLastRun{},
	}
}

// Open подключается к PostgreSQL через gorm для миграций.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("error connection to db: %w", err)
	}
	return db, nil
}

// Migrate создает или дополняет таблицы схемы.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
		log.Info("Schema: Table migrated", zap.String("model", fmt.Sprintf("%T", m)))
	}
	return nil
}
