package database

import (
	"context"
	"embed"
	"fmt"

	"jobportal/internal/logger"
	"jobportal/internal/models"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate приводит схему к актуальному виду.
// Postgres - версионные SQL-миграции goose; mysql и sqlite - AutoMigrate моделей.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	if driver == "postgres" {
		return migratePostgres(ctx, db)
	}
	return AutoMigrate(db)
}

func migratePostgres(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	logger.Info("✅ Migrations applied", "driver", "postgres")
	return nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("✅ AutoMigrate успешно завершен.")
	return nil
}
