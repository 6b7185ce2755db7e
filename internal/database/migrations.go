package database

import (
	"context"
	"embed"
	"fmt"
	"log"

	"github.com/circleone/member-directory/internal/models"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var sqlMigrations embed.FS

// Models lists every table owned by the application, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.BusinessListing{},
		&models.ProfessionalProfile{},
	}
}

// Migrate creates or updates the schema with gorm's AutoMigrate.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// RunSQLMigrations applies the versioned SQL files with goose.
// The files target PostgreSQL, the production database.
func RunSQLMigrations(ctx context.Context, db *gorm.DB, dialect string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	goose.SetBaseFS(sqlMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("unsupported migration dialect %q: %w", dialect, err)
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply sql migrations: %w", err)
	}
	return nil
}

// MigrateDatabase runs SQL migrations when requested on PostgreSQL and AutoMigrate otherwise.
func MigrateDatabase(ctx context.Context, db *gorm.DB, driver string, useSQL bool) error {
	if useSQL && driver == "postgres" {
		return RunSQLMigrations(ctx, db, "postgres")
	}
	if useSQL {
		log.Printf("SQL migrations only target postgres; using AutoMigrate for %s", driver)
	}
	return Migrate(db)
}
