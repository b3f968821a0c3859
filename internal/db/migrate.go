package db

import (
	"embed"
	"fmt"

	"recommread/internal/logger"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending schema migration.
func Migrate(gdb *gorm.DB, log *zap.SugaredLogger) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("get sql db conn: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(logger.StdLog(log.Named("goose")))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Infow("database migration completed", "version", version)
	return nil
}
