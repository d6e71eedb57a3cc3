package cmd

import (
	"fmt"

	"board-sync/core/config"
	"board-sync/core/database"
	"board-sync/core/logger"
	"board-sync/feature/board"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// appEnv is what every command needs before doing its own work.
type appEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// bootstrap loads configuration, builds the logger and connects the entity store.
// The schema is migrated when database.auto_migrate is set.
func bootstrap() (*appEnv, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	logg = logg.With(zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := board.Migrate(db); err != nil {
			return nil, err
		}
		logg.Debug("Board schema migrated")
	}

	return &appEnv{cfg: cfg, logger: logg, db: db}, nil
}

func (r *appEnv) close() {
	_ = r.logger.Sync()
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
