package archive

import (
	"board-sync/core/config"
	"board-sync/core/storage"
	"board-sync/feature/board"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	archiver *Archiver
	handler  *Handler
	enabled  bool
}

// NewFeature creates a new archive feature. Routes are only registered when cfg.Enabled.
func NewFeature(client storage.Client, bucket string, cfg config.ArchiveConfig, snapshots *board.SnapshotBuilder, logger *zap.Logger) *Feature {
	archiver := NewArchiver(client, bucket, cfg, snapshots, logger)
	return &Feature{
		archiver: archiver,
		handler:  NewHandler(archiver, logger),
		enabled:  cfg.Enabled,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "archive"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Archiver returns the archiver for the worker and CLI.
func (f *Feature) Archiver() *Archiver {
	return f.archiver
}
