package integrity

import (
	"board-sync/feature/board"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new integrity feature on top of the board feature.
func NewFeature(b *board.Feature, db *gorm.DB, logger *zap.Logger) *Feature {
	svc := NewService(b.Snapshots(), b.Dispatcher(), db, logger)
	return &Feature{
		service: svc,
		handler: NewHandler(svc),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the integrity service for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}
