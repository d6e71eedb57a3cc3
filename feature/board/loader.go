package board

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	store      Store
	snapshots  *SnapshotBuilder
	dispatcher *Dispatcher
	handler    *Handler
}

// NewFeature wires the entity store, ordering engine, snapshot builder and dispatcher.
func NewFeature(db *gorm.DB, broadcaster Broadcaster, logger *zap.Logger) *Feature {
	store := NewStore(db)
	snapshots := NewSnapshotBuilder(store)
	dispatcher := NewDispatcher(NewEngine(store, logger), snapshots, broadcaster, logger)
	return &Feature{
		store:      store,
		snapshots:  snapshots,
		dispatcher: dispatcher,
		handler:    NewHandler(dispatcher, logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "board"
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

// Dispatcher returns the command dispatcher shared with other transports.
func (f *Feature) Dispatcher() *Dispatcher {
	return f.dispatcher
}

// Store returns the entity store.
func (f *Feature) Store() Store {
	return f.store
}

// Snapshots returns the snapshot builder.
func (f *Feature) Snapshots() *SnapshotBuilder {
	return f.snapshots
}
