package integrity

import (
	"context"
	"fmt"

	"board-sync/feature/board"
	"board-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	snapshots  *board.SnapshotBuilder
	dispatcher *board.Dispatcher
	db         *gorm.DB
	logger     *zap.Logger
}

// NewService creates a new integrity service.
func NewService(snapshots *board.SnapshotBuilder, dispatcher *board.Dispatcher, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		snapshots:  snapshots,
		dispatcher: dispatcher,
		db:         db,
		logger:     logger,
	}
}

// CheckOrder reports scopes whose order values are not dense.
func (s *Service) CheckOrder(ctx context.Context) (*checks.OrderReport, error) {
	snap, err := s.snapshots.Build(ctx)
	if err != nil {
		return nil, err
	}
	return checks.CheckOrder(snap), nil
}

// FixOrder renumbers every scope and returns the report taken afterwards.
func (s *Service) FixOrder(ctx context.Context) (*checks.OrderReport, *board.Outcome, error) {
	out, err := s.dispatcher.Compact(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compact board: %w", err)
	}
	report, err := s.CheckOrder(ctx)
	if err != nil {
		return nil, out, err
	}
	return report, out, nil
}

// CheckSchema validates the board tables.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}
