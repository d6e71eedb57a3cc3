package board

import (
	"context"
	"fmt"
)

// Snapshot is the full board state sent to observers.
// Both lists are sorted by order ascending across the whole store, not per scope.
type Snapshot struct {
	Items   []Item   `json:"items"`
	Folders []Folder `json:"folders"`
}

// SnapshotBuilder reads the current board state.
type SnapshotBuilder struct {
	store Store
}

// NewSnapshotBuilder creates a builder reading from store.
func NewSnapshotBuilder(store Store) *SnapshotBuilder {
	return &SnapshotBuilder{store: store}
}

// Build performs two full ordered reads and returns them as-is.
func (b *SnapshotBuilder) Build(ctx context.Context) (*Snapshot, error) {
	items, err := b.store.FindItems(ctx, nil, Ascending, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}
	folders, err := b.store.FindFolders(ctx, nil, Ascending, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}
	return &Snapshot{Items: items, Folders: folders}, nil
}

// ItemsIn returns the items of one scope in order.
func (s *Snapshot) ItemsIn(scope Scope) []Item {
	out := make([]Item, 0)
	for _, it := range s.Items {
		if ScopeOf(it.FolderID).Equal(scope) {
			out = append(out, it)
		}
	}
	return out
}

// FoldersIn returns the folders of one scope in order.
func (s *Snapshot) FoldersIn(scope Scope) []Folder {
	out := make([]Folder, 0)
	for _, f := range s.Folders {
		if ScopeOf(f.FolderID).Equal(scope) {
			out = append(out, f)
		}
	}
	return out
}
