package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the outcome class of an engine operation.
type Status int

const (
	// StatusOK means the operation was applied and committed.
	StatusOK Status = iota
	// StatusNotFound means a referenced id did not exist; nothing was written.
	StatusNotFound
	// StatusStorageError means the store failed; the transaction was rolled back.
	StatusStorageError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusStorageError:
		return "storage_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes what an engine operation did.
type Result struct {
	Status Status
	// ID is the entity the operation targeted or created.
	ID string
	// Affected counts rows written, the target included.
	Affected int64
}

// Changed reports whether the operation committed a change observers should see.
func (r Result) Changed() bool {
	return r.Status == StatusOK && r.Affected > 0
}

// NewItem holds the caller-supplied fields of an item to append.
type NewItem struct {
	Title    string
	Icon     string
	FolderID *string
}

// NewFolder holds the caller-supplied fields of a folder to append.
type NewFolder struct {
	Name   string
	IsOpen bool
}

// Engine applies ordering mutations to a Store.
//
// Every mutation holds the engine lock and runs inside one store transaction, so two
// moves never compute shift predicates against each other's half-applied state.
type Engine struct {
	store  Store
	logger *zap.Logger
	newID  func() string

	mu sync.Mutex
}

// NewEngine creates an ordering engine over store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// run executes op under the engine lock in a single transaction and maps its outcome.
func (e *Engine) run(ctx context.Context, name string, op func(tx Store, res *Result) error) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res Result
	err := e.store.Transaction(ctx, func(tx Store) error {
		return op(tx, &res)
	})

	switch {
	case err == nil:
		res.Status = StatusOK
		return res, nil
	case errors.Is(err, ErrNotFound):
		e.logger.Debug("Operation abandoned", zap.String("op", name), zap.String("id", res.ID), zap.Error(err))
		return Result{Status: StatusNotFound, ID: res.ID}, nil
	default:
		return Result{Status: StatusStorageError, ID: res.ID}, fmt.Errorf("%s: %w", name, err)
	}
}

// AddItem appends an item at the end of its target scope.
func (e *Engine) AddItem(ctx context.Context, in NewItem) (Result, error) {
	return e.run(ctx, "add item", func(tx Store, res *Result) error {
		scope := ScopeOf(in.FolderID)
		if !scope.IsRoot() {
			if _, err := tx.FindFolder(ctx, *scope.FolderID); err != nil {
				return err
			}
		}

		last, err := tx.FindItems(ctx, &scope, Descending, 1)
		if err != nil {
			return err
		}

		item := &Item{
			ID:       e.newID(),
			Title:    in.Title,
			Icon:     in.Icon,
			FolderID: scope.FolderID,
		}
		if len(last) > 0 {
			item.Order = last[0].Order + 1
		}
		res.ID = item.ID
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		res.Affected = 1
		return nil
	})
}

// AddFolder appends a folder at the end of the root scope.
func (e *Engine) AddFolder(ctx context.Context, in NewFolder) (Result, error) {
	return e.run(ctx, "add folder", func(tx Store, res *Result) error {
		scope := Root()
		last, err := tx.FindFolders(ctx, &scope, Descending, 1)
		if err != nil {
			return err
		}

		folder := &Folder{
			ID:     e.newID(),
			Name:   in.Name,
			IsOpen: in.IsOpen,
		}
		if len(last) > 0 {
			folder.Order = last[0].Order + 1
		}
		res.ID = folder.ID
		if err := tx.CreateFolder(ctx, folder); err != nil {
			return err
		}
		res.Affected = 1
		return nil
	})
}

// MoveItem moves an item to position newOrder inside target (which may be its current scope).
//
// The source gap is closed first and the target slot opened second, each as a shift
// over the stored state left by the previous step. newOrder must be >= 0 and is not
// clamped to the size of the target scope.
func (e *Engine) MoveItem(ctx context.Context, itemID string, target Scope, newOrder int) (Result, error) {
	return e.run(ctx, "move item", func(tx Store, res *Result) error {
		res.ID = itemID
		item, err := tx.FindItem(ctx, itemID)
		if err != nil {
			return err
		}
		if !target.IsRoot() {
			if _, err := tx.FindFolder(ctx, *target.FolderID); err != nil {
				return err
			}
		}

		source := ScopeOf(item.FolderID)
		closed, err := tx.ShiftItems(ctx, source, From(item.Order+1), Decrement)
		if err != nil {
			return err
		}
		opened, err := tx.ShiftItems(ctx, target, From(newOrder), Increment)
		if err != nil {
			return err
		}
		if err := tx.PlaceItem(ctx, itemID, target, newOrder); err != nil {
			return err
		}

		res.Affected = closed + opened + 1
		return nil
	})
}

// MoveFolder moves a folder to position newOrder within its own scope.
func (e *Engine) MoveFolder(ctx context.Context, folderID string, newOrder int) (Result, error) {
	return e.run(ctx, "move folder", func(tx Store, res *Result) error {
		res.ID = folderID
		folder, err := tx.FindFolder(ctx, folderID)
		if err != nil {
			return err
		}

		scope := ScopeOf(folder.FolderID)
		oldOrder := folder.Order

		var shifted int64
		switch {
		case newOrder > oldOrder:
			shifted, err = tx.ShiftFolders(ctx, scope, Between(oldOrder+1, newOrder), Decrement)
		case newOrder < oldOrder:
			shifted, err = tx.ShiftFolders(ctx, scope, Between(newOrder, oldOrder-1), Increment)
		}
		if err != nil {
			return err
		}
		if err := tx.PlaceFolder(ctx, folderID, newOrder); err != nil {
			return err
		}

		res.Affected = shifted + 1
		return nil
	})
}

// ToggleFolder flips a folder's open flag. Ordering is untouched.
func (e *Engine) ToggleFolder(ctx context.Context, folderID string) (Result, error) {
	return e.run(ctx, "toggle folder", func(tx Store, res *Result) error {
		res.ID = folderID
		folder, err := tx.FindFolder(ctx, folderID)
		if err != nil {
			return err
		}
		if err := tx.SetFolderOpen(ctx, folderID, !folder.IsOpen); err != nil {
			return err
		}
		res.Affected = 1
		return nil
	})
}

// Compact renumbers every scope to 0..k-1, keeping the current relative order (ties by id).
// Items pointing at a missing folder are appended to the root scope.
func (e *Engine) Compact(ctx context.Context) (Result, error) {
	return e.run(ctx, "compact", func(tx Store, res *Result) error {
		folders, err := tx.FindFolders(ctx, nil, Ascending, 0)
		if err != nil {
			return err
		}
		items, err := tx.FindItems(ctx, nil, Ascending, 0)
		if err != nil {
			return err
		}

		known := make(map[string]struct{}, len(folders))
		for _, f := range folders {
			known[f.ID] = struct{}{}
		}

		folderScopes := make(map[string][]Folder)
		for _, f := range folders {
			key := ScopeOf(f.FolderID).Key()
			folderScopes[key] = append(folderScopes[key], f)
		}
		for _, siblings := range folderScopes {
			for i, f := range siblings {
				if f.Order == i {
					continue
				}
				if err := tx.PlaceFolder(ctx, f.ID, i); err != nil {
					return err
				}
				res.Affected++
			}
		}

		var orphans []Item
		itemScopes := make(map[string][]Item)
		for _, it := range items {
			if it.FolderID != nil {
				if _, ok := known[*it.FolderID]; !ok {
					orphans = append(orphans, it)
					continue
				}
			}
			key := ScopeOf(it.FolderID).Key()
			itemScopes[key] = append(itemScopes[key], it)
		}
		if len(orphans) > 0 {
			itemScopes[""] = append(itemScopes[""], orphans...)
		}

		for key, siblings := range itemScopes {
			scope := Root()
			if key != "" {
				scope = InFolder(key)
			}
			for i, it := range siblings {
				if it.Order == i && ScopeOf(it.FolderID).Equal(scope) {
					continue
				}
				if err := tx.PlaceItem(ctx, it.ID, scope, i); err != nil {
					return err
				}
				res.Affected++
			}
		}
		return nil
	})
}
