package board

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by point reads when the id does not exist.
var ErrNotFound = errors.New("entity not found")

// Direction is the sort direction of an ordered scan.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// OrderRange selects siblings whose order lies in [Min, Max]. A negative Max is unbounded.
type OrderRange struct {
	Min int
	Max int
}

// From selects every order >= min.
func From(min int) OrderRange {
	return OrderRange{Min: min, Max: -1}
}

// Between selects min <= order <= max.
func Between(min, max int) OrderRange {
	return OrderRange{Min: min, Max: max}
}

// Empty reports whether the range cannot match any order.
func (r OrderRange) Empty() bool {
	return r.Max >= 0 && r.Max < r.Min
}

// Delta is the amount a shift adds to every selected order.
type Delta int

const (
	Increment Delta = 1
	Decrement Delta = -1
)

// Store is the entity store contract the ordering engine works against.
// Scans with a nil scope cover every scope.
type Store interface {
	FindItem(ctx context.Context, id string) (*Item, error)
	FindFolder(ctx context.Context, id string) (*Folder, error)
	FindItems(ctx context.Context, scope *Scope, dir Direction, limit int) ([]Item, error)
	FindFolders(ctx context.Context, scope *Scope, dir Direction, limit int) ([]Folder, error)

	CreateItem(ctx context.Context, item *Item) error
	CreateFolder(ctx context.Context, folder *Folder) error

	// PlaceItem sets an item's scope and order.
	PlaceItem(ctx context.Context, id string, scope Scope, order int) error
	// PlaceFolder sets a folder's order.
	PlaceFolder(ctx context.Context, id string, order int) error
	// SetFolderOpen sets a folder's open flag.
	SetFolderOpen(ctx context.Context, id string, open bool) error

	// ShiftItems adds delta to the order of every item in scope whose order is in r.
	ShiftItems(ctx context.Context, scope Scope, r OrderRange, delta Delta) (int64, error)
	// ShiftFolders adds delta to the order of every folder in scope whose order is in r.
	ShiftFolders(ctx context.Context, scope Scope, r OrderRange, delta Delta) (int64, error)

	// Transaction runs fn against a store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by GORM.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindItem(ctx context.Context, id string) (*Item, error) {
	var item Item
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	return &item, nil
}

func (s *gormStore) FindFolder(ctx context.Context, id string) (*Folder, error) {
	var folder Folder
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load folder %s: %w", id, err)
	}
	return &folder, nil
}

func (s *gormStore) FindItems(ctx context.Context, scope *Scope, dir Direction, limit int) ([]Item, error) {
	items := make([]Item, 0)
	if err := s.scan(ctx, scope, dir, limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *gormStore) FindFolders(ctx context.Context, scope *Scope, dir Direction, limit int) ([]Folder, error) {
	folders := make([]Folder, 0)
	if err := s.scan(ctx, scope, dir, limit).Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

func (s *gormStore) scan(ctx context.Context, scope *Scope, dir Direction, limit int) *gorm.DB {
	q := s.db.WithContext(ctx)
	if scope != nil {
		q = inScope(q, *scope)
	}
	desc := dir == Descending
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "sort_order"}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (s *gormStore) CreateItem(ctx context.Context, item *Item) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (s *gormStore) CreateFolder(ctx context.Context, folder *Folder) error {
	if err := s.db.WithContext(ctx).Create(folder).Error; err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

func (s *gormStore) PlaceItem(ctx context.Context, id string, scope Scope, order int) error {
	res := s.db.WithContext(ctx).Model(&Item{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"folder_id": scope.FolderID, "sort_order": order})
	return checkUpdate(res, "item", id)
}

func (s *gormStore) PlaceFolder(ctx context.Context, id string, order int) error {
	res := s.db.WithContext(ctx).Model(&Folder{}).Where("id = ?", id).
		UpdateColumn("sort_order", order)
	return checkUpdate(res, "folder", id)
}

func (s *gormStore) SetFolderOpen(ctx context.Context, id string, open bool) error {
	res := s.db.WithContext(ctx).Model(&Folder{}).Where("id = ?", id).
		UpdateColumn("is_open", open)
	return checkUpdate(res, "folder", id)
}

func (s *gormStore) ShiftItems(ctx context.Context, scope Scope, r OrderRange, delta Delta) (int64, error) {
	return s.shift(ctx, &Item{}, scope, r, delta)
}

func (s *gormStore) ShiftFolders(ctx context.Context, scope Scope, r OrderRange, delta Delta) (int64, error) {
	return s.shift(ctx, &Folder{}, scope, r, delta)
}

func (s *gormStore) shift(ctx context.Context, model any, scope Scope, r OrderRange, delta Delta) (int64, error) {
	if r.Empty() {
		return 0, nil
	}
	q := inScope(s.db.WithContext(ctx).Model(model), scope).Where("sort_order >= ?", r.Min)
	if r.Max >= 0 {
		q = q.Where("sort_order <= ?", r.Max)
	}
	res := q.UpdateColumn("sort_order", gorm.Expr("sort_order + ?", int(delta)))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to shift orders in %s: %w", scope, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func inScope(q *gorm.DB, scope Scope) *gorm.DB {
	if scope.IsRoot() {
		return q.Where("folder_id IS NULL")
	}
	return q.Where("folder_id = ?", *scope.FolderID)
}

func checkUpdate(res *gorm.DB, kind, id string) error {
	// RowsAffected is not checked: MySQL reports zero for rows whose values did not change.
	if res.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", kind, id, res.Error)
	}
	return nil
}
