package board

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"testing"

	"board-sync/core/database"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory SQLite database with the board schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func setupTestEngine(t *testing.T) (*Engine, Store) {
	t.Helper()
	store := NewStore(setupTestDB(t))
	return NewEngine(store, zap.NewNop()), store
}

// mockBroadcaster records published snapshots.
type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Publish(snapshot *Snapshot) int {
	args := m.Called(snapshot)
	return args.Int(0)
}

func mustAddItem(t *testing.T, e *Engine, title string, folderID *string) string {
	t.Helper()
	res, err := e.AddItem(context.Background(), NewItem{Title: title, Icon: "*", FolderID: folderID})
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	return res.ID
}

func mustAddFolder(t *testing.T, e *Engine, name string) string {
	t.Helper()
	res, err := e.AddFolder(context.Background(), NewFolder{Name: name, IsOpen: true})
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	return res.ID
}

func snapshotOf(t *testing.T, store Store) *Snapshot {
	t.Helper()
	snap, err := NewSnapshotBuilder(store).Build(context.Background())
	require.NoError(t, err)
	return snap
}

func snapshotJSON(t *testing.T, store Store) string {
	t.Helper()
	raw, err := json.Marshal(snapshotOf(t, store))
	require.NoError(t, err)
	return string(raw)
}

// itemLayout returns "title:order" pairs for one scope, in order.
func itemLayout(t *testing.T, store Store, scope Scope) []string {
	t.Helper()
	var out []string
	for _, it := range snapshotOf(t, store).ItemsIn(scope) {
		out = append(out, it.Title+":"+strconv.Itoa(it.Order))
	}
	return out
}

func folderLayout(t *testing.T, store Store) []string {
	t.Helper()
	var out []string
	for _, f := range snapshotOf(t, store).FoldersIn(Root()) {
		out = append(out, f.Name+":"+strconv.Itoa(f.Order))
	}
	return out
}

// requireDense asserts that every item scope and folder scope holds exactly 0..k-1.
func requireDense(t *testing.T, store Store) {
	t.Helper()
	snap := snapshotOf(t, store)

	itemOrders := make(map[string][]int)
	for _, it := range snap.Items {
		key := ScopeOf(it.FolderID).Key()
		itemOrders[key] = append(itemOrders[key], it.Order)
	}
	folderOrders := make(map[string][]int)
	for _, f := range snap.Folders {
		key := ScopeOf(f.FolderID).Key()
		folderOrders[key] = append(folderOrders[key], f.Order)
	}

	for kind, scopes := range map[string]map[string][]int{"items": itemOrders, "folders": folderOrders} {
		for key, orders := range scopes {
			sort.Ints(orders)
			for i, o := range orders {
				require.Equalf(t, i, o, "%s in scope %q are not dense: %v", kind, key, orders)
			}
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
