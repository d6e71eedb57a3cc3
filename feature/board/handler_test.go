package board

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"board-sync/core/hub"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *hub.Hub[*Snapshot]) {
	t.Helper()
	h := hub.New[*Snapshot](8)
	feature := NewFeature(setupTestDB(t), h, zap.NewNop())
	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, h
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHandleGetState(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "GET", "/api/state", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, []any{}, body["items"])
	assert.Equal(t, []any{}, body["folders"])
}

func TestHandleMutations(t *testing.T) {
	app, h := setupTestApp(t)
	sub := h.Subscribe()
	defer sub.Close()

	status, body := doJSON(t, app, "POST", "/api/folders", map[string]any{"name": "Work"})
	require.Equal(t, 201, status)
	folders := body["folders"].([]any)
	folderID := folders[0].(map[string]any)["id"].(string)

	status, body = doJSON(t, app, "POST", "/api/items", map[string]any{"title": "Mail", "icon": "@", "folderId": folderID})
	require.Equal(t, 201, status)
	item := body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, folderID, item["folderId"])
	itemID := item["id"].(string)

	status, body = doJSON(t, app, "POST", "/api/items/"+itemID+"/move", map[string]any{"targetFolderId": nil, "newOrder": 0})
	require.Equal(t, 200, status)
	assert.Nil(t, body["items"].([]any)[0].(map[string]any)["folderId"])

	status, _ = doJSON(t, app, "POST", "/api/folders/"+folderID+"/move", map[string]any{"newOrder": 0})
	require.Equal(t, 200, status)

	status, body = doJSON(t, app, "POST", "/api/folders/"+folderID+"/toggle", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, false, body["folders"].([]any)[0].(map[string]any)["isOpen"])

	assert.Len(t, sub.C, 5)
}

func TestHandleErrors(t *testing.T) {
	app, h := setupTestApp(t)
	sub := h.Subscribe()
	defer sub.Close()

	status, body := doJSON(t, app, "POST", "/api/items", map[string]any{"title": "no icon"})
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "malformed command")

	status, _ = doJSON(t, app, "POST", "/api/items/ghost/move", map[string]any{"newOrder": 0})
	assert.Equal(t, 404, status)

	status, _ = doJSON(t, app, "POST", "/api/items/ghost/move", map[string]any{"newOrder": -3})
	assert.Equal(t, 400, status)

	status, body = doJSON(t, app, "POST", "/api/folders/ghost/toggle", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "ghost", body["id"])

	assert.Len(t, sub.C, 0)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(setupTestDB(t), hub.New[*Snapshot](0), zap.NewNop())

	assert.Equal(t, "board", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Dispatcher())
	assert.NotNil(t, feature.Store())
	assert.NotNil(t, feature.Snapshots())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}

func TestMigrate_CheckSchema(t *testing.T) {
	db := setupTestDB(t)

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.Empty(t, report)

	require.NoError(t, db.Migrator().DropColumn(&Item{}, "icon"))
	report, err = CheckSchema(db)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"items": {"icon"}}, report)
}
