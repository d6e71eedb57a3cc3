package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	app := fiber.New()
	svc, _ := setupTestService(t, db)
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func getJSON(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleOrderCheck(t *testing.T) {
	db := setupTestDB(t)
	seedBroken(t, db)
	app := setupTestApp(t, db)

	status, body := getJSON(t, app, "/integrity/order")
	assert.Equal(t, 200, status)
	assert.Equal(t, "checked", body["status"])
	report := body["report"].(map[string]any)
	assert.Equal(t, false, report["matched"])
	assert.Equal(t, []any{"item:d"}, report["dangling"])
}

func TestHandleOrderCheck_Fix(t *testing.T) {
	db := setupTestDB(t)
	seedBroken(t, db)
	app := setupTestApp(t, db)

	status, body := getJSON(t, app, "/integrity/order?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])
	assert.Equal(t, false, body["before"].(map[string]any)["matched"])
	assert.Equal(t, true, body["report"].(map[string]any)["matched"])

	// A second pass has nothing left to fix.
	status, body = getJSON(t, app, "/integrity/order?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "checked", body["status"])
}

func TestHandleOrderCheck_StorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	app := setupTestApp(t, db)
	mock.ExpectQuery("SELECT (.+) FROM `items`").WillReturnError(assert.AnError)

	status, body := getJSON(t, app, "/integrity/order")
	assert.Equal(t, 500, status)
	assert.Contains(t, body["error"], "failed to build snapshot")
}

func TestHandleSchemaCheck(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db)

	status, body := getJSON(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
	assert.Equal(t, "sqlite", body["driver"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db)

	status, body := getJSON(t, app, "/integrity")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "order")
	assert.Contains(t, body, "schema")
}
