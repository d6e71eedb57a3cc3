package archive

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"board-sync/core/config"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleCreate(t *testing.T) {
	a, client, _ := setupTestArchiver(t, 0)
	client.On("PutObject", mock.Anything, "board", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	app := fiber.New()
	NewHandler(a, zap.NewNop()).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("POST", "/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var entry Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	assert.Equal(t, "snapshots/history/20260314T150926.000000000Z.json", entry.Key)
}

func TestHandleCreate_Failure(t *testing.T) {
	a, client, _ := setupTestArchiver(t, 0)
	client.On("PutObject", mock.Anything, "board", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket missing"))
	app := fiber.New()
	NewHandler(a, zap.NewNop()).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("POST", "/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHandleList(t *testing.T) {
	a, client, _ := setupTestArchiver(t, 0)
	client.On("ListObjects", mock.Anything, "board", mock.Anything).Return(objects(
		minio.ObjectInfo{Key: "snapshots/history/20260101T000000.000000000Z.json", Size: 3},
	))
	app := fiber.New()
	NewHandler(a, zap.NewNop()).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].Size)
}

func TestHandleLatest(t *testing.T) {
	a, client, _ := setupTestArchiver(t, 0)
	client.On("GetObject", mock.Anything, "board", "snapshots/latest.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`{"items":[],"folders":[]}`)), nil).Once()
	client.On("GetObject", mock.Anything, "board", "snapshots/latest.json", mock.Anything).
		Return(nil, errors.New("NoSuchKey")).Once()
	app := fiber.New()
	NewHandler(a, zap.NewNop()).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/archive/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	b := setupTestBoard(t)

	disabled := NewFeature(nil, "board", config.ArchiveConfig{}, b.Snapshots(), zap.NewNop())
	assert.Equal(t, "archive", disabled.Name())
	assert.False(t, disabled.IsEnabled())

	enabled := NewFeature(nil, "board", config.ArchiveConfig{Enabled: true, Prefix: "p"}, b.Snapshots(), zap.NewNop())
	assert.True(t, enabled.IsEnabled())
	assert.Equal(t, "p/latest.json", enabled.Archiver().LatestKey())
	assert.NoError(t, enabled.Load(fiber.New()))
}
