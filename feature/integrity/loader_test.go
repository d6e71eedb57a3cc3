package integrity

import (
	"testing"

	"board-sync/feature/board"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	db := setupTestDB(t)
	logger := zap.NewNop()
	feature := NewFeature(board.NewFeature(db, nil, logger), db, logger)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
