package checks

import (
	"testing"

	"board-sync/feature/board"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_Migrated(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, board.Migrate(db))

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.True(t, report.Matched)
	assert.Equal(t, "sqlite", report.Driver)
	assert.Equal(t, "ok", report.Tables["items"].Status)
	assert.Equal(t, "ok", report.Tables["folders"].Status)
}

func TestCheckSchema_MissingColumn(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, board.Migrate(db))
	require.NoError(t, db.Migrator().DropColumn(&board.Folder{}, "is_open"))

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, "error", report.Tables["folders"].Status)
	assert.Equal(t, []string{"is_open"}, report.Tables["folders"].MissingColumns)
	assert.Equal(t, "ok", report.Tables["items"].Status)
}
