package board

import (
	"fmt"

	"board-sync/core/database"

	"gorm.io/gorm"
)

// Columns lists the columns each board table must carry.
var Columns = map[string][]string{
	Item{}.TableName():   {"id", "title", "icon", "folder_id", "sort_order"},
	Folder{}.TableName(): {"id", "name", "is_open", "folder_id", "sort_order"},
}

// Migrate creates or updates the items and folders tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Folder{}, &Item{}); err != nil {
		return fmt.Errorf("failed to migrate board schema: %w", err)
	}
	return nil
}

// CheckSchema returns the missing columns per table; an empty map means the schema is complete.
func CheckSchema(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	for table, expected := range Columns {
		missing, err := database.MissingColumns(db, table, expected)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			report[table] = missing
		}
	}
	return report, nil
}
