package checks

import (
	"fmt"

	"board-sync/feature/board"

	"gorm.io/gorm"
)

// SchemaReport types the result of a schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

// TableReport lists the columns a table lacks.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies the connected database carries every board column.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	missing, err := board.CheckSchema(db)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: len(missing) == 0,
		Tables:  make(map[string]TableReport),
	}
	for table := range board.Columns {
		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if cols, ok := missing[table]; ok {
			tbl.MissingColumns = cols
			tbl.Status = "error"
		}
		report.Tables[table] = tbl
	}
	return report, nil
}
