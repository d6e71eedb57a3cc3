// Package database handles entity store connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies pool settings suited to the
// driver and pings the database before returning. SQLite connections are limited to a
// single open connection, which also keeps ":memory:" databases coherent.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the migrate command verify that the items
// and folders tables carry the columns the board feature expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "items", []string{"id", "sort_order"})
package database
