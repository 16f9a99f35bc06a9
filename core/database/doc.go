// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local use and
// tests) connections based on the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definitions so the
// library feature can verify, after auto-migration, that every column the
// migration procedure writes actually exists.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "episodes", []string{"seen", "bookmark"})
package database
