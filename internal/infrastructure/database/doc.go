// Package database provides SQLite connectivity for the routine execution
// history.
//
// This package manages:
//   - File databases with WAL mode and a busy timeout
//   - Session-scoped in-memory databases (Path ":memory:" or empty)
//   - Schema migrations embedded by the migrations package
//
// All queries use parameterised statements. File databases are chmod 0600.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.History.Path, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with a
// matching .down.sql. Each migration is applied in its own transaction.
package database
