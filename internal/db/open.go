package db

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the sqlite connection string for the given database file.
// Foreign keys must be switched on per connection; WAL gives better
// crash recovery for a desktop-style single-writer workload.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000", path)
}

// Open opens (creating if needed) the sqlite database at path and
// returns an explicitly owned handle. Callers own the lifecycle and
// must Close it; there is no package-level singleton.
func Open(path string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	conn, err := gorm.Open(sqlite.Open(DSN(path)), cfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		_ = Close(conn)
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Basic connectivity test
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		_ = Close(conn)
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}

// Close releases the underlying connection. Safe to call once per Open,
// including on error paths during startup.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
