package database

import (
	"fmt"
	"os"
	"path/filepath"

	"journal-coach/internal/config"
	"journal-coach/internal/journal"
)

// NewStoreFromConfig opens the store described by the database config.
// The parent directory of a file database is created if needed.
func NewStoreFromConfig(cfg *config.Config, clock journal.Clock) (*SQLiteStore, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	return NewSQLiteStore(path, clock)
}
