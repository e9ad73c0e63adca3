package journal

import (
	"fmt"
	"path/filepath"

	"dupcheck/internal/config"
	"dupcheck/internal/dupes"
)

// NewJournalFromConfig creates the Journal selected by cfg.Type.
func NewJournalFromConfig(cfg config.JournalConfig) (dupes.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, FileName))
	case "memory":
		return NewSQLiteJournal(":memory:")
	case "none", "":
		return dupes.NopJournal{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
