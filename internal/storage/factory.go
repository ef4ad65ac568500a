package storage

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Pugzilla88/orbitx/internal/config"
	"github.com/Pugzilla88/orbitx/internal/storage/gormdb"
	"github.com/Pugzilla88/orbitx/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration. Database
// backends need the already-connected db handle; memory does not.
func NewBackend(storageType string, memCfg config.MemoryConfig, db *gorm.DB, logger zerolog.Logger) (Backend, error) {
	switch storageType {
	case "postgres", "sqlite", "db":
		if db == nil {
			return nil, fmt.Errorf("storage type %q requires a database connection", storageType)
		}
		return gormdb.New(db, logger), nil
	case "memory":
		return memory.New(memCfg), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
