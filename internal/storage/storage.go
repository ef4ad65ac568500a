package storage

import (
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// Backend is the interface all save-storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Save management
	SaveSnapshot(name string, snap *core.Snapshot) error
	LoadSnapshot(name string) (*core.Snapshot, error)
	ListSnapshots() ([]core.SaveInfo, error)
}
