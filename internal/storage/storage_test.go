package storage

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Pugzilla88/orbitx/internal/config"
	"github.com/Pugzilla88/orbitx/internal/database"
	"github.com/Pugzilla88/orbitx/internal/storage/gormdb"
	"github.com/Pugzilla88/orbitx/internal/storage/memory"
)

// Compile-time interface checks for all backends
var (
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*gormdb.Backend)(nil)
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := NewBackend("memory", config.MemoryConfig{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*memory.Backend); !ok {
		t.Errorf("expected memory backend, got %T", b)
	}
}

func TestNewBackend_Database(t *testing.T) {
	m := database.NewManager(zerolog.Nop())
	db, err := m.GetSqliteDB(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	b, err := NewBackend("sqlite", config.MemoryConfig{}, db, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*gormdb.Backend); !ok {
		t.Errorf("expected gormdb backend, got %T", b)
	}
}

func TestNewBackend_DatabaseWithoutConnection(t *testing.T) {
	_, err := NewBackend("postgres", config.MemoryConfig{}, nil, zerolog.Nop())
	if err == nil {
		t.Error("expected error for db backend without connection")
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := NewBackend("carrier-pigeon", config.MemoryConfig{}, nil, zerolog.Nop())
	if err == nil {
		t.Error("expected error for unknown storage type")
	}
}
