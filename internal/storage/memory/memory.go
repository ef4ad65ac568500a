// Package memory stores saves in process memory and mirrors them to JSON
// files so they survive a restart.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Pugzilla88/orbitx/internal/config"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// saveRecord groups a snapshot with its bookkeeping
type saveRecord struct {
	snap    core.Snapshot
	savedAt time.Time
}

// Backend stores saves in memory and exports to JSON
type Backend struct {
	cfg   config.MemoryConfig
	saves map[string]*saveRecord // keyed by save name
	mu    sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		saves: make(map[string]*saveRecord),
	}
}

// Init creates the output directory if file mirroring is configured.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveSnapshot stores a deep copy of the snapshot under the given name,
// replacing any previous save with that name.
func (b *Backend) SaveSnapshot(name string, snap *core.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec := &saveRecord{
		snap:    snap.Clone(),
		savedAt: time.Now(),
	}
	b.saves[name] = rec

	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON(name, &rec.snap)
}

// LoadSnapshot returns a copy of the named save. Saves written by an
// earlier process are read back from the output directory.
func (b *Backend) LoadSnapshot(name string) (*core.Snapshot, error) {
	b.mu.RLock()
	rec, ok := b.saves[name]
	b.mu.RUnlock()

	if ok {
		snap := rec.snap.Clone()
		return &snap, nil
	}

	if b.cfg.OutputDir == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrSaveNotFound, name)
	}

	snap, err := b.readJSON(name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.saves[name] = &saveRecord{snap: snap.Clone(), savedAt: time.Now()}
	b.mu.Unlock()

	return snap, nil
}

// ListSnapshots returns info for all in-memory saves, sorted by name.
func (b *Backend) ListSnapshots() ([]core.SaveInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	infos := make([]core.SaveInfo, 0, len(b.saves))
	for name, rec := range b.saves {
		infos = append(infos, core.SaveInfo{
			Name:      name,
			Timestamp: rec.snap.Timestamp,
			Entities:  len(rec.snap.Entities),
			SavedAt:   rec.savedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// filename maps a save name to its on-disk path. Spaces and colons are
// replaced so names copied from mission clocks stay portable.
func (b *Backend) filename(name string) string {
	clean := strings.ReplaceAll(name, " ", "_")
	clean = strings.ReplaceAll(clean, ":", "_")

	if b.cfg.CompressOutput {
		return filepath.Join(b.cfg.OutputDir, clean+".json.gz")
	}
	return filepath.Join(b.cfg.OutputDir, clean+".json")
}

// exportJSON writes the snapshot to a JSON file, gzipped if configured.
func (b *Backend) exportJSON(name string, snap *core.Snapshot) error {
	f, err := os.Create(b.filename(name))
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if b.cfg.CompressOutput {
		gzWriter := gzip.NewWriter(f)
		defer gzWriter.Close()
		w = gzWriter
	}

	return json.NewEncoder(w).Encode(snap)
}

func (b *Backend) readJSON(name string) (*core.Snapshot, error) {
	f, err := os.Open(b.filename(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrSaveNotFound, name)
		}
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if b.cfg.CompressOutput {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read save file: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	snap := &core.Snapshot{}
	if err := json.NewDecoder(r).Decode(snap); err != nil {
		return nil, fmt.Errorf("failed to decode save file: %w", err)
	}
	return snap, nil
}
