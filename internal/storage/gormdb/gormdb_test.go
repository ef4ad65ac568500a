package gormdb

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pugzilla88/orbitx/internal/database"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// newTestBackend creates a Backend on a per-test SQLite database. A file
// in t.TempDir keeps tests isolated; the shared in-memory DSN would leak
// saves between tests.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	m := database.NewManager(zerolog.Nop())
	db, err := m.GetSqliteDB(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)

	b := New(db, zerolog.Nop())
	require.NoError(t, b.Init())
	return b
}

func testSnapshot() *core.Snapshot {
	return &core.Snapshot{
		Timestamp: 3000,
		SRBTime:   core.SRBFull,
		TimeAcc:   10,
		Reference: core.Earth,
		Target:    core.AYSE,
		Entities: []core.Entity{
			{Name: core.Earth, Mass: 5.972e24, Radius: 6.371e6, X: 10, Y: 20},
			{
				Name: core.Habitat, Mass: 2.75e5, Radius: 47, Artificial: true,
				X: 1e7, VY: 7e3, Heading: 1.2, Fuel: 1e5, LandedOn: core.Earth,
			},
		},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	require.NoError(t, b.SaveSnapshot("quicksave", testSnapshot()))

	loaded, err := b.LoadSnapshot("quicksave")
	require.NoError(t, err)

	assert.Equal(t, 3000.0, loaded.Timestamp)
	assert.Equal(t, core.Earth, loaded.Reference)
	require.Len(t, loaded.Entities, 2)
	assert.Equal(t, core.Earth, loaded.Entities[0].Name)
	assert.Equal(t, core.Habitat, loaded.Entities[1].Name)
	assert.Equal(t, 1e7, loaded.Entities[1].X)
	assert.Equal(t, core.Earth, loaded.Entities[1].LandedOn)
}

func TestSaveSnapshot_ReplacesExisting(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	snap := testSnapshot()
	require.NoError(t, b.SaveSnapshot("slot1", snap))

	snap.Timestamp = 4000
	require.NoError(t, b.SaveSnapshot("slot1", snap))

	loaded, err := b.LoadSnapshot("slot1")
	require.NoError(t, err)
	assert.Equal(t, 4000.0, loaded.Timestamp)

	infos, err := b.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Entities)
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	_, err := b.LoadSnapshot("missing")
	assert.True(t, errors.Is(err, core.ErrSaveNotFound))
}

func TestListSnapshots_OrderedByName(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	snap := testSnapshot()
	require.NoError(t, b.SaveSnapshot("beta", snap))
	require.NoError(t, b.SaveSnapshot("alpha", snap))

	infos, err := b.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "beta", infos[1].Name)
	assert.Equal(t, 3000.0, infos[0].Timestamp)
}
