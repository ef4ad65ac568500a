package telemetry

import (
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Pugzilla88/orbitx/internal/sim"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// Compile-time check that the manager can feed the simulation loop
var _ sim.Publisher = (*Manager)(nil)

func testSnapshot() *core.Snapshot {
	return &core.Snapshot{
		Timestamp: 100,
		SRBTime:   core.SRBFull,
		TimeAcc:   50,
		Reference: core.Earth,
		Target:    core.AYSE,
		Entities: []core.Entity{
			{Name: core.Earth, Mass: 5.972e24, Radius: 6.371e6},
			{Name: core.Habitat, Artificial: true, X: 1e7, VY: 7e3, Fuel: 1e5, Throttle: 0.5},
			{Name: core.AYSE, Artificial: true, X: 2e7},
		},
	}
}

func TestSnapshotPoints(t *testing.T) {
	points := SnapshotPoints(testSnapshot(), time.Unix(1700000000, 0))

	// one sim_state point plus one craft_state per artificial entity
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].Name() != "sim_state" {
		t.Errorf("expected sim_state first, got %s", points[0].Name())
	}
	if points[1].Name() != "craft_state" || points[2].Name() != "craft_state" {
		t.Error("expected craft_state points for artificial entities")
	}

	line := influxdb2_write.PointToLineProtocol(points[1], time.Nanosecond)
	if !strings.Contains(line, "entity=Habitat") {
		t.Errorf("expected Habitat entity tag, got %q", line)
	}
	if !strings.Contains(line, "throttle=0.5") {
		t.Errorf("expected throttle field, got %q", line)
	}
}

func TestSnapshotPoints_SkipsCelestials(t *testing.T) {
	snap := &core.Snapshot{
		Entities: []core.Entity{
			{Name: core.Earth},
			{Name: core.Sun},
		},
	}

	points := SnapshotPoints(snap, time.Now())
	if len(points) != 1 {
		t.Errorf("expected only the sim_state point, got %d", len(points))
	}
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := &Manager{}

	p := influxdb2_write.NewPointWithMeasurement("sim_state").AddField("x", 1.0)
	if err := m.WritePoint("flight_data", p); err == nil {
		t.Error("expected error with no client and no backup writer")
	}
}
