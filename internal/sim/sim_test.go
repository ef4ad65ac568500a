package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Pugzilla88/orbitx/internal/dispatcher"
	"github.com/Pugzilla88/orbitx/internal/queue"
	"github.com/Pugzilla88/orbitx/internal/schema"
	"github.com/Pugzilla88/orbitx/internal/state"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

func testState(t *testing.T) *state.State {
	t.Helper()

	snap := core.Snapshot{
		Timestamp: 100,
		TimeAcc:   1,
		Reference: core.Earth,
		Entities: []core.Entity{
			{Name: core.Earth, Mass: 5.972e24, Radius: 6.371e6},
			{
				Name: core.Habitat, Mass: 2.75e5, Radius: 47, Artificial: true,
				X: 1e7, Y: 0, VX: 0, VY: 7e3, Heading: 1.0, Spin: 0.5, Fuel: 1e5,
			},
		},
	}

	s, err := state.FromSnapshot(&snap)
	if err != nil {
		t.Fatalf("building state: %v", err)
	}
	return s
}

func TestKinematicIntegrator_AdvancesPositions(t *testing.T) {
	s := testState(t)

	y, err := KinematicIntegrator{}.Step(context.Background(), s.Vector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next, err := s.Successor(y)
	if err != nil {
		t.Fatalf("building successor: %v", err)
	}

	hab, _ := next.EntityByName(core.Habitat)
	if hab.Y() != 7e4 {
		t.Errorf("expected y position 7e4, got %v", hab.Y())
	}
	if hab.X() != 1e7 {
		t.Errorf("expected x position unchanged, got %v", hab.X())
	}
	if hab.VY() != 7e3 {
		t.Errorf("velocity should be untouched, got %v", hab.VY())
	}
	if math.Abs(hab.Heading()-6.0) > 1e-9 {
		t.Errorf("expected heading 6.0, got %v", hab.Heading())
	}
}

func TestKinematicIntegrator_RejectsBadLength(t *testing.T) {
	y := make([]float64, schema.VectorLen(3)+1)

	_, err := KinematicIntegrator{}.Step(context.Background(), y, 1)
	if err == nil {
		t.Error("expected error for malformed vector")
	}
}

func TestKinematicIntegrator_DoesNotModifyInput(t *testing.T) {
	s := testState(t)
	before := make([]float64, len(s.Vector()))
	copy(before, s.Vector())

	_, err := KinematicIntegrator{}.Step(context.Background(), s.Vector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, v := range s.Vector() {
		if v != before[i] {
			t.Fatalf("input vector modified at slot %d", i)
		}
	}
}

func TestHolder_Swap(t *testing.T) {
	s := testState(t)
	h := NewHolder(s)

	if h.Current() != s {
		t.Error("expected seeded state")
	}

	s2 := testState(t)
	h.Swap(s2)
	if h.Current() != s2 {
		t.Error("expected swapped state")
	}
}

func newTestLoop(t *testing.T, h *Holder, pubs ...Publisher) (*Loop, *queue.Queue[dispatcher.Command], *dispatcher.Dispatcher) {
	t.Helper()

	logger := zerolog.Nop()
	d, err := dispatcher.New(logger)
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}

	q := queue.New[dispatcher.Command]()

	loop := NewLoop(Dependencies{
		Holder:     h,
		Dispatcher: d,
		Commands:   q,
		Integrator: KinematicIntegrator{},
		Publishers: pubs,
		Tick:       50 * time.Millisecond,
		Logger:     logger,
	})

	return loop, q, d
}

func TestLoop_StepAdvancesTimestamp(t *testing.T) {
	s := testState(t)
	s.SetTimeAcc(10)
	h := NewHolder(s)

	loop, _, _ := newTestLoop(t, h)

	if err := loop.Step(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := h.Current()
	if next == s {
		t.Fatal("expected holder to swap in successor state")
	}

	// 0.05s tick at 10x acceleration = 0.5s of simulation time
	if math.Abs(next.Timestamp()-100.5) > 1e-9 {
		t.Errorf("expected timestamp 100.5, got %v", next.Timestamp())
	}
}

func TestLoop_StepDispatchesQueuedCommands(t *testing.T) {
	s := testState(t)
	h := NewHolder(s)

	loop, q, d := newTestLoop(t, h)

	var seen []string
	d.Register("SET_THROTTLE", func(c dispatcher.Command) (any, error) {
		seen = append(seen, c.Args[0])
		return nil, nil
	})

	q.Push(dispatcher.Command{Name: "SET_THROTTLE", Args: []string{"0.5"}})
	q.Push(dispatcher.Command{Name: "SET_THROTTLE", Args: []string{"1.0"}})

	if err := loop.Step(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 || seen[0] != "0.5" || seen[1] != "1.0" {
		t.Errorf("expected commands dispatched in order, got %v", seen)
	}
	if !q.Empty() {
		t.Error("expected queue drained")
	}
}

func TestLoop_StepPublishesSnapshot(t *testing.T) {
	s := testState(t)
	h := NewHolder(s)

	var got *core.Snapshot
	pub := PublisherFunc(func(snap *core.Snapshot) error {
		got = snap
		return nil
	})

	loop, _, _ := newTestLoop(t, h, pub)

	if err := loop.Step(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got == nil {
		t.Fatal("expected publisher to receive a snapshot")
	}
	if len(got.Entities) != 2 {
		t.Errorf("expected 2 entities, got %d", len(got.Entities))
	}
	if got.Timestamp != h.Current().Timestamp() {
		t.Errorf("snapshot timestamp %v does not match state %v", got.Timestamp, h.Current().Timestamp())
	}
}

func TestLoop_StartStop(t *testing.T) {
	s := testState(t)
	h := NewHolder(s)

	loop, _, _ := newTestLoop(t, h)

	if err := loop.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loop.IsRunning() {
		t.Error("expected loop running")
	}

	// Idempotent start
	if err := loop.Start(); err != nil {
		t.Fatalf("unexpected error on second start: %v", err)
	}

	loop.Stop()

	deadline := time.After(time.Second)
	for loop.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("loop did not stop")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
