package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Pugzilla88/orbitx/internal/dispatcher"
	"github.com/Pugzilla88/orbitx/internal/queue"
)

// Dependencies holds all dependencies for the simulation loop.
type Dependencies struct {
	Holder     *Holder
	Dispatcher *dispatcher.Dispatcher
	Commands   *queue.Queue[dispatcher.Command]
	Integrator Integrator
	Publishers []Publisher
	Tick       time.Duration
	Logger     zerolog.Logger
}

// Loop runs the simulation: each tick it applies queued commands,
// integrates the state vector, swaps in the successor state, and
// publishes a snapshot.
type Loop struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewLoop creates a new simulation loop.
func NewLoop(deps Dependencies) *Loop {
	return &Loop{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the loop goroutine is running.
func (l *Loop) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isRunning
}

// Step runs a single tick. Commands drained from the queue see the
// pre-step state; the integrator sees the state after all commands
// have been applied.
func (l *Loop) Step(ctx context.Context) error {
	for _, c := range l.deps.Commands.Drain() {
		if _, err := l.deps.Dispatcher.Dispatch(c); err != nil {
			l.deps.Logger.Warn().Err(err).Str("command", c.Name).Msg("command rejected")
		}
	}

	cur := l.deps.Holder.Current()

	// Simulation time advanced this tick scales with time acceleration.
	dt := l.deps.Tick.Seconds() * cur.TimeAcc()

	y, err := l.deps.Integrator.Step(ctx, cur.Vector(), dt)
	if err != nil {
		return fmt.Errorf("integrating state: %w", err)
	}

	next, err := cur.Successor(y)
	if err != nil {
		return fmt.Errorf("building successor state: %w", err)
	}
	next.SetTimestamp(cur.Timestamp() + dt)

	l.deps.Holder.Swap(next)

	snap := next.ToSnapshot()
	for _, p := range l.deps.Publishers {
		if err := p.Publish(&snap); err != nil {
			l.deps.Logger.Error().Err(err).Msg("publishing snapshot")
		}
	}

	return nil
}

// Start starts the loop goroutine.
func (l *Loop) Start() error {
	l.mu.Lock()
	if l.isRunning {
		l.mu.Unlock()
		return nil
	}
	l.isRunning = true
	l.stopChan = make(chan struct{})
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			l.isRunning = false
			l.mu.Unlock()
		}()

		l.deps.Logger.Debug().
			Dur("tick", l.deps.Tick).
			Msg("starting simulation loop")

		ticker := time.NewTicker(l.deps.Tick)
		defer ticker.Stop()

		for {
			select {
			case <-l.stopChan:
				return
			case <-ticker.C:
				if err := l.Step(context.Background()); err != nil {
					l.deps.Logger.Error().Err(err).Msg("simulation step failed")
				}
			}
		}
	}()

	return nil
}

// Stop stops the loop goroutine.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isRunning {
		close(l.stopChan)
	}
}
