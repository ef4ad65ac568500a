package sim

import "github.com/Pugzilla88/orbitx/pkg/core"

// Publisher receives a snapshot of the simulation after each tick.
// Implementations must treat the snapshot as read-only.
type Publisher interface {
	Publish(snap *core.Snapshot) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(snap *core.Snapshot) error

func (f PublisherFunc) Publish(snap *core.Snapshot) error {
	return f(snap)
}
