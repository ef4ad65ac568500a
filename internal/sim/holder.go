package sim

import (
	"sync"

	"github.com/Pugzilla88/orbitx/internal/state"
)

// Holder holds the current simulation state. The loop swaps in each
// successor state after an integration step; command handlers and the
// network layer read through Current.
type Holder struct {
	mu  sync.RWMutex
	cur *state.State
}

// NewHolder creates a Holder seeded with the given state.
func NewHolder(s *state.State) *Holder {
	return &Holder{cur: s}
}

// Current returns the current state.
func (h *Holder) Current() *state.State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

// Swap replaces the current state.
func (h *Holder) Swap(s *state.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = s
}
