package core

import (
	"errors"
	"time"
)

// ErrSaveNotFound is returned when loading a save name that does not exist.
var ErrSaveNotFound = errors.New("save not found")

// SaveInfo describes one stored save without its entity payload.
type SaveInfo struct {
	Name      string    `json:"name"`
	Timestamp float64   `json:"timestamp"` // simulation time of the saved snapshot
	Entities  int       `json:"entities"`
	SavedAt   time.Time `json:"savedAt"`
}
