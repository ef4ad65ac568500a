// internal/state/errors.go
package state

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when a state vector's length is inconsistent
// with the snapshot's entity count and the schema's mutable field count.
// This indicates a contract violation between the integrator and the state
// layer; callers should treat it as fatal.
var ErrShapeMismatch = errors.New("state vector shape mismatch")

// NoEntityError is returned when a name-based lookup does not match any
// entity in the state. Always recoverable by the caller.
type NoEntityError struct {
	Name string
}

func (e NoEntityError) Error() string {
	return fmt.Sprintf("no entity named %q in entity list", e.Name)
}

// IsNoEntity reports whether err is a NoEntityError.
func IsNoEntity(err error) bool {
	var noEntity NoEntityError
	return errors.As(err, &noEntity)
}
