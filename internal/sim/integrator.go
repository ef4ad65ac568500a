package sim

import (
	"context"
	"fmt"

	"github.com/Pugzilla88/orbitx/internal/schema"
)

// Integrator advances a flat state vector by dt seconds of simulation
// time and returns the successor vector. Implementations must not
// modify y; the returned slice is adopted by the next state.
type Integrator interface {
	Step(ctx context.Context, y []float64, dt float64) ([]float64, error)
}

// KinematicIntegrator advances positions by velocity and heading by
// spin, with no force model. It stands in wherever a full gravity
// solver is not wired up, and in tests.
type KinematicIntegrator struct{}

func (KinematicIntegrator) Step(_ context.Context, y []float64, dt float64) ([]float64, error) {
	n := (len(y) - schema.TrailingScalars) / schema.MutableFieldCount
	if schema.VectorLen(n) != len(y) {
		return nil, fmt.Errorf("vector has %d slots, not a whole number of entities", len(y))
	}

	out := make([]float64, len(y))
	copy(out, y)

	x := out[schema.BlockX*n : (schema.BlockX+1)*n]
	yy := out[schema.BlockY*n : (schema.BlockY+1)*n]
	vx := out[schema.BlockVX*n : (schema.BlockVX+1)*n]
	vy := out[schema.BlockVY*n : (schema.BlockVY+1)*n]
	heading := out[schema.BlockHeading*n : (schema.BlockHeading+1)*n]
	spin := out[schema.BlockSpin*n : (schema.BlockSpin+1)*n]

	for i := 0; i < n; i++ {
		x[i] += vx[i] * dt
		yy[i] += vy[i] * dt
		heading[i] += spin[i] * dt
	}

	return out, nil
}
