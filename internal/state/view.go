// internal/state/view.go
package state

import (
	"github.com/Pugzilla88/orbitx/internal/schema"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// View is a zero-copy accessor bound to one State and one entity index.
// Field reads and writes go straight into the owning state's vector (for
// mutable fields) or snapshot (for unchanging fields); no accessor
// allocates. Two Views are equal exactly when they refer to the same
// logical entity of the same state.
//
// A View borrows from its State: once that State is superseded by the next
// tick's, the View reads stale data and must not be kept.
type View struct {
	s     *State
	index int
}

// Index returns the entity's fixed index within the state.
func (v View) Index() int {
	return v.index
}

// slot computes the vector offset of one mutable field for this entity.
func (v View) slot(block int) int {
	return block*v.s.n + v.index
}

// Unchanging fields, read from and written to the owning snapshot.

func (v View) Name() string {
	return v.s.snap.Entities[v.index].Name
}

// SetName renames the entity, keeping the state's name table consistent.
func (v View) SetName(name string) {
	e := &v.s.snap.Entities[v.index]
	if e.Name == name {
		return
	}
	delete(v.s.indexOf, e.Name)
	v.s.indexOf[name] = v.index
	v.s.names[v.index] = name
	e.Name = name
}

func (v View) Mass() float64 {
	return v.s.snap.Entities[v.index].Mass
}

func (v View) SetMass(m float64) {
	v.s.snap.Entities[v.index].Mass = m
}

func (v View) Radius() float64 {
	return v.s.snap.Entities[v.index].Radius
}

func (v View) SetRadius(r float64) {
	v.s.snap.Entities[v.index].Radius = r
}

func (v View) Artificial() bool {
	return v.s.snap.Entities[v.index].Artificial
}

func (v View) SetArtificial(a bool) {
	v.s.snap.Entities[v.index].Artificial = a
}

// Atmosphere parameters have no setters: the atmosphere index cache is
// fixed at construction, so changing them requires building a new state.

func (v View) AtmosphereThickness() float64 {
	return v.s.snap.Entities[v.index].AtmosphereThickness
}

func (v View) AtmosphereScaling() float64 {
	return v.s.snap.Entities[v.index].AtmosphereScaling
}

// Mutable numeric fields, addressed as block*n + index in the vector.

func (v View) X() float64         { return v.s.y[v.slot(schema.BlockX)] }
func (v View) SetX(x float64)     { v.s.y[v.slot(schema.BlockX)] = x }
func (v View) Y() float64         { return v.s.y[v.slot(schema.BlockY)] }
func (v View) SetY(y float64)     { v.s.y[v.slot(schema.BlockY)] = y }
func (v View) VX() float64        { return v.s.y[v.slot(schema.BlockVX)] }
func (v View) SetVX(vx float64)   { v.s.y[v.slot(schema.BlockVX)] = vx }
func (v View) VY() float64        { return v.s.y[v.slot(schema.BlockVY)] }
func (v View) SetVY(vy float64)   { v.s.y[v.slot(schema.BlockVY)] = vy }
func (v View) Heading() float64   { return v.s.y[v.slot(schema.BlockHeading)] }
func (v View) SetHeading(h float64) {
	v.s.y[v.slot(schema.BlockHeading)] = normalizeHeading(h)
}
func (v View) Spin() float64      { return v.s.y[v.slot(schema.BlockSpin)] }
func (v View) SetSpin(sp float64) { v.s.y[v.slot(schema.BlockSpin)] = sp }
func (v View) Fuel() float64      { return v.s.y[v.slot(schema.BlockFuel)] }
func (v View) SetFuel(f float64)  { v.s.y[v.slot(schema.BlockFuel)] = f }
func (v View) Throttle() float64  { return v.s.y[v.slot(schema.BlockThrottle)] }
func (v View) SetThrottle(t float64) {
	v.s.y[v.slot(schema.BlockThrottle)] = t
}

// Broken is stored as 0.0/nonzero in the vector; the conversion happens
// only at this accessor boundary.

func (v View) Broken() bool {
	return v.s.y[v.slot(schema.BlockBroken)] != 0
}

func (v View) SetBroken(b bool) {
	v.s.y[v.slot(schema.BlockBroken)] = boolToFloat(b)
}

// LandedOn returns the name of the entity this one is landed on, or ""
// when not landed. The vector stores the float-encoded target index;
// translation to a name happens only here.
func (v View) LandedOn() string {
	return v.s.indexToName(int(v.s.y[v.slot(schema.BlockLandedOn)]))
}

// SetLandedOn resolves the name against the state's fixed name table and
// stores the target's index. An unknown name fails with NoEntityError and
// leaves the vector unchanged. Name resolution is O(1) via the per-state
// map, but hot paths should still prefer SetLandedOnIndex.
func (v View) SetLandedOn(name string) error {
	target, err := v.s.nameToIndex(name)
	if err != nil {
		return err
	}
	v.s.y[v.slot(schema.BlockLandedOn)] = float64(target)
	return nil
}

// SetLandedOnIndex stores an already-resolved landed-on index, or
// schema.NoIndex to clear the relation.
func (v View) SetLandedOnIndex(index int) {
	v.s.y[v.slot(schema.BlockLandedOn)] = float64(index)
}

// Landed reports whether the entity is landed on (or docked to) anything.
func (v View) Landed() bool {
	return int(v.s.y[v.slot(schema.BlockLandedOn)]) != schema.NoIndex
}

// Pos returns the position as a 2-vector.
func (v View) Pos() core.Vector {
	return core.Vector{X: v.X(), Y: v.Y()}
}

// SetPos writes both position components.
func (v View) SetPos(p core.Vector) {
	v.SetX(p.X)
	v.SetY(p.Y)
}

// Vel returns the velocity as a 2-vector.
func (v View) Vel() core.Vector {
	return core.Vector{X: v.VX(), Y: v.VY()}
}

// SetVel writes both velocity components.
func (v View) SetVel(vel core.Vector) {
	v.SetVX(vel.X)
	v.SetVY(vel.Y)
}

// Dockable reports whether other craft can dock with this entity.
func (v View) Dockable() bool {
	return v.Name() == core.AYSE
}

// Record materializes a standalone structured copy of the entity.
func (v View) Record() core.Entity {
	e := v.s.snap.Entities[v.index]
	e.X = v.X()
	e.Y = v.Y()
	e.VX = v.VX()
	e.VY = v.VY()
	e.Heading = v.Heading()
	e.Spin = v.Spin()
	e.Fuel = v.Fuel()
	e.Throttle = v.Throttle()
	e.LandedOn = v.LandedOn()
	e.Broken = v.Broken()
	return e
}
