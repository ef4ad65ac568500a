// Package state holds the complete physical state of every simulated body
// for one simulation instant, in two shapes at once: a structured snapshot
// (per-entity records plus scalar globals) and a flat float64 vector laid
// out field-major for the numerical integrator. The two shapes stay
// synchronized because the vector is authoritative for every mutable field
// and all access goes through this package.
//
// Ownership: the vector has exactly one owner, the State constructed from
// it. Views and per-field slices are non-owning borrows; once the sim loop
// builds a successor State, views into the superseded one read stale data
// and must be dropped.
package state

import (
	"fmt"
	"math"

	"github.com/Pugzilla88/orbitx/internal/schema"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

// State is the physical state of the system for one instant.
//
// Construct with FromSnapshot at program start (O(n*k): the vector is
// derived from the snapshot), or with FromVector each tick (cheap: the
// integrator's output vector is adopted directly and only the unchanging
// fields and globals are taken from the snapshot).
type State struct {
	// snap holds the unchanging per-entity fields and the scalar globals.
	// Its mutable entity fields are stale; the vector is authoritative.
	snap core.Snapshot

	// y is the flat state vector: n*k per-entity slots in field-major
	// block order, then the trailing SRB time and time acceleration.
	y []float64

	n       int
	names   []string
	indexOf map[string]int

	// Entity indices with a nonzero atmosphere, fixed at construction.
	atmospheres []int
}

// FromSnapshot builds a State from a structured snapshot alone, deriving
// the state vector from every mutable field of every entity. O(n*k).
func FromSnapshot(snap *core.Snapshot) (*State, error) {
	s := newShell(snap)
	s.y = make([]float64, schema.VectorLen(s.n))

	for i := range s.snap.Entities {
		e := &s.snap.Entities[i]
		landed, err := s.nameToIndex(e.LandedOn)
		if err != nil {
			return nil, fmt.Errorf("encoding entity %q: %w", e.Name, err)
		}
		s.y[schema.BlockX*s.n+i] = e.X
		s.y[schema.BlockY*s.n+i] = e.Y
		s.y[schema.BlockVX*s.n+i] = e.VX
		s.y[schema.BlockVY*s.n+i] = e.VY
		s.y[schema.BlockHeading*s.n+i] = e.Heading
		s.y[schema.BlockSpin*s.n+i] = e.Spin
		s.y[schema.BlockFuel*s.n+i] = e.Fuel
		s.y[schema.BlockThrottle*s.n+i] = e.Throttle
		s.y[schema.BlockLandedOn*s.n+i] = float64(landed)
		s.y[schema.BlockBroken*s.n+i] = boolToFloat(e.Broken)
	}
	s.y[len(s.y)+schema.SRBTimeOffset] = snap.SRBTime
	s.y[len(s.y)+schema.TimeAccOffset] = snap.TimeAcc

	s.finish()
	return s, nil
}

// FromVector builds a State from an integrator-produced vector plus a
// snapshot supplying only the unchanging fields and globals. The vector is
// adopted, not copied; ownership passes to the returned State.
func FromVector(y []float64, snap *core.Snapshot) (*State, error) {
	n := len(snap.Entities)
	if len(y) != schema.VectorLen(n) {
		return nil, fmt.Errorf("%w: vector has %d slots, want %d for %d entities * %d fields + %d",
			ErrShapeMismatch, len(y), schema.VectorLen(n), n,
			schema.MutableFieldCount, schema.TrailingScalars)
	}

	s := newShell(snap)
	s.y = y
	s.snap.SRBTime = y[len(y)+schema.SRBTimeOffset]
	s.snap.TimeAcc = y[len(y)+schema.TimeAccOffset]

	s.finish()
	return s, nil
}

// Successor builds the next State from an integrator-produced vector,
// reusing this state's snapshot for the unchanging fields and globals.
func (s *State) Successor(y []float64) (*State, error) {
	return FromVector(y, &s.snap)
}

// newShell copies the snapshot and builds the per-state name table.
func newShell(snap *core.Snapshot) *State {
	s := &State{
		snap: snap.Clone(),
		n:    len(snap.Entities),
	}
	s.names = make([]string, s.n)
	s.indexOf = make(map[string]int, s.n)
	for i := range s.snap.Entities {
		s.names[i] = s.snap.Entities[i].Name
		s.indexOf[s.names[i]] = i
	}
	return s
}

// finish applies the post-ingestion invariants: heading normalized into
// [0, 2pi) and the atmosphere index cache computed.
func (s *State) finish() {
	heading := s.Heading()
	for i, h := range heading {
		heading[i] = normalizeHeading(h)
	}

	s.atmospheres = nil
	for i := range s.snap.Entities {
		e := &s.snap.Entities[i]
		if e.AtmosphereThickness != 0 && e.AtmosphereScaling != 0 {
			s.atmospheres = append(s.atmospheres, i)
		}
	}
}

// Len returns the number of entities.
func (s *State) Len() int {
	return s.n
}

// Vector returns the live state vector for handing to the integrator. The
// slice aliases the state's own storage; it is valid only until this State
// is superseded.
func (s *State) Vector() []float64 {
	return s.y
}

// Entity returns a view of the entity at the given index.
func (s *State) Entity(index int) View {
	return View{s: s, index: index}
}

// EntityByName returns a view of the named entity.
func (s *State) EntityByName(name string) (View, error) {
	i, ok := s.indexOf[name]
	if !ok {
		return View{}, NoEntityError{Name: name}
	}
	return View{s: s, index: i}, nil
}

// Names returns the entity names in index order.
func (s *State) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// nameToIndex resolves an entity name to its fixed index. The empty name
// resolves to the NoIndex sentinel.
func (s *State) nameToIndex(name string) (int, error) {
	if name == "" {
		return schema.NoIndex, nil
	}
	i, ok := s.indexOf[name]
	if !ok {
		return 0, NoEntityError{Name: name}
	}
	return i, nil
}

// indexToName translates a landed-on encoding back to an entity name.
func (s *State) indexToName(index int) string {
	if index == schema.NoIndex {
		return ""
	}
	return s.names[index]
}

// Replace copies every field of e into the entity slot at index. The
// atmosphere parameters are the exception: they are fixed at construction
// (the atmosphere cache depends on them) and are left untouched.
func (s *State) Replace(index int, e core.Entity) error {
	landed, err := s.nameToIndex(e.LandedOn)
	if err != nil {
		return err
	}

	dst := &s.snap.Entities[index]
	if dst.Name != e.Name {
		delete(s.indexOf, dst.Name)
		s.indexOf[e.Name] = index
		s.names[index] = e.Name
		dst.Name = e.Name
	}
	dst.Mass = e.Mass
	dst.Radius = e.Radius
	dst.Artificial = e.Artificial

	s.y[schema.BlockX*s.n+index] = e.X
	s.y[schema.BlockY*s.n+index] = e.Y
	s.y[schema.BlockVX*s.n+index] = e.VX
	s.y[schema.BlockVY*s.n+index] = e.VY
	s.y[schema.BlockHeading*s.n+index] = e.Heading
	s.y[schema.BlockSpin*s.n+index] = e.Spin
	s.y[schema.BlockFuel*s.n+index] = e.Fuel
	s.y[schema.BlockThrottle*s.n+index] = e.Throttle
	s.y[schema.BlockLandedOn*s.n+index] = float64(landed)
	s.y[schema.BlockBroken*s.n+index] = boolToFloat(e.Broken)
	return nil
}

// ReplaceByName is Replace addressed by entity name.
func (s *State) ReplaceByName(name string, e core.Entity) error {
	i, ok := s.indexOf[name]
	if !ok {
		return NoEntityError{Name: name}
	}
	return s.Replace(i, e)
}

// Assign copies the entity referred to by v into the slot at index. When v
// is a view into this same state and slot, the data is already in place and
// nothing is copied or re-resolved.
func (s *State) Assign(index int, v View) error {
	if v.s == s && v.index == index {
		return nil
	}
	return s.Replace(index, v.Record())
}

// ToSnapshot externalizes the state back to structured form: unchanging
// fields and globals from the owned snapshot, mutable fields read back from
// the vector. O(n*k); not for hot paths.
func (s *State) ToSnapshot() core.Snapshot {
	out := s.snap.Clone()
	for i := range out.Entities {
		e := &out.Entities[i]
		e.X = s.y[schema.BlockX*s.n+i]
		e.Y = s.y[schema.BlockY*s.n+i]
		e.VX = s.y[schema.BlockVX*s.n+i]
		e.VY = s.y[schema.BlockVY*s.n+i]
		e.Heading = s.y[schema.BlockHeading*s.n+i]
		e.Spin = s.y[schema.BlockSpin*s.n+i]
		e.Fuel = s.y[schema.BlockFuel*s.n+i]
		e.Throttle = s.y[schema.BlockThrottle*s.n+i]
		e.LandedOn = s.indexToName(int(s.y[schema.BlockLandedOn*s.n+i]))
		e.Broken = s.y[schema.BlockBroken*s.n+i] != 0
	}
	return out
}

// block returns the live sub-slice of one mutable field across all
// entities, in entity index order.
func (s *State) block(b int) []float64 {
	return s.y[b*s.n : (b+1)*s.n]
}

// Per-field vector accessors. These are views into the live vector, not
// copies; writes through them are writes to the state.

func (s *State) X() []float64        { return s.block(schema.BlockX) }
func (s *State) Y() []float64        { return s.block(schema.BlockY) }
func (s *State) VX() []float64       { return s.block(schema.BlockVX) }
func (s *State) VY() []float64       { return s.block(schema.BlockVY) }
func (s *State) Heading() []float64  { return s.block(schema.BlockHeading) }
func (s *State) Spin() []float64     { return s.block(schema.BlockSpin) }
func (s *State) Fuel() []float64     { return s.block(schema.BlockFuel) }
func (s *State) Throttle() []float64 { return s.block(schema.BlockThrottle) }
func (s *State) Broken() []float64   { return s.block(schema.BlockBroken) }

// LandedOnMap derives a mapping from entity index to the index it is landed
// on, covering only entities that are currently landed.
func (s *State) LandedOnMap() map[int]int {
	landed := make(map[int]int)
	for i, enc := range s.block(schema.BlockLandedOn) {
		if int(enc) != schema.NoIndex {
			landed[i] = int(enc)
		}
	}
	return landed
}

// Atmospheres returns the indices of entities with a nonzero atmosphere.
// The list is computed at construction and never changes.
func (s *State) Atmospheres() []int {
	return s.atmospheres
}

// Scalar globals. SRBTime and TimeAcc live in the trailing vector slots and
// are mirrored into the snapshot on write, so either shape is current.

func (s *State) Timestamp() float64 {
	return s.snap.Timestamp
}

func (s *State) SetTimestamp(t float64) {
	s.snap.Timestamp = t
}

func (s *State) SRBTime() float64 {
	return s.snap.SRBTime
}

func (s *State) SetSRBTime(t float64) {
	s.snap.SRBTime = t
	s.y[len(s.y)+schema.SRBTimeOffset] = t
}

func (s *State) TimeAcc() float64 {
	return s.snap.TimeAcc
}

func (s *State) SetTimeAcc(acc float64) {
	s.snap.TimeAcc = acc
	s.y[len(s.y)+schema.TimeAccOffset] = acc
}

func (s *State) ParachuteDeployed() bool {
	return s.snap.ParachuteDeployed
}

func (s *State) SetParachuteDeployed(deployed bool) {
	s.snap.ParachuteDeployed = deployed
}

func (s *State) Navmode() core.Navmode {
	return s.snap.Navmode
}

func (s *State) SetNavmode(mode core.Navmode) {
	s.snap.Navmode = mode
}

// Reference returns the name of the current reference-frame entity.
func (s *State) Reference() string {
	return s.snap.Reference
}

func (s *State) SetReference(name string) {
	s.snap.Reference = name
}

// ReferenceEntity resolves the reference name to a view.
func (s *State) ReferenceEntity() (View, error) {
	return s.EntityByName(s.snap.Reference)
}

// Target returns the name of the current landing/docking target.
func (s *State) Target() string {
	return s.snap.Target
}

func (s *State) SetTarget(name string) {
	s.snap.Target = name
}

// TargetEntity resolves the target name to a view.
func (s *State) TargetEntity() (View, error) {
	return s.EntityByName(s.snap.Target)
}

// CraftName resolves the currently-controlled craft. Not backed by a stored
// field: if neither pilotable craft exists there is no active craft; if only
// one exists it is active; if both exist, the one that is not landed on the
// other has control authority (a docked Habitat hands control to AYSE).
func (s *State) CraftName() (string, bool) {
	habIndex, hasHab := s.indexOf[core.Habitat]
	ayseIndex, hasAyse := s.indexOf[core.AYSE]
	switch {
	case !hasHab && !hasAyse:
		return "", false
	case !hasAyse:
		return core.Habitat, true
	case !hasHab:
		return core.AYSE, true
	}
	if int(s.block(schema.BlockLandedOn)[habIndex]) == ayseIndex {
		return core.AYSE, true
	}
	return core.Habitat, true
}

// Craft returns a view of the active craft.
func (s *State) Craft() (View, bool) {
	name, ok := s.CraftName()
	if !ok {
		return View{}, false
	}
	v, err := s.EntityByName(name)
	if err != nil {
		return View{}, false
	}
	return v, true
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// normalizeHeading wraps an angle into [0, 2pi).
func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}
