// Package schema is the static field layout table for the physics state
// vector. It partitions entity fields into unchanging fields (stored only in
// the structured snapshot) and mutable fields (stored in the flat float64
// vector), and fixes the block order of mutable fields within the vector.
//
// The table is declared at compile time and validated once at init; it is
// read-only afterwards.
package schema

import "fmt"

// Kind classifies how a field is stored and accessed.
type Kind uint8

const (
	// KindUnchanging fields live only in the structured snapshot.
	KindUnchanging Kind = iota
	// KindNumeric fields occupy one float64 block in the state vector.
	KindNumeric
	// KindBoolean fields are stored as 0.0/1.0 in the state vector.
	KindBoolean
	// KindLandedOn is the landed-on relation, stored as the float-encoded
	// index of the target entity (or NoIndex).
	KindLandedOn
)

// Field describes one entity field in the layout table.
type Field struct {
	Name  string
	Kind  Kind
	Block int // block index within the vector; -1 for unchanging fields
}

// Mutable reports whether the field is stored in the state vector.
func (f Field) Mutable() bool {
	return f.Kind != KindUnchanging
}

// Block indices of the mutable fields, in declaration order. The vector
// layout is field-major: block b holds y[b*n : (b+1)*n], the value of that
// field for every entity in snapshot order.
const (
	BlockX = iota
	BlockY
	BlockVX
	BlockVY
	BlockHeading
	BlockSpin
	BlockFuel
	BlockThrottle
	BlockLandedOn
	BlockBroken

	// MutableFieldCount is k: the number of per-entity blocks in the vector.
	MutableFieldCount
)

// TrailingScalars is the number of single-element values at the end of the
// vector, after the per-entity blocks.
const TrailingScalars = 2

// Offsets of the trailing scalars, relative to the end of the vector.
const (
	SRBTimeOffset = -2
	TimeAccOffset = -1
)

// NoIndex is the sentinel landed-on encoding for "landed on nothing".
const NoIndex = -1

// fields is the authoritative declaration of the entity schema. Mutable
// fields must appear in block order.
var fields = []Field{
	{Name: "name", Kind: KindUnchanging, Block: -1},
	{Name: "mass", Kind: KindUnchanging, Block: -1},
	{Name: "r", Kind: KindUnchanging, Block: -1},
	{Name: "artificial", Kind: KindUnchanging, Block: -1},
	{Name: "atmosphere_thickness", Kind: KindUnchanging, Block: -1},
	{Name: "atmosphere_scaling", Kind: KindUnchanging, Block: -1},
	{Name: "x", Kind: KindNumeric, Block: BlockX},
	{Name: "y", Kind: KindNumeric, Block: BlockY},
	{Name: "vx", Kind: KindNumeric, Block: BlockVX},
	{Name: "vy", Kind: KindNumeric, Block: BlockVY},
	{Name: "heading", Kind: KindNumeric, Block: BlockHeading},
	{Name: "spin", Kind: KindNumeric, Block: BlockSpin},
	{Name: "fuel", Kind: KindNumeric, Block: BlockFuel},
	{Name: "throttle", Kind: KindNumeric, Block: BlockThrottle},
	{Name: "landed_on", Kind: KindLandedOn, Block: BlockLandedOn},
	{Name: "broken", Kind: KindBoolean, Block: BlockBroken},
}

var blockByName map[string]int
var fieldByBlock [MutableFieldCount]Field

// A malformed table is a configuration error, not a runtime condition: the
// process must refuse to start.
func init() {
	blockByName = make(map[string]int, len(fields))
	nextBlock := 0
	landedOnSeen := false
	for _, f := range fields {
		if _, dup := blockByName[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		switch f.Kind {
		case KindUnchanging:
			if f.Block != -1 {
				panic(fmt.Sprintf("schema: unchanging field %q has block %d", f.Name, f.Block))
			}
			blockByName[f.Name] = -1
			continue
		case KindLandedOn:
			if landedOnSeen {
				panic("schema: more than one landed_on field")
			}
			landedOnSeen = true
		case KindNumeric, KindBoolean:
		default:
			panic(fmt.Sprintf("schema: field %q has unclassifiable kind %d", f.Name, f.Kind))
		}
		if f.Block != nextBlock {
			panic(fmt.Sprintf("schema: field %q declared out of block order: got %d, want %d",
				f.Name, f.Block, nextBlock))
		}
		blockByName[f.Name] = f.Block
		fieldByBlock[f.Block] = f
		nextBlock++
	}
	if nextBlock != MutableFieldCount {
		panic(fmt.Sprintf("schema: %d mutable fields declared, block constants expect %d",
			nextBlock, MutableFieldCount))
	}
}

// Fields returns the full field table in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// BlockIndex returns the block index for a mutable field name. ok is false
// for unknown names; unchanging fields return block -1 with ok true.
func BlockIndex(name string) (block int, ok bool) {
	block, ok = blockByName[name]
	return block, ok
}

// FieldAt returns the mutable field occupying the given block.
func FieldAt(block int) Field {
	return fieldByBlock[block]
}

// VectorLen returns the expected vector length for n entities: n blocks of
// every mutable field plus the trailing scalars.
func VectorLen(n int) int {
	return n*MutableFieldCount + TrailingScalars
}
