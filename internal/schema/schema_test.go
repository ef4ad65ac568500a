package schema

import "testing"

func TestMutableFieldCount(t *testing.T) {
	mutable := 0
	for _, f := range Fields() {
		if f.Mutable() {
			mutable++
		}
	}
	if mutable != MutableFieldCount {
		t.Errorf("expected %d mutable fields, got %d", MutableFieldCount, mutable)
	}
}

func TestBlockIndex_MutableFields(t *testing.T) {
	cases := map[string]int{
		"x":         BlockX,
		"y":         BlockY,
		"vx":        BlockVX,
		"vy":        BlockVY,
		"heading":   BlockHeading,
		"spin":      BlockSpin,
		"fuel":      BlockFuel,
		"throttle":  BlockThrottle,
		"landed_on": BlockLandedOn,
		"broken":    BlockBroken,
	}
	for name, want := range cases {
		got, ok := BlockIndex(name)
		if !ok {
			t.Errorf("expected %q in layout table", name)
			continue
		}
		if got != want {
			t.Errorf("expected %q at block %d, got %d", name, want, got)
		}
	}
}

func TestBlockIndex_UnchangingFields(t *testing.T) {
	for _, name := range []string{"name", "mass", "r", "artificial", "atmosphere_thickness", "atmosphere_scaling"} {
		block, ok := BlockIndex(name)
		if !ok {
			t.Errorf("expected %q in layout table", name)
			continue
		}
		if block != -1 {
			t.Errorf("expected unchanging field %q to have block -1, got %d", name, block)
		}
	}
}

func TestBlockIndex_Unknown(t *testing.T) {
	if _, ok := BlockIndex("antimatter"); ok {
		t.Error("expected unknown field to be absent from layout table")
	}
}

func TestFieldAt_InvertsBlockIndex(t *testing.T) {
	for b := 0; b < MutableFieldCount; b++ {
		f := FieldAt(b)
		if f.Block != b {
			t.Errorf("FieldAt(%d) returned field with block %d", b, f.Block)
		}
		got, ok := BlockIndex(f.Name)
		if !ok || got != b {
			t.Errorf("BlockIndex(%q) = %d, want %d", f.Name, got, b)
		}
	}
}

func TestVectorLen(t *testing.T) {
	if got := VectorLen(4); got != 4*MutableFieldCount+TrailingScalars {
		t.Errorf("expected VectorLen(4)=%d, got %d", 4*MutableFieldCount+TrailingScalars, got)
	}
	if got := VectorLen(0); got != TrailingScalars {
		t.Errorf("expected VectorLen(0)=%d, got %d", TrailingScalars, got)
	}
}

func TestLandedOnField_Classification(t *testing.T) {
	f := FieldAt(BlockLandedOn)
	if f.Kind != KindLandedOn {
		t.Errorf("expected landed_on kind %d, got %d", KindLandedOn, f.Kind)
	}
	if f.Name != "landed_on" {
		t.Errorf("expected field name landed_on, got %q", f.Name)
	}
}
