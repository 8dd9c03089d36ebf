package tree

import (
	"math"
	"testing"

	"github.com/pthm-cable/redwood/space"
	"github.com/pthm-cable/redwood/stats"
)

func TestChordDistance(t *testing.T) {
	circle := unmovingChord(1, 0)
	ellipse := unmovingChord(2, 0.6) // RZ = 1.6

	tests := []struct {
		name string
		c    Chord
		x, z float64
		want float64
	}{
		{"centre", circle, 0, 0, 0},
		{"inside", circle, 0.5, 0, 0},
		{"on edge", circle, 0, 1, 0},
		{"outside x", circle, 2, 0, 1},
		{"outside z", circle, 0, -3, 2},
		{"ellipse along x", ellipse, 3, 0, 1.4},
		{"ellipse along z", ellipse, 0, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.c.Distance(tt.x, tt.z)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.x, tt.z, got, tt.want)
			}
		})
	}
}

func TestChordClimb(t *testing.T) {
	c := Chord{X: 1, RX: 1, RZ: 1, VA: 0.5, AD: 0.5, G: 0.1}

	c.Climb()
	if math.Abs(c.A-0.5) > 1e-12 || math.Abs(c.VA-0.25) > 1e-12 {
		t.Errorf("rotation after one climb: a=%v va=%v", c.A, c.VA)
	}
	if c.X != 1 {
		t.Errorf("X = %v, want 1 before velocity builds", c.X)
	}
	// Gravity pulls back toward the origin
	if math.Abs(c.VX+0.1) > 1e-12 || math.Abs(c.VZ) > 1e-12 {
		t.Errorf("velocity = (%v, %v), want (-0.1, 0)", c.VX, c.VZ)
	}

	c.Climb()
	if math.Abs(c.X-0.9) > 1e-12 {
		t.Errorf("X = %v, want 0.9", c.X)
	}
	if math.Abs(c.A-0.75) > 1e-12 {
		t.Errorf("A = %v, want 0.75", c.A)
	}

	fixed := unmovingChord(1, 0)
	for range 10 {
		fixed.Climb()
	}
	if fixed.X != 0 || fixed.Z != 0 || fixed.A != 0 {
		t.Errorf("unmoving chord moved: %v", fixed)
	}
}

func TestInitChords(t *testing.T) {
	p := DefaultParameters()
	p.TrunkChords = stats.Constant(2)
	p.TrunkChordScale = stats.Constant(0.4)
	p.TrunkChordEccentricity = stats.Constant(0)

	chords := initChords(p, stats.NewSource(1))
	if len(chords) != 3 {
		t.Fatalf("got %d chords, want 3", len(chords))
	}
	if c := chords[0]; c.X != 0 || c.Z != 0 || c.RX != 1 || c.AD != 1 || c.VA != 0 {
		t.Errorf("central chord = %+v", c)
	}
	for _, c := range chords[1:] {
		if c.RX != 0.4 || c.RZ != 0.4 {
			t.Errorf("orbiting chord radii = (%v, %v), want 0.4", c.RX, c.RZ)
		}
		if math.Hypot(c.X, c.Z) > 0.8+1e-9 {
			t.Errorf("orbiting chord origin %v outside radius budget", c)
		}
	}
}

// trunkParams grows a plain cylinder-like trunk: a single round chord whose
// radius drops by half a cell per level.
func trunkParams() Parameters {
	p := DefaultParameters()
	p.TrunkChords = stats.Constant(0)
	p.TrunkChordEccentricity = stats.Constant(0)
	p.HeartwoodDiameter = stats.Constant(4)
	p.TrunkSetback = stats.Constant(0.5)
	p.TrunkSetbackAcceleration = stats.Constant(0)
	return p
}

func TestGrowTrunk(t *testing.T) {
	s := space.New(4)
	res := growTrunk(trunkParams(), stats.NewSource(1), s)

	// Radius 4, 3.5, ... 1.0 gives seven levels before reaching 0.5
	if res.Height != 7 || s.TrunkHeight() != 7 {
		t.Fatalf("trunk height = %d (space %d), want 7", res.Height, s.TrunkHeight())
	}
	if res.Chords != 1 {
		t.Errorf("chords = %d, want 1", res.Chords)
	}
	if res.HeartwoodRadius != 2 {
		t.Errorf("heartwood radius = %v, want 2", res.HeartwoodRadius)
	}

	tests := []struct {
		x, z int
		want space.Material
	}{
		{0, 0, space.Heartwood},
		{2, 0, space.Heartwood},
		{0, -2, space.Heartwood},
		{3, 0, space.Wood},
		{4, 0, space.Bark},
		{0, -4, space.Bark},
		{5, 0, space.Air},
	}
	for _, tt := range tests {
		if got, _ := s.Get(tt.x, 0, tt.z); got != tt.want {
			t.Errorf("base (%d, %d) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}

	// Every base cell on the outside of the cross section is bark
	s.EachInSlice(0, func(c space.Cell) {
		if c.IsFilled() && c.IsTouchingInSlice(space.Air) && !c.Is(space.Bark) {
			t.Errorf("%v touches air but is %v", c, c.Get())
		}
	})

	// The trunk narrows: the top level holds fewer cells than the base
	base, top := 0, 0
	s.EachInSlice(0, func(c space.Cell) {
		if c.IsFilled() {
			base++
		}
	})
	s.EachInSlice(6, func(c space.Cell) {
		if c.IsFilled() {
			top++
		}
	})
	if top == 0 || top >= base {
		t.Errorf("top level has %d cells, base %d", top, base)
	}

	if got, _ := s.Get(0, 7, 0); got != space.Air {
		t.Errorf("above the trunk = %v, want air", got)
	}
}
