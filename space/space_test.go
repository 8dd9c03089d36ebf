package space

import (
	"sync"
	"testing"

	"github.com/pthm-cable/redwood/stats"
)

func TestNewSizing(t *testing.T) {
	tests := []struct {
		name       string
		baseRadius float64
		wantRadius int
	}{
		{"small trunk", 2.5, 8},
		{"exact", 5, 15},
		{"capped", 40, MaxRadius},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.baseRadius)
			if s.Radius() != tt.wantRadius {
				t.Errorf("Radius() = %d, want %d", s.Radius(), tt.wantRadius)
			}
			if s.Side() != 2*tt.wantRadius+1 {
				t.Errorf("Side() = %d, want %d", s.Side(), 2*tt.wantRadius+1)
			}
		})
	}
}

func TestValidCoordinates(t *testing.T) {
	s := New(2) // radius 6
	tests := []struct {
		x, y, z int
		want    bool
	}{
		{0, 0, 0, true},
		{6, 0, -6, true},
		{7, 0, 0, false},
		{0, 0, -7, false},
		{0, -1, 0, false},
		{0, MaxHeight - 1, 0, true},
		{0, MaxHeight, 0, false},
	}
	for _, tt := range tests {
		if got := s.ValidCoordinates(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("ValidCoordinates(%d, %d, %d) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestSetThenGet(t *testing.T) {
	s := New(3)
	r := s.Radius()
	for y := 0; y < 5; y++ {
		for x := -r; x <= r; x++ {
			for z := -r; z <= r; z++ {
				m := Material(1 + (x+y+z+3*r)%int(numMaterials-1))
				if _, ok := s.Set(x, y, z, m); !ok {
					t.Fatalf("Set(%d, %d, %d) rejected a valid coordinate", x, y, z)
				}
				if got, ok := s.Get(x, y, z); !ok || got != m {
					t.Fatalf("Get(%d, %d, %d) = %v, %v; want %v, true", x, y, z, got, ok, m)
				}
			}
		}
	}
}

func TestSetReturnsPrevious(t *testing.T) {
	s := New(3)
	if prev, ok := s.Set(1, 2, 3, Wood); !ok || prev != Air {
		t.Errorf("first Set = %v, %v; want air, true", prev, ok)
	}
	if prev, _ := s.Set(1, 2, 3, Bark); prev != Wood {
		t.Errorf("second Set = %v, want wood", prev)
	}
}

func TestSetIfEmptyKeepsExisting(t *testing.T) {
	s := New(3)
	if prev, ok := s.SetIfEmpty(0, 0, 0, Log); !ok || prev != Air {
		t.Fatalf("SetIfEmpty on air = %v, %v; want air, true", prev, ok)
	}
	prev, ok := s.SetIfEmpty(0, 0, 0, Leaves)
	if !ok || prev != Log {
		t.Errorf("SetIfEmpty on log = %v, %v; want log, true", prev, ok)
	}
	if got, _ := s.Get(0, 0, 0); got != Log {
		t.Errorf("Get after SetIfEmpty = %v, want log", got)
	}
}

func TestOutOfBoundsIsNoOp(t *testing.T) {
	s := New(1)
	if m, ok := s.Get(100, 0, 0); ok || m != Air {
		t.Errorf("Get out of bounds = %v, %v; want air, false", m, ok)
	}
	if m, ok := s.Set(0, -1, 0, Wood); ok || m != Air {
		t.Errorf("Set out of bounds = %v, %v; want air, false", m, ok)
	}
	if m, ok := s.SetIfEmpty(0, MaxHeight, 0, Wood); ok || m != Air {
		t.Errorf("SetIfEmpty out of bounds = %v, %v; want air, false", m, ok)
	}
	if s.Height() != 0 {
		t.Errorf("Height() = %d after rejected writes, want 0", s.Height())
	}
}

func TestLazyAllocation(t *testing.T) {
	s := New(2)
	if m, ok := s.Get(0, 10, 0); !ok || m != Air {
		t.Errorf("Get on unallocated slice = %v, %v; want air, true", m, ok)
	}
	if s.Height() != 0 {
		t.Fatalf("Height() = %d after read, want 0", s.Height())
	}
	if !s.Allocate(3) {
		t.Fatal("Allocate(3) failed")
	}
	if s.Height() != 4 {
		t.Errorf("Height() = %d, want 4", s.Height())
	}
	s.Set(0, 9, 0, Wood)
	if s.Height() != 10 {
		t.Errorf("Height() = %d after write at y=9, want 10", s.Height())
	}
	s.Allocate(2)
	if s.Height() != 10 {
		t.Errorf("Height() shrank to %d", s.Height())
	}
	if s.Allocate(MaxHeight) || s.Allocate(-1) {
		t.Error("Allocate accepted an invalid height")
	}
}

func TestTrunkHeight(t *testing.T) {
	s := New(2)
	s.Allocate(11)
	s.MarkTrunkHeight()
	s.Allocate(20)
	if got := s.TrunkHeight(); got != 12 {
		t.Errorf("TrunkHeight() = %d, want 12", got)
	}
}

func TestEachFilledOrder(t *testing.T) {
	s := New(2)
	s.Set(1, 1, 0, Wood)
	s.Set(-1, 0, 2, Bark)
	s.Set(-1, 0, -2, Leaves)
	s.Set(0, 1, 0, Log)

	var got []Cell
	s.EachFilled(func(c Cell, _ Material) {
		got = append(got, c)
	})
	want := [][3]int{{-1, 0, -2}, {-1, 0, 2}, {0, 1, 0}, {1, 1, 0}}
	if len(got) != len(want) {
		t.Fatalf("EachFilled visited %d cells, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.X != want[i][0] || c.Y != want[i][1] || c.Z != want[i][2] {
			t.Errorf("cell %d = %v, want %v", i, c, want[i])
		}
	}

	counts := s.CountByMaterial()
	if counts[Wood] != 1 || counts[Bark] != 1 || counts[Leaves] != 1 || counts[Log] != 1 {
		t.Errorf("CountByMaterial() = %v", counts)
	}
	if _, ok := counts[Air]; ok {
		t.Error("CountByMaterial counted air")
	}
}

func TestConcurrentSetIfEmpty(t *testing.T) {
	s := New(5)
	r := s.Radius()
	const writers = 8

	var wg sync.WaitGroup
	wins := make([]int, writers)
	for w := range writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for y := 0; y < 20; y++ {
				for x := -r; x <= r; x++ {
					if prev, _ := s.SetIfEmpty(x, y, 0, Log); prev == Air {
						wins[w]++
					}
				}
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, n := range wins {
		total += n
	}
	if want := 20 * s.Side(); total != want {
		t.Errorf("SetIfEmpty succeeded %d times, want exactly %d", total, want)
	}
}

func TestMaterialText(t *testing.T) {
	for _, m := range Materials() {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", m, err)
		}
		var back Material
		if err := back.UnmarshalText(text); err != nil || back != m {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, back, err, m)
		}
	}
	var m Material
	if err := m.UnmarshalText([]byte("granite")); err == nil {
		t.Error("UnmarshalText accepted an unknown material")
	}
	if DeadLeafSpace.String() != "dead_leaf_space" {
		t.Errorf("String() = %q", DeadLeafSpace.String())
	}
}

func TestCellNeighbors(t *testing.T) {
	s := New(1) // radius 3
	c := s.Cell(3, 0, 0)
	c.West().Set(Wood)

	if !c.IsTouchingInSlice(Wood) {
		t.Error("IsTouchingInSlice(wood) = false")
	}
	// East of the edge is outside the space and reads as air.
	if !c.IsTouchingInSlice(Air) {
		t.Error("IsTouchingInSlice(air) = false at the edge")
	}
	if c.East().Valid() {
		t.Error("East() of an edge cell is valid")
	}
	if !c.IsTouching(func(m Material) bool { return m == Wood }) {
		t.Error("IsTouching(wood) = false")
	}
	if c.IsSurroundedBy(func(m Material) bool { return m == Wood }) {
		t.Error("IsSurroundedBy(wood) = true")
	}
	if !c.IsSurroundedBy(func(m Material) bool { return m != Leaves }) {
		t.Error("IsSurroundedBy(not leaves) = false")
	}
}

func TestCellEnvelope(t *testing.T) {
	s := New(1) // radius 3
	if n := len(s.Cell(0, 5, 0).Envelope(3)); n != 27 {
		t.Errorf("interior envelope has %d cells, want 27", n)
	}
	// Bottom corner: only y >= 0 and x, z <= 3 survive.
	if n := len(s.Cell(3, 0, 3).Envelope(3)); n != 8 {
		t.Errorf("corner envelope has %d cells, want 8", n)
	}
	if n := len(s.Cell(0, 5, 0).Envelope(0)); n != 0 {
		t.Errorf("empty envelope has %d cells", n)
	}
}

func TestCellRandomPoint(t *testing.T) {
	s := New(1)
	c := s.Cell(-2, 4, 1)
	r := stats.NewSource(1)
	for i := 0; i < 100; i++ {
		p := c.RandomPoint(r)
		if p.X < -2 || p.X >= -1 || p.Y < 4 || p.Y >= 5 || p.Z < 1 || p.Z >= 2 {
			t.Fatalf("RandomPoint = %v, outside the cell", p)
		}
	}
}
