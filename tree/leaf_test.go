package tree

import (
	"testing"

	"github.com/pthm-cable/redwood/space"
	"github.com/pthm-cable/redwood/stats"
)

func leafParams(radius, dropoff, count float64) Parameters {
	p := DefaultParameters()
	p.LeafClusterRadius = stats.Constant(radius)
	p.LeafClusterDropOffProbability = stats.Constant(dropoff)
	p.LeafClusterNodeCount = stats.Constant(count)
	return p
}

// runLeaf iterates a cluster around a single log cell until it finishes and
// returns the number of rounds it ran.
func runLeaf(t *testing.T, e *env, l *LeafNode) int {
	t.Helper()
	rounds := 0
	for {
		rounds++
		next := l.Iterate(e)
		if len(next) == 0 {
			break
		}
		if len(next) != 1 || next[0] != Agent(l) {
			t.Fatalf("round %d: next = %v", rounds, next)
		}
		if rounds > 100 {
			t.Fatal("leaf cluster never finished")
		}
	}
	if !l.done {
		t.Error("finished cluster not marked done")
	}
	return rounds
}

func TestLeafNodeFill(t *testing.T) {
	p := leafParams(2.5, 0, 1)
	e := &env{space: space.New(2), params: p}
	centre := point{0, 10, 0}
	e.space.Set(centre.X, centre.Y, centre.Z, space.Log)

	l := newLeafNode(stats.NewSource(1), centre, p)
	if rounds := runLeaf(t, e, l); rounds != 3 {
		t.Errorf("ran %d rounds, want 3 for radius 2.5", rounds)
	}

	c := e.space.Cell(centre.X, centre.Y, centre.Z)
	if !c.Is(space.Log) {
		t.Errorf("centre = %v, want log", c.Get())
	}
	for _, n := range c.Neighbors() {
		if !n.Is(space.Leaves) {
			t.Errorf("neighbour %v = %v, want leaves", n, n.Get())
		}
	}

	leaves := 0
	e.space.EachFilled(func(cell space.Cell, m space.Material) {
		if m == space.Log {
			return
		}
		if m != space.Leaves {
			t.Errorf("%v = %v with no drop-off", cell, m)
		}
		if d := cell.DistanceSq(c); d > 2.5*2.5 {
			t.Errorf("%v is %v from the centre, outside the radius", cell, d)
		}
		if !cell.IsTouching(isFilled) {
			t.Errorf("%v is floating", cell)
		}
		leaves++
	})
	if leaves <= 6 {
		t.Errorf("only %d leaves placed", leaves)
	}
}

func TestLeafNodeDropOff(t *testing.T) {
	p := leafParams(3, 1, 1)
	e := &env{space: space.New(2), params: p}
	centre := point{0, 10, 0}
	e.space.Set(centre.X, centre.Y, centre.Z, space.Log)

	runLeaf(t, e, newLeafNode(stats.NewSource(2), centre, p))

	dead := 0
	e.space.EachFilled(func(cell space.Cell, m space.Material) {
		switch m {
		case space.Leaves:
			t.Errorf("%v holds leaves at full drop-off", cell)
		case space.DeadLeafSpace:
			dead++
			for _, n := range cell.Neighbors() {
				if n.Is(space.DeadLeafSpace) {
					t.Errorf("dead space at %v and %v are adjacent", cell, n)
				}
			}
		}
	})
	if dead == 0 {
		t.Error("no dead leaf space placed")
	}
}

func TestLeafNodeSkipsFilled(t *testing.T) {
	p := leafParams(1, 0, 1)
	e := &env{space: space.New(2), params: p}
	centre := point{0, 10, 0}
	e.space.Set(0, 10, 0, space.Log)
	e.space.Set(1, 10, 0, space.Wood)

	runLeaf(t, e, newLeafNode(stats.NewSource(1), centre, p))

	if got, _ := e.space.Get(1, 10, 0); got != space.Wood {
		t.Errorf("existing wood overwritten with %v", got)
	}
	if got, _ := e.space.Get(-1, 10, 0); got != space.Leaves {
		t.Errorf("(-1, 10, 0) = %v, want leaves", got)
	}
	// Corners are farther than the radius
	if got, _ := e.space.Get(1, 11, 1); got != space.Air {
		t.Errorf("corner = %v, want air", got)
	}
}

func TestSpawnLeaves(t *testing.T) {
	tip := point{0, 10, 0}

	tests := []struct {
		name  string
		count float64
		want  int
	}{
		{"at least one", 0, 1},
		{"one", 1, 1},
		{"three", 3, 3},
		{"fraction truncates", 2.9, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agents := spawnLeaves(stats.NewSource(5), tip, leafParams(4, 0.1, tt.count))
			if len(agents) != tt.want {
				t.Fatalf("spawned %d clusters, want %d", len(agents), tt.want)
			}
			for i, a := range agents {
				l := a.(*LeafNode)
				if l.radius != 4 || l.dropoff != 0.1 || l.envelope != 1 {
					t.Errorf("cluster %d = radius %v dropoff %v envelope %d", i, l.radius, l.dropoff, l.envelope)
				}
				if i == 0 && l.centre != tip {
					t.Errorf("first cluster at %v, want the tip", l.centre)
				}
				// Offsets are half the radius along one axis
				if i > 0 && manhattan(l.centre, tip) != 2 {
					t.Errorf("cluster %d at %v, want 2 cells from the tip", i, l.centre)
				}
				for j := range i {
					if agents[j].(*LeafNode).rng == l.rng {
						t.Errorf("clusters %d and %d share a random source", j, i)
					}
				}
			}
		})
	}
}
