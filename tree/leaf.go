package tree

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/redwood/space"
	"github.com/pthm-cable/redwood/stats"
)

// LeafNode grows a cluster of leaves outward from a centre one cubic shell
// per round until the shell passes its radius.
type LeafNode struct {
	rng      *rand.Rand
	centre   point
	radius   float64
	dropoff  float64
	envelope int

	counted bool // spawn seen by telemetry
	done    bool
}

// newLeafNode samples a cluster around centre from its own random source.
func newLeafNode(r *rand.Rand, centre point, p Parameters) *LeafNode {
	return &LeafNode{
		rng:      r,
		centre:   centre,
		radius:   math.Abs(p.LeafClusterRadius.Sample(r)),
		dropoff:  p.LeafClusterDropOffProbability.Sample(r),
		envelope: 1,
	}
}

// spawnLeaves places the clusters for a branch tip. The first sits on the
// tip; the rest are pushed half their radius out in a random direction.
func spawnLeaves(r *rand.Rand, tip point, p Parameters) []Agent {
	n := max(1, int(p.LeafClusterNodeCount.Sample(r)))
	out := make([]Agent, 0, n)
	for i := range n {
		l := newLeafNode(stats.Derive(r), tip, p)
		if i > 0 {
			off := r3.Scale(l.radius/2, PickRandomDirection(l.rng))
			l.centre = point{
				X: tip.X + int(math.Round(off.X)),
				Y: tip.Y + int(math.Round(off.Y)),
				Z: tip.Z + int(math.Round(off.Z)),
			}
		}
		out = append(out, l)
	}
	return out
}

// Centre returns the cluster centre.
func (l *LeafNode) Centre() (x, y, z int) { return l.centre.X, l.centre.Y, l.centre.Z }

// Radius returns the cluster radius.
func (l *LeafNode) Radius() float64 { return l.radius }

// Iterate fills the surface of the current shell.
func (l *LeafNode) Iterate(e *env) []Agent {
	r := l.envelope
	c := l.centre.cell(e.space)
	for dy := -r; dy <= r; dy++ {
		if dy == -r || dy == r {
			for dx := -r; dx <= r; dx++ {
				for dz := -r; dz <= r; dz++ {
					l.fill(c.Offset(dx, dy, dz), c)
				}
			}
			continue
		}
		for dx := -r; dx <= r; dx++ {
			l.fill(c.Offset(dx, dy, -r), c)
			l.fill(c.Offset(dx, dy, r), c)
		}
		for dz := -r + 1; dz < r; dz++ {
			l.fill(c.Offset(-r, dy, dz), c)
			l.fill(c.Offset(r, dy, dz), c)
		}
	}

	l.envelope++
	if l.envelope <= int(math.Ceil(l.radius)) {
		return []Agent{l}
	}
	l.done = true
	return nil
}

// fill places a leaf in an empty cell inside the radius that touches
// something solid and has no dead space next to it.
func (l *LeafNode) fill(cell, centre space.Cell) {
	if !cell.Valid() || !cell.IsEmpty() || cell.DistanceSq(centre) > l.radius*l.radius {
		return
	}
	if !cell.IsTouching(isFilled) || !cell.IsSurroundedBy(notDeadLeaf) {
		return
	}
	m := space.Leaves
	if l.rng.Float64() < l.dropoff {
		m = space.DeadLeafSpace
	}
	cell.SetIfEmpty(m)
}

func isFilled(m space.Material) bool { return !m.IsEmpty() }

func notDeadLeaf(m space.Material) bool { return m != space.DeadLeafSpace }
