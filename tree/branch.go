package tree

import (
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/redwood/components"
	"github.com/pthm-cable/redwood/space"
	"github.com/pthm-cable/redwood/stats"
)

// maxVerticalSegment caps segment length after turning up or down.
const maxVerticalSegment = 3

// maxAdvanceAttempts bounds the step-halving retries in advance.
const maxAdvanceAttempts = 10

// point is an integer cell position in tree-local coordinates.
type point struct{ X, Y, Z int }

func (p point) vec() r3.Vec { return r3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)} }

func (p point) cell(s *space.Space) space.Cell { return s.Cell(p.X, p.Y, p.Z) }

func floorPoint(v r3.Vec) point {
	return point{int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))}
}

func manhattan(a, b point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.Z-b.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Branch is a random-walk growth agent. It advances one cell per round,
// occasionally splits off a child and turns at the end of each segment. All
// of its draws come from its own random source so the walk does not depend
// on how agents are scheduled.
type Branch struct {
	rng *rand.Rand

	pos     point
	growth  r3.Vec
	basePos r3.Vec
	baseDir r3.Vec

	length    float64
	segment   float64
	targetSeg float64
	target    float64

	radial       float64
	upward       float64
	straightness float64
	separation   float64
	avoidRadius  float64
	splitScalar  float64
	minFirstSeg  float64
	leafSplitP   float64
	segLen       stats.Variable
	splitCurve   func(float64) float64

	// Lineage bookkeeping, touched only outside the parallel phase except
	// for reason, which the branch sets on itself when it stops. The parent
	// is held as its lineage record, never as a live branch.
	depth      int
	parent     ecs.Entity
	hasParent  bool
	entity     ecs.Entity
	registered bool
	reason     components.Termination
}

// newBranch samples the per-branch weights from p. The caller positions the
// branch and points it.
func newBranch(r *rand.Rand, p Parameters, target float64) *Branch {
	b := &Branch{
		rng:    r,
		target: target,
		segLen: p.BranchSegmentLength,
	}
	b.targetSeg = p.BranchSegmentLength.Sample(r)
	b.radial = p.BranchRadialBias.Sample(r)
	b.straightness = p.BranchStraightnessBias.Sample(r)
	b.separation = p.BranchSeparationBias.Sample(r)
	b.upward = p.BranchUpwardBias.Sample(r)
	b.splitScalar = p.BranchSplitProbabilityScalar.Sample(r)
	b.minFirstSeg = p.BranchSplitMinimumFirstSegmentLength.Sample(r)
	b.avoidRadius = math.Abs(p.BranchAvoidRadius.Sample(r))
	b.leafSplitP = p.LeafClusterSplitProbability.Sample(r)
	b.splitCurve = p.BranchSplitDistribution.PdfToFunction(stats.Span(0, target), stats.UnitInterval)
	return b
}

// Position returns the branch tip.
func (b *Branch) Position() (x, y, z int) { return b.pos.X, b.pos.Y, b.pos.Z }

// Direction returns the current growth direction.
func (b *Branch) Direction() r3.Vec { return b.growth }

// Length returns the accumulated length.
func (b *Branch) Length() float64 { return b.length }

// Target returns the length at which the branch stops.
func (b *Branch) Target() float64 { return b.target }

// Depth is 0 for branches seeded at the trunk and increases by one per split.
func (b *Branch) Depth() int { return b.depth }

// Reason reports why the branch stopped, or Growing.
func (b *Branch) Reason() components.Termination { return b.reason }

// Iterate runs one growth step.
func (b *Branch) Iterate(e *env) []Agent {
	s := e.space
	s.SetIfEmpty(b.pos.X, b.pos.Y, b.pos.Z, space.Log)

	if !b.advance(s) {
		b.reason = components.OutOfBounds
		return nil
	}

	if b.length >= b.target {
		s.SetIfEmpty(b.pos.X, b.pos.Y, b.pos.Z, space.Log)
		b.reason = components.ReachedTarget
		return spawnLeaves(b.rng, b.pos, e.params)
	}

	next := []Agent{b}
	if b.rng.Float64() < b.splitProbability() {
		e.mark(b.pos.cell(s), space.DebugSplit)
		next = append(next, b.split())
		if b.rng.Float64() < b.leafSplitP {
			next = append(next, spawnLeaves(b.rng, b.pos, e.params)...)
		}
	} else if b.segment >= b.targetSeg {
		e.mark(b.pos.cell(s), space.DebugTurn)
		b.turn(s)
	}
	return next
}

// advance moves the tip one step along the growth direction. It reports
// false when the branch cannot move or leaves the space.
func (b *Branch) advance(s *space.Space) bool {
	p := b.pos.vec()
	step := b.growth
	next := b.pos
	for i := 0; next == b.pos && i < maxAdvanceAttempts; i++ {
		p = r3.Add(p, step)
		next = floorPoint(p)
		step = r3.Scale(0.5, step)
	}
	if next == b.pos {
		return false
	}
	if !s.ValidCoordinates(next.X, next.Y, next.Z) || !s.Allocate(next.Y) {
		return false
	}

	l := manhattan(b.pos, next)
	b.length += float64(l)
	b.segment += float64(l)
	if l > 1 {
		fillElbow(s, b.pos, next)
	}
	b.pos = next
	return true
}

// fillElbow connects two cells that are not face neighbours with a path of
// Log, walking y first, then x, then z. The endpoints are left alone.
func fillElbow(s *space.Space, from, to point) {
	p := from
	walk := func(axis *int, target int) {
		for *axis != target {
			if *axis < target {
				*axis++
			} else {
				*axis--
			}
			if p != to {
				s.SetIfEmpty(p.X, p.Y, p.Z, space.Log)
			}
		}
	}
	walk(&p.Y, to.Y)
	walk(&p.X, to.X)
	walk(&p.Z, to.Z)
}

func (b *Branch) splitProbability() float64 {
	return b.splitScalar * b.splitCurve(b.length)
}

// split returns a child growing off in a direction that points neither back
// along the branch nor toward where the branch is headed.
func (b *Branch) split() *Branch {
	pos := b.pos.vec()
	toBaseDir := r3.Sub(b.baseDir, unit(pos))
	reverse := r3.Scale(-1, b.growth)
	toBase := r3.Sub(b.basePos, pos)

	dir, ok := stats.OneOf(b.rng, DirectionsExcludingNearest(&toBaseDir, &b.growth, &reverse, &toBase))
	if !ok {
		dir = PickRandomDirection(b.rng)
	}

	c := *b
	c.rng = stats.Derive(b.rng)
	c.growth = dir
	c.segment = 0
	c.targetSeg = max(c.segLen.Sample(c.rng), c.minFirstSeg)
	c.baseDir = unit(r3.Sub(r3.Add(pos, r3.Scale(c.targetSeg, dir)), b.basePos))
	c.depth = b.depth + 1
	c.parent, c.hasParent = b.entity, b.registered
	c.entity = ecs.Entity{}
	c.registered = false
	c.reason = components.Growing
	return &c
}

// turn picks the direction nearest the turn bias and starts a new segment.
func (b *Branch) turn(s *space.Space) {
	if bias := b.turnBias(s); r3.Norm2(bias) > 0 {
		b.growth = Nearest(unit(bias), Directions[:])
	}
	b.segment = 0
	b.targetSeg = b.segLen.Sample(b.rng)
	if IsVertical(b.growth) && b.targetSeg > maxVerticalSegment {
		b.targetSeg = maxVerticalSegment
	}
}

// turnBias sums the outward, continue and avoid components.
func (b *Branch) turnBias(s *space.Space) r3.Vec {
	pos := b.pos.vec()

	outward := r3.Sub(r3.Add(b.basePos, r3.Scale(b.length, b.baseDir)), pos)
	outward.X *= b.radial
	outward.Y *= b.upward
	outward.Z *= b.radial

	cont := r3.Scale(b.straightness, b.growth)

	return r3.Add(r3.Add(outward, cont), b.avoidance(s))
}

// avoidance pushes away from filled cells near the tip that lie farther from
// the base than the tip does. Each neighbour contributes d/|d|³.
func (b *Branch) avoidance(s *space.Space) r3.Vec {
	if b.separation == 0 || b.avoidRadius == 0 {
		return r3.Vec{}
	}

	cur := b.pos.cell(s)
	centre := r3.Add(cur.Vec(), r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	reach := b.avoidRadius * b.avoidRadius
	own := r3.Norm2(r3.Sub(cur.Vec(), b.basePos))

	var sum r3.Vec
	for _, n := range cur.Envelope(2*int(math.Ceil(b.avoidRadius)) + 1) {
		if n == cur || n.IsEmpty() || n.DistanceSq(cur) > reach {
			continue
		}
		if r3.Norm2(r3.Sub(n.Vec(), b.basePos)) <= own {
			continue
		}
		d := r3.Sub(centre, n.RandomPoint(b.rng))
		if l := r3.Norm(d); l > 0 {
			sum = r3.Add(sum, r3.Scale(1/(l*l*l), d))
		}
	}
	return r3.Scale(b.separation, sum)
}
