// Package tree grows a giant redwood into a voxel space: a trunk built from
// orbiting elliptical chords, branches that random-walk outward from it and
// leaf clusters that expand around the branch tips.
package tree

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/redwood/components"
	"github.com/pthm-cable/redwood/space"
	"github.com/pthm-cable/redwood/stats"
	"github.com/pthm-cable/redwood/telemetry"
)

// MaxRounds bounds the growth simulation.
const MaxRounds = 1000

// branchSearchStep is how far the start-point search moves per step, as a
// fraction of a cell.
const branchSearchStep = 0.8

// PlaceFunc receives each voxel of the finished tree in world coordinates.
type PlaceFunc func(m space.Material, x, y, z int)

// Options tunes a Generator. The zero value is a single-threaded run with
// the default round cap.
type Options struct {
	// Workers is the number of goroutines iterating agents within a round.
	// Only a single worker gives the same tree for the same seed every time.
	Workers int
	// MaxRounds overrides the round cap when positive.
	MaxRounds int
	// DebugMarkers marks turn and split points with DebugTurn and DebugSplit.
	DebugMarkers bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Perf, if set, times each round.
	Perf *telemetry.PerfCollector
	// OnRound, if set, is called with the stats of every finished round.
	OnRound func(telemetry.RoundStats)
}

// Result summarizes a generated tree.
type Result struct {
	TrunkHeight int
	TrunkRadius float64
	SpaceRadius int
	Rounds      int
	Truncated   bool
	Branches    []telemetry.BranchRecord
	Stats       telemetry.TreeStats
}

// Generator grows trees from a fixed parameter set.
type Generator struct {
	params Parameters
	opts   Options
	log    *slog.Logger
}

// New returns a Generator after checking that every parameter is set.
func New(params Parameters, opts Options) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = MaxRounds
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Generator{params: params, opts: opts, log: log}, nil
}

// Generate grows one tree with default options and passes every voxel to
// place, offset by the given world origin.
func Generate(x, y, z int, r *rand.Rand, params Parameters, place PlaceFunc) error {
	g, err := New(params, Options{})
	if err != nil {
		return err
	}
	_, err = g.Generate(context.Background(), x, y, z, r, place)
	return err
}

// Generate grows one tree and passes every voxel to place in y, x, z order,
// offset by the given world origin. The context is checked between rounds.
func (g *Generator) Generate(ctx context.Context, x, y, z int, r *rand.Rand, place PlaceFunc) (*Result, error) {
	s, res, err := g.Grow(ctx, r)
	if err != nil {
		return nil, err
	}
	if place != nil {
		s.EachFilled(func(c space.Cell, m space.Material) {
			place(m, c.X+x, c.Y+y, c.Z+z)
		})
	}
	return res, nil
}

// Grow runs the whole simulation and returns the filled space in tree-local
// coordinates.
func (g *Generator) Grow(ctx context.Context, r *rand.Rand) (*space.Space, *Result, error) {
	p := g.params
	s := space.New(math.Abs(p.TrunkDiameter.Sample(r)) / 2)

	trunk := growTrunk(p, r, s)
	g.log.Info("trunk",
		"height", trunk.Height,
		"radius", s.BaseRadius(),
		"chords", trunk.Chords,
		"heartwood_radius", trunk.HeartwoodRadius,
	)

	agents := seedBranches(r, p, s)
	g.log.Info("branches", "count", len(agents))

	lin := newLineage()
	col := telemetry.NewCollector()
	for _, a := range agents {
		if b, ok := a.(*Branch); ok {
			lin.register(b, 0)
			col.Record(telemetry.NewBranchSpawnEvent(0, b.depth))
		}
	}

	e := &env{space: s, params: p, debug: g.opts.DebugMarkers}
	workers := newPool(e, g.opts.Workers)
	defer workers.stopWorkers()

	perf := g.opts.Perf
	round := 0
	for len(agents) > 0 && round < g.opts.MaxRounds {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", round+1, err)
		}
		round++

		if perf != nil {
			perf.StartRound(len(agents))
			perf.StartPhase(telemetry.PhaseIterate)
		}
		col.StartRound()
		next := workers.run(agents)

		if perf != nil {
			perf.StartPhase(telemetry.PhaseApply)
		}
		branches, leaves := apply(agents, next, round, lin, col)

		if perf != nil {
			perf.StartPhase(telemetry.PhaseTelemetry)
		}
		rs := col.Flush(round, branches, leaves)
		g.log.Debug("round", "stats", rs)
		if perf != nil {
			perf.EndRound()
		}
		if g.opts.OnRound != nil {
			g.opts.OnRound(rs)
		}

		agents = next
	}

	truncated := len(agents) > 0
	if truncated {
		for _, a := range agents {
			if b, ok := a.(*Branch); ok {
				b.reason = components.RoundCap
				lin.finish(b, round)
			}
		}
		g.log.Warn("round cap reached", "rounds", round, "active", len(agents))
	}

	res := &Result{
		TrunkHeight: trunk.Height,
		TrunkRadius: s.BaseRadius(),
		SpaceRadius: s.Radius(),
		Rounds:      round,
		Truncated:   truncated,
		Branches:    lin.records(),
	}
	res.Stats = summarize(s, res)
	return s, res, nil
}

// apply does the bookkeeping for one round after the barrier: finished
// branches close their records and new ones are registered in worklist order.
// It returns the branch and leaf counts of the next worklist.
func apply(current, next []Agent, round int, lin *lineage, col *telemetry.Collector) (branches, leaves int) {
	for _, a := range current {
		switch a := a.(type) {
		case *Branch:
			if a.reason != components.Growing {
				lin.finish(a, round)
				col.Record(telemetry.NewBranchFinishEvent(round, a.depth, a.reason, a.length))
			}
		case *LeafNode:
			if a.done {
				col.Record(telemetry.NewLeafFinishEvent(round))
			}
		}
	}

	for _, a := range next {
		switch a := a.(type) {
		case *Branch:
			branches++
			if !a.registered {
				lin.register(a, round)
				col.Record(telemetry.NewBranchSpawnEvent(round, a.depth))
				if a.hasParent {
					col.Record(telemetry.NewBranchSplitEvent(round, a.depth-1))
				}
			}
		case *LeafNode:
			leaves++
			if !a.counted {
				a.counted = true
				col.Record(telemetry.NewLeafSpawnEvent(round))
			}
		}
	}
	return branches, leaves
}

// seedBranches places the first generation of branches around the trunk,
// evenly spaced in angle. Each branch draws from its own derived source.
func seedBranches(r *rand.Rand, p Parameters, s *space.Space) []Agent {
	count := int(p.BranchCount.Sample(r))
	if count <= 0 {
		return nil
	}
	separation := 2 * math.Pi / float64(count+1)

	// Branches are longest where they are most likely to grow.
	lengthScale := p.BranchHeightDistribution.PdfToFunction(
		stats.Span(0, float64(s.TrunkHeight())),
		stats.Interval{Min: 0.5, Max: 1},
	)

	agents := make([]Agent, 0, count)
	for i := range count {
		angle := r.Float64()*math.Pi/4 + float64(i)*separation
		agents = append(agents, seedBranch(stats.Derive(r), p, s, angle, lengthScale))
	}
	return agents
}

// seedBranch starts a branch where a ray from the trunk axis at the given
// angle leaves the trunk.
func seedBranch(r *rand.Rand, p Parameters, s *space.Space, angle float64, lengthScale func(float64) float64) *Branch {
	y := int(float64(s.TrunkHeight()) * p.BranchHeightDistribution.SampleCdfFrom(r))
	target := lengthScale(float64(y)) * p.BranchLength.Sample(r)

	step := r3.Vec{X: math.Sin(angle) * branchSearchStep, Z: math.Cos(angle) * branchSearchStep}
	limit := s.BaseRadius() * 1.2
	var at r3.Vec
	for r3.Norm(at) < limit && s.Cell(int(math.Floor(at.X)), y, int(math.Floor(at.Z))).IsFilled() {
		at = r3.Add(at, step)
	}

	out := unit(step)
	baseDir := r3.Rotate(out, p.BranchYDeflectionRadians.Sample(r), r3.Cross(out, Up))

	b := newBranch(r, p, target)
	b.pos = point{X: int(math.Floor(at.X)), Y: y, Z: int(math.Floor(at.Z))}
	b.basePos = r3.Vec{Y: float64(y)}
	b.baseDir = baseDir
	b.growth = Nearest(out, horizontal[:])
	return b
}

// summarize builds the tree stats from the finished space.
func summarize(s *space.Space, res *Result) telemetry.TreeStats {
	ts := telemetry.TreeStats{
		Rounds:      res.Rounds,
		Truncated:   res.Truncated,
		TrunkHeight: res.TrunkHeight,
		TrunkRadius: res.TrunkRadius,
		SpaceRadius: res.SpaceRadius,
		Height:      s.Height(),
	}
	ts.SummarizeBranches(res.Branches)

	counts := s.CountByMaterial()
	for m, n := range counts {
		ts.Voxels += n
		switch m {
		case space.Bark:
			ts.Bark = n
		case space.Wood:
			ts.Wood = n
		case space.Heartwood:
			ts.Heartwood = n
		case space.Log:
			ts.Log = n
		case space.Leaves:
			ts.Leaves = n
		case space.DeadLeafSpace:
			ts.DeadLeaf = n
		case space.DebugTurn, space.DebugSplit:
			ts.Markers += n
		}
	}
	return ts
}
