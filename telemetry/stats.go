package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/redwood/components"
)

// RoundStats holds aggregated statistics for one growth round.
type RoundStats struct {
	Round      int   `csv:"round"`
	DurationUS int64 `csv:"duration_us"`

	// Agents carried into the next round
	ActiveBranches int `csv:"active_branches"`
	ActiveLeaves   int `csv:"active_leaves"`

	// Events during the round
	BranchSpawns   int `csv:"branch_spawns"`
	BranchSplits   int `csv:"branch_splits"`
	BranchFinishes int `csv:"branch_finishes"`
	ReachedTarget  int `csv:"reached_target"`
	OutOfBounds    int `csv:"out_of_bounds"`
	LeafSpawns     int `csv:"leaf_spawns"`
	LeafFinishes   int `csv:"leaf_finishes"`

	// Running totals
	TotalBranches int `csv:"total_branches"`
	TotalLeaves   int `csv:"total_leaves"`
	MaxDepth      int `csv:"max_depth"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s RoundStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("round", s.Round),
		slog.Int64("duration_us", s.DurationUS),
		slog.Int("active_branches", s.ActiveBranches),
		slog.Int("active_leaves", s.ActiveLeaves),
		slog.Int("branch_spawns", s.BranchSpawns),
		slog.Int("branch_splits", s.BranchSplits),
		slog.Int("branch_finishes", s.BranchFinishes),
		slog.Int("leaf_spawns", s.LeafSpawns),
		slog.Int("leaf_finishes", s.LeafFinishes),
		slog.Int("max_depth", s.MaxDepth),
	)
}

// BranchRecord is one row of the branch lineage export.
type BranchRecord struct {
	Index      int                    `csv:"index"`
	Parent     int                    `csv:"parent"` // -1 for branches seeded at the trunk
	Depth      int                    `csv:"depth"`
	SpawnRound int                    `csv:"spawn_round"`
	EndRound   int                    `csv:"end_round"`
	StartX     int                    `csv:"start_x"`
	StartY     int                    `csv:"start_y"`
	StartZ     int                    `csv:"start_z"`
	Length     float64                `csv:"length"`
	Target     float64                `csv:"target"`
	Splits     int                    `csv:"splits"`
	Reason     components.Termination `csv:"reason"`
}

// TreeStats summarizes a finished tree.
type TreeStats struct {
	Seed        uint64  `csv:"seed"`
	Rounds      int     `csv:"rounds"`
	Truncated   bool    `csv:"truncated"`
	TrunkHeight int     `csv:"trunk_height"`
	TrunkRadius float64 `csv:"trunk_radius"`
	SpaceRadius int     `csv:"space_radius"`
	Height      int     `csv:"height"`

	// Branches
	Branches      int     `csv:"branches"`
	RootBranches  int     `csv:"root_branches"`
	MaxDepth      int     `csv:"max_depth"`
	ReachedTarget int     `csv:"reached_target"`
	OutOfBounds   int     `csv:"out_of_bounds"`
	Unfinished    int     `csv:"unfinished"`
	LengthMean    float64 `csv:"length_mean"`
	LengthStd     float64 `csv:"length_std"`
	LengthP10     float64 `csv:"length_p10"`
	LengthP50     float64 `csv:"length_p50"`
	LengthP90     float64 `csv:"length_p90"`

	// Voxels
	Voxels    int `csv:"voxels"`
	Bark      int `csv:"bark"`
	Wood      int `csv:"wood"`
	Heartwood int `csv:"heartwood"`
	Log       int `csv:"log"`
	Leaves    int `csv:"leaves"`
	DeadLeaf  int `csv:"dead_leaf_space"`
	Markers   int `csv:"debug_markers"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeLengthStats calculates mean, population standard deviation and
// percentiles of branch lengths.
func ComputeLengthStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// SummarizeBranches fills the branch section of s from lineage records.
func (s *TreeStats) SummarizeBranches(records []BranchRecord) {
	s.Branches = len(records)
	s.RootBranches, s.MaxDepth = 0, 0
	s.ReachedTarget, s.OutOfBounds, s.Unfinished = 0, 0, 0

	lengths := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Depth == 0 {
			s.RootBranches++
		}
		s.MaxDepth = max(s.MaxDepth, r.Depth)
		switch r.Reason {
		case components.ReachedTarget:
			s.ReachedTarget++
		case components.OutOfBounds:
			s.OutOfBounds++
		default:
			s.Unfinished++
		}
		lengths = append(lengths, r.Length)
	}
	s.LengthMean, s.LengthStd, s.LengthP10, s.LengthP50, s.LengthP90 = ComputeLengthStats(lengths)
}

// LogValue implements slog.LogValuer for structured logging.
func (s TreeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("seed", s.Seed),
		slog.Int("rounds", s.Rounds),
		slog.Bool("truncated", s.Truncated),
		slog.Int("trunk_height", s.TrunkHeight),
		slog.Float64("trunk_radius", s.TrunkRadius),
		slog.Int("height", s.Height),
		slog.Int("branches", s.Branches),
		slog.Int("root_branches", s.RootBranches),
		slog.Int("max_depth", s.MaxDepth),
		slog.Int("reached_target", s.ReachedTarget),
		slog.Int("out_of_bounds", s.OutOfBounds),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_p50", s.LengthP50),
		slog.Int("voxels", s.Voxels),
		slog.Int("leaves", s.Leaves),
	)
}

// LogStats logs the tree stats using slog.
func (s TreeStats) LogStats() {
	slog.Info("tree", "stats", s)
}
