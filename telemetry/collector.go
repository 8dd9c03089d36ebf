package telemetry

import (
	"time"

	"github.com/pthm-cable/redwood/components"
)

// Collector accumulates growth events within a round and produces RoundStats.
type Collector struct {
	roundStart time.Time

	// Event counters for the current round
	branchSpawns   int
	branchSplits   int
	branchFinishes int
	leafSpawns     int
	leafFinishes   int
	reachedTarget  int
	outOfBounds    int
	maxDepth       int

	// Running totals across rounds
	totalBranches int
	totalLeaves   int
}

// NewCollector creates a new round stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// StartRound marks the beginning of a round.
func (c *Collector) StartRound() {
	c.roundStart = time.Now()
}

// Record counts a single event.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventBranchSpawn:
		c.branchSpawns++
		c.totalBranches++
		c.maxDepth = max(c.maxDepth, e.Depth)
	case EventBranchSplit:
		c.branchSplits++
	case EventBranchFinish:
		c.branchFinishes++
		switch e.Reason {
		case components.ReachedTarget:
			c.reachedTarget++
		case components.OutOfBounds:
			c.outOfBounds++
		}
	case EventLeafSpawn:
		c.leafSpawns++
		c.totalLeaves++
	case EventLeafFinish:
		c.leafFinishes++
	}
}

// Flush produces the RoundStats for the round that just finished and resets
// the per-round counters. activeBranches and activeLeaves are the agent
// counts carried into the next round.
func (c *Collector) Flush(round, activeBranches, activeLeaves int) RoundStats {
	stats := RoundStats{
		Round:          round,
		DurationUS:     time.Since(c.roundStart).Microseconds(),
		ActiveBranches: activeBranches,
		ActiveLeaves:   activeLeaves,
		BranchSpawns:   c.branchSpawns,
		BranchSplits:   c.branchSplits,
		BranchFinishes: c.branchFinishes,
		ReachedTarget:  c.reachedTarget,
		OutOfBounds:    c.outOfBounds,
		LeafSpawns:     c.leafSpawns,
		LeafFinishes:   c.leafFinishes,
		TotalBranches:  c.totalBranches,
		TotalLeaves:    c.totalLeaves,
		MaxDepth:       c.maxDepth,
	}

	// Reset for next round
	c.branchSpawns = 0
	c.branchSplits = 0
	c.branchFinishes = 0
	c.leafSpawns = 0
	c.leafFinishes = 0
	c.reachedTarget = 0
	c.outOfBounds = 0

	return stats
}

// TotalBranches returns the number of branches spawned so far.
func (c *Collector) TotalBranches() int {
	return c.totalBranches
}

// TotalLeaves returns the number of leaf clusters spawned so far.
func (c *Collector) TotalLeaves() int {
	return c.totalLeaves
}
