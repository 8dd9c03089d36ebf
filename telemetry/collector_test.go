package telemetry

import (
	"testing"

	"github.com/pthm-cable/redwood/components"
)

func TestCollector_Flush(t *testing.T) {
	c := NewCollector()

	c.StartRound()
	c.Record(NewBranchSpawnEvent(1, 0))
	c.Record(NewBranchSpawnEvent(1, 0))
	c.Record(NewBranchSplitEvent(1, 0))
	c.Record(NewBranchSpawnEvent(1, 1))
	c.Record(NewLeafSpawnEvent(1))
	c.Record(NewBranchFinishEvent(1, 0, components.OutOfBounds, 3))

	s := c.Flush(1, 2, 1)
	if s.Round != 1 {
		t.Errorf("Round = %d, want 1", s.Round)
	}
	if s.BranchSpawns != 3 || s.BranchSplits != 1 || s.BranchFinishes != 1 {
		t.Errorf("branch counts = %d/%d/%d, want 3/1/1", s.BranchSpawns, s.BranchSplits, s.BranchFinishes)
	}
	if s.OutOfBounds != 1 || s.ReachedTarget != 0 {
		t.Errorf("reasons = %d/%d, want 1/0", s.OutOfBounds, s.ReachedTarget)
	}
	if s.LeafSpawns != 1 {
		t.Errorf("LeafSpawns = %d, want 1", s.LeafSpawns)
	}
	if s.ActiveBranches != 2 || s.ActiveLeaves != 1 {
		t.Errorf("active = %d/%d, want 2/1", s.ActiveBranches, s.ActiveLeaves)
	}
	if s.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", s.MaxDepth)
	}

	// Per-round counters reset, totals carry over
	c.StartRound()
	c.Record(NewBranchFinishEvent(2, 1, components.ReachedTarget, 12))
	c.Record(NewLeafFinishEvent(2))

	s = c.Flush(2, 1, 0)
	if s.BranchSpawns != 0 || s.LeafSpawns != 0 {
		t.Errorf("spawns not reset: %d/%d", s.BranchSpawns, s.LeafSpawns)
	}
	if s.ReachedTarget != 1 || s.LeafFinishes != 1 {
		t.Errorf("round 2 = %d reached, %d leaf finishes", s.ReachedTarget, s.LeafFinishes)
	}
	if s.TotalBranches != 3 || s.TotalLeaves != 1 {
		t.Errorf("totals = %d/%d, want 3/1", s.TotalBranches, s.TotalLeaves)
	}
	if c.TotalBranches() != 3 || c.TotalLeaves() != 1 {
		t.Errorf("collector totals = %d/%d", c.TotalBranches(), c.TotalLeaves())
	}
}
