package tree

import (
	"testing"

	"github.com/pthm-cable/redwood/components"
)

func TestLineage(t *testing.T) {
	p := quietParams()
	lin := newLineage()

	root := testBranch(p, point{2, 30, -1}, East, 12)
	lin.register(root, 0)
	if !root.registered || lin.Len() != 1 {
		t.Fatalf("root registered=%v len=%d", root.registered, lin.Len())
	}

	child := root.split()
	lin.register(child, 4)
	grandchild := child.split()
	lin.register(grandchild, 6)
	unrelated := testBranch(p, point{0, 20, 3}, North, 8)
	lin.register(unrelated, 6)

	root.length, root.reason = 12, components.ReachedTarget
	lin.finish(root, 9)
	child.length, child.reason = 7, components.OutOfBounds
	lin.finish(child, 7)

	recs := lin.records()
	if len(recs) != 4 {
		t.Fatalf("got %d records, want 4", len(recs))
	}

	r := recs[0]
	if r.Parent != -1 || r.Depth != 0 || r.Splits != 1 {
		t.Errorf("root record = %+v", r)
	}
	if r.StartX != 2 || r.StartY != 30 || r.StartZ != -1 || r.Target != 12 {
		t.Errorf("root start = (%d, %d, %d) target %v", r.StartX, r.StartY, r.StartZ, r.Target)
	}
	if r.EndRound != 9 || r.Length != 12 || r.Reason != components.ReachedTarget {
		t.Errorf("root end = round %d length %v reason %v", r.EndRound, r.Length, r.Reason)
	}

	if r := recs[1]; r.Parent != 0 || r.Depth != 1 || r.SpawnRound != 4 || r.Splits != 1 || r.Reason != components.OutOfBounds {
		t.Errorf("child record = %+v", r)
	}
	if r := recs[2]; r.Parent != 1 || r.Depth != 2 || r.Splits != 0 || r.Reason != components.Growing {
		t.Errorf("grandchild record = %+v", r)
	}
	if r := recs[3]; r.Parent != -1 || r.Index != 3 {
		t.Errorf("unrelated record = %+v", r)
	}
}

func TestLineageFinishUnregistered(t *testing.T) {
	lin := newLineage()
	b := testBranch(quietParams(), point{0, 10, 0}, East, 5)
	b.reason = components.OutOfBounds
	lin.finish(b, 3)
	if lin.Len() != 0 || len(lin.records()) != 0 {
		t.Errorf("finishing an unregistered branch created a record")
	}
}
