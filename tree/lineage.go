package tree

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/redwood/components"
	"github.com/pthm-cable/redwood/telemetry"
)

// lineage keeps one ECS entity per branch recording where it came from and
// how it ended. It is only touched between rounds.
type lineage struct {
	world   *ecs.World
	mapper  *ecs.Map2[components.Lineage, components.Growth]
	filter  *ecs.Filter2[components.Lineage, components.Growth]
	linMap  *ecs.Map1[components.Lineage]
	growMap *ecs.Map1[components.Growth]
	count   int
}

func newLineage() *lineage {
	world := ecs.NewWorld()
	return &lineage{
		world:   world,
		mapper:  ecs.NewMap2[components.Lineage, components.Growth](world),
		filter:  ecs.NewFilter2[components.Lineage, components.Growth](world),
		linMap:  ecs.NewMap1[components.Lineage](world),
		growMap: ecs.NewMap1[components.Growth](world),
	}
}

// register creates the record for a new branch and counts the split on its
// parent's record.
func (l *lineage) register(b *Branch, round int) {
	lin := components.Lineage{Depth: b.depth, Index: l.count}
	if b.hasParent && l.world.Alive(b.parent) {
		lin.Parent = b.parent
		lin.HasParent = true
		l.growMap.Get(b.parent).Splits++
	}
	growth := components.Growth{
		SpawnRound: round,
		StartX:     b.pos.X,
		StartY:     b.pos.Y,
		StartZ:     b.pos.Z,
		Target:     b.target,
		Reason:     components.Growing,
	}
	b.entity = l.mapper.NewEntity(&lin, &growth)
	b.registered = true
	l.count++
}

// finish closes the record of a branch that stopped growing.
func (l *lineage) finish(b *Branch, round int) {
	if !b.registered || !l.world.Alive(b.entity) {
		return
	}
	g := l.growMap.Get(b.entity)
	g.EndRound = round
	g.Length = b.length
	g.Reason = b.reason
}

// Len returns the number of registered branches.
func (l *lineage) Len() int { return l.count }

// records exports every branch ordered by registration.
func (l *lineage) records() []telemetry.BranchRecord {
	out := make([]telemetry.BranchRecord, 0, l.count)

	query := l.filter.Query()
	for query.Next() {
		lin, g := query.Get()
		parent := -1
		if lin.HasParent {
			parent = l.linMap.Get(lin.Parent).Index
		}
		out = append(out, telemetry.BranchRecord{
			Index:      lin.Index,
			Parent:     parent,
			Depth:      lin.Depth,
			SpawnRound: g.SpawnRound,
			EndRound:   g.EndRound,
			StartX:     g.StartX,
			StartY:     g.StartY,
			StartZ:     g.StartZ,
			Length:     g.Length,
			Target:     g.Target,
			Splits:     g.Splits,
			Reason:     g.Reason,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
