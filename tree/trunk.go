package tree

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/redwood/space"
)

// minTrunkRadius stops trunk growth once the cross section gets this thin.
const minTrunkRadius = 0.5

// boundingScale sizes the circle outside which no trunk cell is considered.
const boundingScale = 1.8

// trunkResult summarizes the trunk synthesis pass.
type trunkResult struct {
	Height          int
	Chords          int
	HeartwoodRadius float64
}

// growTrunk fills the trunk slice by slice from the base upward and records
// the trunk height on s.
func growTrunk(p Parameters, r *rand.Rand, s *space.Space) trunkResult {
	chords := initChords(p, r)
	heartwood := math.Abs(p.HeartwoodDiameter.Sample(r)) / 2
	base := s.BaseRadius()
	radius := base
	setback := p.TrunkSetback.Sample(r)

	bounds := unmovingChord(radius*boundingScale, 0)

	for y := 0; radius > minTrunkRadius && s.Allocate(y); y++ {
		fillTrunk(s, y, chords, &bounds, radius)
		markBark(s, y)
		if base > 0 {
			markHeartwood(s, y, heartwood*radius/base)
		}

		radius -= setback
		setback += p.TrunkSetbackAcceleration.Sample(r)
		for i := range chords {
			chords[i].Climb()
		}
	}
	s.MarkTrunkHeight()

	return trunkResult{
		Height:          s.TrunkHeight(),
		Chords:          len(chords),
		HeartwoodRadius: heartwood,
	}
}

// fillTrunk marks every cell inside the union of chords as wood. Chords live
// in a plane normalized by the current trunk radius.
func fillTrunk(s *space.Space, y int, chords []Chord, bounds *Chord, radius float64) {
	s.EachInSlice(y, func(c space.Cell) {
		x, z := float64(c.X), float64(c.Z)
		if bounds.Distance(x, z) > 0 {
			return
		}
		d := math.Inf(1)
		for i := range chords {
			d = min(d, chords[i].Distance(x/radius, z/radius))
		}
		if d <= 0 {
			c.Set(space.Wood)
		}
	})
}

// markBark turns the outer ring of the trunk cross section into bark.
func markBark(s *space.Space, y int) {
	s.EachInSlice(y, func(c space.Cell) {
		if c.IsFilled() && c.IsTouchingInSlice(space.Air) {
			c.Set(space.Bark)
		}
	})
}

// markHeartwood converts wood within radius of the axis into heartwood.
func markHeartwood(s *space.Space, y int, radius float64) {
	if radius <= 0 {
		return
	}
	r2 := radius * radius
	s.EachInSlice(y, func(c space.Cell) {
		if float64(c.X*c.X+c.Z*c.Z) <= r2 && c.Is(space.Wood) {
			c.Set(space.Heartwood)
		}
	})
}
