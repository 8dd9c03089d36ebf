package tree

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis-aligned growth directions. North is -z and east is +x.
var (
	North = r3.Vec{X: 0, Y: 0, Z: -1}
	West  = r3.Vec{X: -1, Y: 0, Z: 0}
	South = r3.Vec{X: 0, Y: 0, Z: 1}
	East  = r3.Vec{X: 1, Y: 0, Z: 0}
	Up    = r3.Vec{X: 0, Y: 1, Z: 0}
	Down  = r3.Vec{X: 0, Y: -1, Z: 0}
)

// Directions is the full growth vocabulary in its canonical order.
var Directions = [6]r3.Vec{North, West, South, East, Up, Down}

// horizontal is the cardinal subset used to orient new branches.
var horizontal = [4]r3.Vec{North, East, South, West}

// PickRandomDirection returns one of the six directions uniformly.
func PickRandomDirection(r *rand.Rand) r3.Vec {
	return Directions[r.IntN(len(Directions))]
}

// Nearest returns the candidate closest to v by squared distance. Ties go to
// the earlier candidate. It returns v unchanged when there are no candidates.
func Nearest(v r3.Vec, candidates []r3.Vec) r3.Vec {
	best, bestD := v, math.Inf(1)
	for _, c := range candidates {
		if d := r3.Norm2(r3.Sub(v, c)); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// DirectionsExcludingNearest returns the directions left after removing, for
// each non-nil predicate, the single direction nearest to it. Predicates are
// considered independently, so two predicates sharing a nearest direction
// remove only that one.
func DirectionsExcludingNearest(preds ...*r3.Vec) []r3.Vec {
	var excluded [len(Directions)]bool
	for _, p := range preds {
		if p == nil {
			continue
		}
		best, bestD := -1, math.Inf(1)
		for i, d := range Directions {
			if dist := r3.Norm2(r3.Sub(*p, d)); dist < bestD {
				best, bestD = i, dist
			}
		}
		if best >= 0 {
			excluded[best] = true
		}
	}

	out := make([]r3.Vec, 0, len(Directions))
	for i, d := range Directions {
		if !excluded[i] {
			out = append(out, d)
		}
	}
	return out
}

// IsVertical reports whether d points mostly up or down.
func IsVertical(d r3.Vec) bool {
	return math.Abs(d.Y) >= 0.8
}

// unit normalizes v, leaving the zero vector unchanged.
func unit(v r3.Vec) r3.Vec {
	if n := r3.Norm(v); n > 0 {
		return r3.Scale(1/n, v)
	}
	return v
}
