package space

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cell is a coordinate handle bound to a Space. It does not own any storage
// and may point outside the space; invalid cells read as Air and ignore
// writes.
type Cell struct {
	s       *Space
	X, Y, Z int
}

// Space returns the space the cell belongs to.
func (c Cell) Space() *Space { return c.s }

// Valid reports whether the cell lies inside its space.
func (c Cell) Valid() bool { return c.s != nil && c.s.ValidCoordinates(c.X, c.Y, c.Z) }

// Get returns the stored material, or Air for invalid cells.
func (c Cell) Get() Material {
	if c.s == nil {
		return Air
	}
	m, _ := c.s.Get(c.X, c.Y, c.Z)
	return m
}

func (c Cell) Set(m Material) (Material, bool) {
	if c.s == nil {
		return Air, false
	}
	return c.s.Set(c.X, c.Y, c.Z, m)
}

func (c Cell) SetIfEmpty(m Material) (Material, bool) {
	if c.s == nil {
		return Air, false
	}
	return c.s.SetIfEmpty(c.X, c.Y, c.Z, m)
}

func (c Cell) IsEmpty() bool { return c.Get().IsEmpty() }

func (c Cell) IsFilled() bool { return !c.IsEmpty() }

// Is reports whether the cell holds exactly m.
func (c Cell) Is(m Material) bool { return c.Get() == m }

// Offset returns the cell displaced by (dx, dy, dz).
func (c Cell) Offset(dx, dy, dz int) Cell {
	return Cell{s: c.s, X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

func (c Cell) North() Cell { return c.Offset(0, 0, -1) }

func (c Cell) East() Cell { return c.Offset(1, 0, 0) }

func (c Cell) South() Cell { return c.Offset(0, 0, 1) }

func (c Cell) West() Cell { return c.Offset(-1, 0, 0) }

func (c Cell) Up() Cell { return c.Offset(0, 1, 0) }

func (c Cell) Down() Cell { return c.Offset(0, -1, 0) }

// SliceNeighbors returns the north, east, south and west neighbours.
func (c Cell) SliceNeighbors() [4]Cell {
	return [4]Cell{c.North(), c.East(), c.South(), c.West()}
}

// Neighbors returns the six face-adjacent neighbours.
func (c Cell) Neighbors() [6]Cell {
	return [6]Cell{c.North(), c.East(), c.South(), c.West(), c.Up(), c.Down()}
}

// IsTouchingInSlice reports whether any in-slice neighbour holds m. Missing
// neighbours count as Air.
func (c Cell) IsTouchingInSlice(m Material) bool {
	for _, n := range c.SliceNeighbors() {
		if n.Get() == m {
			return true
		}
	}
	return false
}

// IsTouching reports whether any face neighbour satisfies pred.
func (c Cell) IsTouching(pred func(Material) bool) bool {
	for _, n := range c.Neighbors() {
		if pred(n.Get()) {
			return true
		}
	}
	return false
}

// IsSurroundedBy reports whether every face neighbour satisfies pred.
func (c Cell) IsSurroundedBy(pred func(Material) bool) bool {
	for _, n := range c.Neighbors() {
		if !pred(n.Get()) {
			return false
		}
	}
	return true
}

// Envelope returns the valid cells of the cube with the given side length
// centred on c, ordered by y, then x, then z. Even sides are rounded up to
// the next odd length.
func (c Cell) Envelope(side int) []Cell {
	if side <= 0 || c.s == nil {
		return nil
	}
	h := side / 2
	cells := make([]Cell, 0, (2*h+1)*(2*h+1)*(2*h+1))
	for y := c.Y - h; y <= c.Y+h; y++ {
		for x := c.X - h; x <= c.X+h; x++ {
			for z := c.Z - h; z <= c.Z+h; z++ {
				if c.s.ValidCoordinates(x, y, z) {
					cells = append(cells, Cell{s: c.s, X: x, Y: y, Z: z})
				}
			}
		}
	}
	return cells
}

// RandomPoint returns a point drawn uniformly from the unit cube whose lower
// corner is the cell.
func (c Cell) RandomPoint(r *rand.Rand) r3.Vec {
	return r3.Vec{
		X: float64(c.X) + r.Float64(),
		Y: float64(c.Y) + r.Float64(),
		Z: float64(c.Z) + r.Float64(),
	}
}

// DistanceSq returns the squared distance between the two cells' lattice
// points.
func (c Cell) DistanceSq(o Cell) float64 {
	dx, dy, dz := float64(c.X-o.X), float64(c.Y-o.Y), float64(c.Z-o.Z)
	return dx*dx + dy*dy + dz*dz
}

// Vec returns the cell's lattice point as a vector.
func (c Cell) Vec() r3.Vec {
	return r3.Vec{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}
