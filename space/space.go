// Package space implements the voxel store a tree is grown into: a stack of
// square horizontal slices centred on the trunk axis, allocated lazily as the
// tree climbs and safe for concurrent writes from many growth agents.
package space

import (
	"math"
	"sync"
)

const (
	// MaxRadius caps the horizontal half-extent of any tree.
	MaxRadius = 60
	// MaxHeight is the number of slices a tree may occupy.
	MaxHeight = 200

	// numShards must be a power of two.
	numShards = 64
)

// Space is a lazily grown voxel grid in tree-local coordinates: x and z run
// over [-Radius, Radius] around the trunk axis and y over [0, MaxHeight).
//
// Cell reads and writes take one of a fixed pool of shard locks selected by
// coordinate hash. Growing the slice list takes a separate lock because it
// changes the shape of the store rather than a single voxel.
type Space struct {
	baseRadius float64
	radius     int
	side       int

	mu          sync.RWMutex // guards slices and trunkHeight
	slices      [][]Material
	trunkHeight int

	shards [numShards]sync.RWMutex
}

// New returns an empty space sized for a trunk of the given base radius.
func New(baseRadius float64) *Space {
	r := int(min(MaxRadius, math.Ceil(baseRadius*3)))
	r = max(r, 0)
	return &Space{
		baseRadius: baseRadius,
		radius:     r,
		side:       2*r + 1,
		slices:     make([][]Material, 0, 64),
	}
}

// BaseRadius returns the trunk radius the space was sized for.
func (s *Space) BaseRadius() float64 { return s.baseRadius }

// Radius returns the horizontal half-extent of the space.
func (s *Space) Radius() int { return s.radius }

// Side returns the number of cells along one edge of a slice.
func (s *Space) Side() int { return s.side }

// Height returns the number of allocated slices.
func (s *Space) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slices)
}

// TrunkHeight returns the height recorded by MarkTrunkHeight.
func (s *Space) TrunkHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trunkHeight
}

// MarkTrunkHeight records the current allocated height as the trunk height.
func (s *Space) MarkTrunkHeight() {
	s.mu.Lock()
	s.trunkHeight = len(s.slices)
	s.mu.Unlock()
}

// ValidCoordinates reports whether (x, y, z) lies inside the space bounds.
// The slice at y need not be allocated yet.
func (s *Space) ValidCoordinates(x, y, z int) bool {
	return x >= -s.radius && x <= s.radius &&
		z >= -s.radius && z <= s.radius &&
		y >= 0 && y < MaxHeight
}

// Allocate makes sure every slice up to and including y exists. It reports
// false when y is outside [0, MaxHeight).
func (s *Space) Allocate(y int) bool {
	if y < 0 || y >= MaxHeight {
		return false
	}
	s.mu.RLock()
	ok := y < len(s.slices)
	s.mu.RUnlock()
	if ok {
		return true
	}

	s.mu.Lock()
	for len(s.slices) <= y {
		s.slices = append(s.slices, make([]Material, s.side*s.side))
	}
	s.mu.Unlock()
	return true
}

// Get returns the material at (x, y, z). Unallocated slices read as Air;
// out-of-bounds coordinates return (Air, false).
func (s *Space) Get(x, y, z int) (Material, bool) {
	if !s.ValidCoordinates(x, y, z) {
		return Air, false
	}
	slice := s.slice(y)
	if slice == nil {
		return Air, true
	}
	mu := s.shard(x, y, z)
	mu.RLock()
	m := slice[s.index(x, z)]
	mu.RUnlock()
	return m, true
}

// Set stores m at (x, y, z), allocating the slice if needed, and returns the
// previous material. Out-of-bounds writes are ignored and return (Air, false).
func (s *Space) Set(x, y, z int, m Material) (Material, bool) {
	slice, ok := s.writable(x, y, z)
	if !ok {
		return Air, false
	}
	mu := s.shard(x, y, z)
	mu.Lock()
	i := s.index(x, z)
	prev := slice[i]
	slice[i] = m
	mu.Unlock()
	return prev, true
}

// SetIfEmpty stores m at (x, y, z) only if the cell holds Air. It returns the
// material that was there before, so a non-Air result means nothing changed.
func (s *Space) SetIfEmpty(x, y, z int, m Material) (Material, bool) {
	slice, ok := s.writable(x, y, z)
	if !ok {
		return Air, false
	}
	mu := s.shard(x, y, z)
	mu.Lock()
	i := s.index(x, z)
	prev := slice[i]
	if prev.IsEmpty() {
		slice[i] = m
	}
	mu.Unlock()
	return prev, true
}

// Cell returns a handle for (x, y, z). The handle may be out of bounds.
func (s *Space) Cell(x, y, z int) Cell {
	return Cell{s: s, X: x, Y: y, Z: z}
}

// EachInSlice calls fn for every cell of slice y in x-major order. It does
// nothing when the slice is not allocated.
func (s *Space) EachInSlice(y int, fn func(Cell)) {
	if s.slice(y) == nil {
		return
	}
	for x := -s.radius; x <= s.radius; x++ {
		for z := -s.radius; z <= s.radius; z++ {
			fn(s.Cell(x, y, z))
		}
	}
}

// EachFilled calls fn for every non-Air voxel ordered by y, then x, then z.
func (s *Space) EachFilled(fn func(c Cell, m Material)) {
	for y := range s.Height() {
		s.EachInSlice(y, func(c Cell) {
			if m := c.Get(); !m.IsEmpty() {
				fn(c, m)
			}
		})
	}
}

// CountByMaterial tallies every non-Air voxel by material.
func (s *Space) CountByMaterial() map[Material]int {
	counts := make(map[Material]int)
	s.EachFilled(func(_ Cell, m Material) {
		counts[m]++
	})
	return counts
}

func (s *Space) slice(y int) []Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if y < 0 || y >= len(s.slices) {
		return nil
	}
	return s.slices[y]
}

func (s *Space) writable(x, y, z int) ([]Material, bool) {
	if !s.ValidCoordinates(x, y, z) {
		return nil, false
	}
	if slice := s.slice(y); slice != nil {
		return slice, true
	}
	if !s.Allocate(y) {
		return nil, false
	}
	return s.slice(y), true
}

func (s *Space) index(x, z int) int {
	return (x+s.radius)*s.side + (z + s.radius)
}

func (s *Space) shard(x, y, z int) *sync.RWMutex {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(z)*83492791
	return &s.shards[h&(numShards-1)]
}
