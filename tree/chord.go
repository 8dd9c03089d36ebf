package tree

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Chord is a moving rotated ellipse in the normalized trunk plane. The union
// of all chords at one height gives the trunk's cross section there.
type Chord struct {
	X, Z   float64 // centre
	RX, RZ float64 // radii

	A  float64 // rotation
	VA float64 // angular velocity
	AD float64 // angular velocity damping

	VX, VZ float64 // velocity
	G      float64 // pull toward the origin
}

// unmovingChord returns a fixed chord centred on the origin.
func unmovingChord(r, eccentricity float64) Chord {
	c := Chord{AD: 1}
	c.resize(r, eccentricity)
	return c
}

func (c *Chord) resize(r, eccentricity float64) {
	c.RX = r
	c.RZ = r * math.Sqrt(1-eccentricity*eccentricity)
}

// Climb advances the chord one height level.
func (c *Chord) Climb() {
	c.A += c.VA
	c.VA *= c.AD

	c.X += c.VX
	c.Z += c.VZ

	theta := math.Atan2(-c.Z, -c.X)
	c.VX += c.G * math.Cos(theta)
	c.VZ += c.G * math.Sin(theta)
}

// Distance returns how far (x, z) lies outside the chord's boundary, or 0
// when the point is inside.
func (c *Chord) Distance(x, z float64) float64 {
	dx, dz := x-c.X, z-c.Z
	theta := math.Atan2(dz, dx) - c.A
	rs := c.RX * math.Sin(theta)
	rc := c.RZ * math.Cos(theta)
	rTheta := math.Sqrt(rs*rs + rc*rc)
	return max(0, math.Hypot(dx, dz)-rTheta)
}

func (c Chord) String() string {
	return fmt.Sprintf("chord{pos=(%.3f,%.3f) r=(%.3f,%.3f) a=%.3f}", c.X, c.Z, c.RX, c.RZ, c.A)
}

// initChords builds the central fixed chord and the orbiting chords around it.
func initChords(p Parameters, r *rand.Rand) []Chord {
	n := 1 + int(math.Abs(p.TrunkChords.Sample(r)))
	chords := make([]Chord, 0, n)
	chords = append(chords, unmovingChord(1, p.TrunkChordEccentricity.Sample(r)))

	for range n - 1 {
		var c Chord

		radius := p.TrunkChordRadii.Sample(r)
		t := r.Float64() * 2 * math.Pi
		c.X = radius * math.Cos(t)
		c.Z = radius * math.Sin(t)
		c.A = r.Float64() * 2 * math.Pi

		c.resize(p.TrunkChordScale.Sample(r), p.TrunkChordEccentricity.Sample(r))

		c.VA = p.TrunkChordAngularVelocity.Sample(r)
		c.AD = p.TrunkChordAngularVelocityDamping.Sample(r)
		defl := t + p.TrunkChordInitialVelocityDeflection.Sample(r)
		v := p.TrunkChordInitialVelocityMagnitude.Sample(r)
		c.VX = v * math.Cos(defl)
		c.VZ = v * math.Sin(defl)
		c.G = p.TrunkChordGravity.Sample(r)

		chords = append(chords, c)
	}
	return chords
}
