package stats

import (
	"fmt"
	"math"
)

// UnitInterval is [0, 1].
var UnitInterval = Interval{Min: 0, Max: 1}

// Interval is a closed numeric range used to project values between domains.
type Interval struct {
	Min, Max float64
}

// Span returns the interval [lo, lo+width].
func Span(lo, width float64) Interval {
	return Interval{Min: lo, Max: lo + width}
}

// Width returns Max-Min, or +Inf when either bound is infinite.
func (i Interval) Width() float64 {
	if math.IsInf(i.Min, 0) || math.IsInf(i.Max, 0) {
		return math.Inf(1)
	}
	return i.Max - i.Min
}

// Clamp limits x to the interval.
func (i Interval) Clamp(x float64) float64 {
	return min(max(x, i.Min), i.Max)
}

// Contains reports whether x lies inside the interval (inclusive).
func (i Interval) Contains(x float64) bool {
	return x >= i.Min && x <= i.Max
}

// DistanceFrom returns how far x lies outside the interval, or 0 if inside.
func (i Interval) DistanceFrom(x float64) float64 {
	switch {
	case x < i.Min:
		return i.Min - x
	case x > i.Max:
		return x - i.Max
	default:
		return 0
	}
}

// Lerp maps a fraction in [0, 1] onto the interval. Fractions outside
// [0, 1] extrapolate.
func (i Interval) Lerp(t float64) float64 {
	return i.Min + i.Width()*t
}

// LerpClamped is Lerp with t limited to [0, 1].
func (i Interval) LerpClamped(t float64) float64 {
	switch {
	case t <= 0:
		return i.Min
	case t >= 1:
		return i.Max
	default:
		return i.Lerp(t)
	}
}

// Normalize maps x from the interval onto [0, 1].
func (i Interval) Normalize(x float64) float64 {
	return (x - i.Min) / i.Width()
}

// NormalizeClamped clamps x before normalizing it.
func (i Interval) NormalizeClamped(x float64) float64 {
	return i.Normalize(i.Clamp(x))
}

// Project maps x from this interval onto to.
func (i Interval) Project(x float64, to Interval) float64 {
	return to.Lerp(i.Normalize(x))
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Min, i.Max)
}
