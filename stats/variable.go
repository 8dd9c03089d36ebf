// Package stats provides the sampling primitives that drive tree generation:
// random variables, empirical distributions, and the histogram parser.
package stats

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Variable maps either a normalized scalar or a random source to a real value.
// Implementations are immutable and safe to share between goroutines.
type Variable interface {
	// At samples the variable from a normalized input in [0, 1].
	At(x float64) float64
	// Sample draws a value using the given random source.
	Sample(r *rand.Rand) float64
}

// ConstantVariable always returns C.
type ConstantVariable struct {
	C float64
}

func (v ConstantVariable) At(float64) float64 { return v.C }

func (v ConstantVariable) Sample(*rand.Rand) float64 { return v.C }

func (v ConstantVariable) String() string { return fmt.Sprintf("constant(%g)", v.C) }

// LinearVariable maps x to Offset + Slope*x.
type LinearVariable struct {
	Offset float64
	Slope  float64
}

func (v LinearVariable) At(x float64) float64 { return v.Offset + v.Slope*x }

// Sample maps a uniform draw through At.
func (v LinearVariable) Sample(r *rand.Rand) float64 { return v.At(r.Float64()) }

func (v LinearVariable) String() string {
	return fmt.Sprintf("range(%g, %g)", v.Offset, v.Offset+v.Slope)
}

// NormalVariable is a gaussian with the given mean and standard deviation.
type NormalVariable struct {
	StdDev float64
	Mean   float64
}

// At maps the uniform fraction x through the normal quantile function, so
// that At(U) and Sample share the same distribution.
func (v NormalVariable) At(x float64) float64 {
	if x <= 0 || x >= 1 {
		// The quantile diverges at the endpoints; pin to the mean instead.
		return v.Mean
	}
	return v.dist(nil).Quantile(x)
}

func (v NormalVariable) Sample(r *rand.Rand) float64 {
	return v.dist(r).Rand()
}

func (v NormalVariable) dist(r *rand.Rand) distuv.Normal {
	n := distuv.Normal{Mu: v.Mean, Sigma: v.StdDev}
	if r != nil {
		n.Src = r
	}
	return n
}

func (v NormalVariable) String() string {
	return fmt.Sprintf("normal(mean=%g, sd=%g)", v.Mean, v.StdDev)
}

// ClampedVariable clips the output of Basis to [Min, Max].
type ClampedVariable struct {
	Basis    Variable
	Min, Max float64
}

func (v ClampedVariable) At(x float64) float64 { return v.clip(v.Basis.At(x)) }

func (v ClampedVariable) Sample(r *rand.Rand) float64 { return v.clip(v.Basis.Sample(r)) }

func (v ClampedVariable) clip(x float64) float64 {
	return min(max(v.Min, x), v.Max)
}

func (v ClampedVariable) String() string {
	return fmt.Sprintf("clamp(%v, %g, %g)", v.Basis, v.Min, v.Max)
}

// CompositeVariable is the sum of two variables.
type CompositeVariable struct {
	LHS, RHS Variable
}

func (v CompositeVariable) At(x float64) float64 { return v.LHS.At(x) + v.RHS.At(x) }

func (v CompositeVariable) Sample(r *rand.Rand) float64 {
	return v.LHS.Sample(r) + v.RHS.Sample(r)
}

func (v CompositeVariable) String() string { return fmt.Sprintf("(%v + %v)", v.LHS, v.RHS) }

// Constant returns a variable that always yields c.
func Constant(c float64) Variable { return ConstantVariable{C: c} }

// Linear returns a variable yielding offset + slope*x.
func Linear(offset, slope float64) Variable { return LinearVariable{Offset: offset, Slope: slope} }

// Range returns a variable uniformly spanning [lo, hi].
func Range(lo, hi float64) Variable { return LinearVariable{Offset: lo, Slope: hi - lo} }

// ClampedRange is Range clipped to its own bounds.
func ClampedRange(lo, hi float64) Variable { return Clamp(Range(lo, hi), lo, hi) }

// Normal returns a gaussian variable. Note the argument order: standard
// deviation first, then mean.
func Normal(stdDev, mean float64) Variable { return NormalVariable{StdDev: stdDev, Mean: mean} }

// Clamp wraps v so that all samples fall in [lo, hi].
func Clamp(v Variable, lo, hi float64) Variable { return ClampedVariable{Basis: v, Min: lo, Max: hi} }

// Sum returns a variable whose samples are the sum of a and b.
func Sum(a, b Variable) Variable { return CompositeVariable{LHS: a, RHS: b} }
