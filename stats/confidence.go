package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceIntervalVariable is a normal variable described by the symmetric
// window [Min, Max] that holds Confidence of its probability mass.
type ConfidenceIntervalVariable struct {
	NormalVariable
	Confidence float64
	Min, Max   float64
}

// ConfidenceInterval returns a normal variable centred on (lo+hi)/2 whose
// standard deviation places the given fraction of samples inside (lo, hi).
func ConfidenceInterval(confidence, lo, hi float64) Variable {
	mean := (lo + hi) / 2
	sd := 0.0
	if z := zValue(confidence); z > 0 {
		sd = (hi - mean) / z
	}
	return ConfidenceIntervalVariable{
		NormalVariable: NormalVariable{StdDev: sd, Mean: mean},
		Confidence:     confidence,
		Min:            lo,
		Max:            hi,
	}
}

// zValue is the two-sided standard score for the confidence level,
// i.e. sqrt(2) * erfinv(confidence).
func zValue(confidence float64) float64 {
	if confidence <= 0 {
		return 0
	}
	if confidence >= 1 {
		confidence = 1 - 1e-15
	}
	return distuv.UnitNormal.Quantile((1 + confidence) / 2)
}

func (v ConfidenceIntervalVariable) String() string {
	return fmt.Sprintf("confidence(%g, %g..%g)", v.Confidence, v.Min, v.Max)
}
