package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/redwood/stats"
)

var (
	// ErrUnknownKind is returned for a variable kind or interpolation name
	// that is not recognised.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrInvalidClamp is returned when a clamp is not a [lo, hi] pair.
	ErrInvalidClamp = errors.New("clamp must be [lo, hi] with lo <= hi")
	// ErrNoDistribution is returned when a PdfSpec has neither histogram
	// lines nor weights.
	ErrNoDistribution = errors.New("distribution needs a histogram or weights")
)

// Variable kinds.
const (
	KindConstant     = "constant"
	KindRange        = "range"
	KindClampedRange = "clamped_range"
	KindLinear       = "linear"
	KindNormal       = "normal"
	KindConfidence   = "confidence"
)

// VariableSpec describes a stats.Variable in YAML. Only the fields used by
// Kind are read. A bare number is shorthand for a constant.
//
//	trunk_setback: 0.01
//	branch_count: {kind: range, min: 6, max: 12}
//	trunk_chord_gravity: {kind: confidence, confidence: 0.8, lo: 0.1, hi: 0.2, clamp: [0.05, 0.6]}
type VariableSpec struct {
	Kind string `yaml:"kind"`

	Value      float64 `yaml:"value,omitempty"`      // constant
	Min        float64 `yaml:"min,omitempty"`        // range, clamped_range
	Max        float64 `yaml:"max,omitempty"`        // range, clamped_range
	Offset     float64 `yaml:"offset,omitempty"`     // linear
	Slope      float64 `yaml:"slope,omitempty"`      // linear
	Mean       float64 `yaml:"mean,omitempty"`       // normal
	StdDev     float64 `yaml:"std_dev,omitempty"`    // normal
	Confidence float64 `yaml:"confidence,omitempty"` // confidence
	Lo         float64 `yaml:"lo,omitempty"`         // confidence
	Hi         float64 `yaml:"hi,omitempty"`         // confidence

	// Degrees converts every value above, and the clamp, from degrees to radians.
	Degrees bool          `yaml:"degrees,omitempty"`
	Clamp   []float64     `yaml:"clamp,omitempty,flow"`
	Plus    *VariableSpec `yaml:"plus,omitempty"` // added before clamping
}

// UnmarshalYAML replaces the whole spec, so a user file that overrides an
// entry does not inherit fields from the embedded default.
func (s *VariableSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var c float64
		if err := n.Decode(&c); err != nil {
			return err
		}
		*s = VariableSpec{Kind: KindConstant, Value: c}
		return nil
	}
	type plain VariableSpec
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = VariableSpec(p)
	return nil
}

// Variable builds the described variable.
func (s VariableSpec) Variable() (stats.Variable, error) {
	k := 1.0
	if s.Degrees {
		k = math.Pi / 180
	}

	var v stats.Variable
	switch s.Kind {
	case KindConstant:
		v = stats.Constant(s.Value * k)
	case KindRange:
		v = stats.Range(s.Min*k, s.Max*k)
	case KindClampedRange:
		v = stats.ClampedRange(s.Min*k, s.Max*k)
	case KindLinear:
		v = stats.Linear(s.Offset*k, s.Slope*k)
	case KindNormal:
		v = stats.Normal(s.StdDev*k, s.Mean*k)
	case KindConfidence:
		v = stats.ConfidenceInterval(s.Confidence, s.Lo*k, s.Hi*k)
	default:
		return nil, fmt.Errorf("variable %q: %w", s.Kind, ErrUnknownKind)
	}

	if s.Plus != nil {
		rhs, err := s.Plus.Variable()
		if err != nil {
			return nil, fmt.Errorf("plus: %w", err)
		}
		v = stats.Sum(v, rhs)
	}

	if s.Clamp != nil {
		if len(s.Clamp) != 2 || s.Clamp[0] > s.Clamp[1] {
			return nil, fmt.Errorf("clamp %v: %w", s.Clamp, ErrInvalidClamp)
		}
		v = stats.Clamp(v, s.Clamp[0]*k, s.Clamp[1]*k)
	}
	return v, nil
}

// Interpolation names.
const (
	InterpolationMinStep = "min_step"
	InterpolationMaxStep = "max_step"
	InterpolationLinear  = "linear"
)

// PdfSpec describes a stats.Pdf in YAML, either as ASCII histogram rows or
// as explicit weights. Rows are quoted strings so leading spaces survive.
//
//	branch_split_distribution:
//	  histogram:
//	    - "  **  "
//	    - " **** "
//	  interpolation: linear
type PdfSpec struct {
	Histogram     []string  `yaml:"histogram,omitempty"`
	Weights       []float64 `yaml:"weights,omitempty,flow"`
	Interpolation string    `yaml:"interpolation,omitempty"`
	YAxisUp       bool      `yaml:"y_axis_up,omitempty"`
}

// UnmarshalYAML replaces the whole spec; see VariableSpec.UnmarshalYAML.
func (s *PdfSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain PdfSpec
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = PdfSpec(p)
	return nil
}

// Pdf builds the described distribution. Histogram rows take precedence
// over weights.
func (s PdfSpec) Pdf() (*stats.Pdf, error) {
	interp, err := interpolator(s.Interpolation)
	if err != nil {
		return nil, err
	}
	switch {
	case len(s.Histogram) > 0:
		return stats.ParseHistogram(strings.Join(s.Histogram, "\n"), stats.HistogramOptions{
			YAxisUp:       s.YAxisUp,
			Interpolation: interp,
		})
	case len(s.Weights) > 0:
		return stats.NewPdfWith(interp, s.Weights...)
	default:
		return nil, ErrNoDistribution
	}
}

func interpolator(name string) (stats.Interpolator, error) {
	switch name {
	case "", InterpolationMinStep:
		return stats.MinStep, nil
	case InterpolationMaxStep:
		return stats.MaxStep, nil
	case InterpolationLinear:
		return stats.Lerp, nil
	default:
		return nil, fmt.Errorf("interpolation %q: %w", name, ErrUnknownKind)
	}
}
