package stats

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Epsilon is the tolerance allowed when checking that a distribution sums to 1.
const Epsilon = 1e-9

var (
	// ErrNotNormalized is returned when distribution weights do not sum to 1.
	ErrNotNormalized = errors.New("distribution does not sum to 1.0")
	// ErrNegativeWeight is returned when a distribution contains a negative weight.
	ErrNegativeWeight = errors.New("distribution contains a negative weight")
	// ErrInvalidWeight is returned for NaN or infinite weights.
	ErrInvalidWeight = errors.New("distribution contains an undefined weight")
)

// Interpolator blends between neighbouring samples; t is in [0, 1].
type Interpolator func(lo, hi, t float64) float64

// Interpolation policies.
var (
	MinStep Interpolator = func(lo, _, _ float64) float64 { return lo }
	MaxStep Interpolator = func(_, hi, _ float64) float64 { return hi }
	Lerp    Interpolator = func(lo, hi, t float64) float64 { return lo + (hi-lo)*t }
)

// Pdf is an immutable empirical probability distribution over [0, 1]: one
// weight per equally sized bucket, plus the derived cumulative sequence.
type Pdf struct {
	interp Interpolator
	pdf    []float64
	cdf    []float64
	peak   float64
}

// NewPdf builds a step-interpolated Pdf from the given weights.
func NewPdf(weights ...float64) (*Pdf, error) {
	return NewPdfWith(MinStep, weights...)
}

// NewPdfWith builds a Pdf using the given interpolation policy.
func NewPdfWith(interp Interpolator, weights ...float64) (*Pdf, error) {
	if interp == nil {
		interp = MinStep
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %d: %w", i, ErrInvalidWeight)
		}
		if w < 0 {
			return nil, fmt.Errorf("weight %d (%g): %w", i, w, ErrNegativeWeight)
		}
	}
	total := floats.Sum(weights)
	if math.Abs(1-total) > Epsilon {
		return nil, fmt.Errorf("total %g: %w", total, ErrNotNormalized)
	}

	p := &Pdf{
		interp: interp,
		pdf:    append([]float64(nil), weights...),
		cdf:    floats.CumSum(make([]float64, len(weights)), weights),
		peak:   floats.Max(weights),
	}
	return p, nil
}

// MustPdf is like NewPdf but panics on error. Intended for package-level
// defaults.
func MustPdf(weights ...float64) *Pdf {
	p, err := NewPdf(weights...)
	if err != nil {
		panic(fmt.Sprintf("stats: invalid pdf: %v", err))
	}
	return p
}

// Len returns the number of buckets.
func (p *Pdf) Len() int { return len(p.pdf) }

// Weights returns a copy of the bucket weights.
func (p *Pdf) Weights() []float64 { return append([]float64(nil), p.pdf...) }

// SamplePdf returns the density at the fraction x. Values outside [0, 1]
// have zero density.
func (p *Pdf) SamplePdf(x float64) float64 {
	if x < 0 || x > 1 {
		return 0
	}

	n := len(p.pdf)
	pos := x * float64(n)
	i := int(math.Floor(pos)) - 1
	if i < -1 || i > n {
		return 0
	}

	lo, hi := 0.0, 0.0
	if i >= 0 && i < n {
		lo = p.pdf[i]
	}
	if i+1 < n {
		hi = p.pdf[i+1]
	}
	return p.interp(lo, hi, pos-math.Floor(pos))
}

// SampleCdf maps a cumulative fraction x onto the position in [0, 1] at
// which the distribution reaches it.
func (p *Pdf) SampleCdf(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	n := len(p.cdf)
	// First bucket whose cumulative total exceeds x.
	i := sort.Search(n, func(k int) bool { return p.cdf[k] > x })

	hiSample := 1.0
	if i < n {
		hiSample = p.cdf[i]
	}
	loSample := 0.0
	if i > 0 {
		loSample = p.cdf[i-1]
	}

	t := 0.0
	if width := hiSample - loSample; width >= Epsilon {
		t = (x - loSample) / width
	}
	return p.interp(float64(i), float64(i)+1, t) / float64(n)
}

// SampleCdfFrom draws a uniform fraction from r and maps it through SampleCdf.
func (p *Pdf) SampleCdfFrom(r *rand.Rand) float64 {
	return p.SampleCdf(r.Float64())
}

// PdfToFunction returns a function that normalizes its input against domain,
// samples the density there (relative to the densest bucket), and projects
// the result onto rng.
func (p *Pdf) PdfToFunction(domain, rng Interval) func(float64) float64 {
	peak := p.peak
	return func(x float64) float64 {
		d := p.SamplePdf(domain.Normalize(x))
		if peak > 0 {
			d /= peak
		}
		return rng.Lerp(d)
	}
}

func (p *Pdf) String() string {
	return fmt.Sprintf("pdf%v", p.pdf)
}
