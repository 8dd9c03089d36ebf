package stats

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrEmptyHistogram is returned when histogram text contains no bars.
	ErrEmptyHistogram = errors.New("histogram contains no bars")
	// ErrNoHistogram is returned when no histogram text was supplied at all.
	ErrNoHistogram = errors.New("histogram text is missing")
)

// HistogramOptions controls how ASCII bar charts are read.
type HistogramOptions struct {
	// YAxisUp treats row 0 as the bottom of the chart and keeps the last mark
	// seen in each column, so a mark on row k has height k+1. The default
	// reads text top-down and keeps the first (highest) mark in each column.
	YAxisUp bool
	// LineSeparator reports whether a rune ends a row. Defaults to \r and \n.
	LineSeparator func(rune) bool
	// Mark reports whether a rune is part of a bar. Defaults to any
	// non-whitespace rune.
	Mark func(rune) bool
	// Interpolation used by the resulting Pdf. Defaults to MinStep.
	Interpolation Interpolator
}

func (o HistogramOptions) withDefaults() HistogramOptions {
	if o.LineSeparator == nil {
		o.LineSeparator = func(c rune) bool { return c == '\r' || c == '\n' }
	}
	if o.Mark == nil {
		o.Mark = func(c rune) bool { return !unicode.IsSpace(c) }
	}
	if o.Interpolation == nil {
		o.Interpolation = MinStep
	}
	return o
}

// FromHistogram parses an ASCII bar chart into a Pdf with one bucket per
// column. Every non-whitespace character marks a bar; the highest mark in a
// column sets its height.
//
//	FromHistogram("   *\n  **\n ***\n****") // [0.1 0.2 0.3 0.4]
func FromHistogram(text string) (*Pdf, error) {
	return ParseHistogram(text, HistogramOptions{})
}

// FromHistogramLines joins lines with newlines and parses them. A nil slice
// reports ErrNoHistogram.
func FromHistogramLines(lines ...string) (*Pdf, error) {
	if lines == nil {
		return nil, ErrNoHistogram
	}
	return FromHistogram(strings.Join(lines, "\n"))
}

// MustHistogram is like FromHistogram but panics on error.
func MustHistogram(text string) *Pdf {
	p, err := FromHistogram(text)
	if err != nil {
		panic(fmt.Sprintf("stats: invalid histogram: %v", err))
	}
	return p
}

// ParseHistogram is FromHistogram with explicit options.
func ParseHistogram(text string, opts HistogramOptions) (*Pdf, error) {
	opts = opts.withDefaults()

	heights := make(map[int]int)
	row, col, width := 0, 0, 0
	for _, c := range text {
		if opts.LineSeparator(c) {
			// Rows without any characters do not count.
			if col > 0 {
				row++
			}
			col = 0
			continue
		}
		if opts.Mark(c) {
			if _, seen := heights[col]; !seen || opts.YAxisUp {
				heights[col] = row
			}
		}
		col++
		width = max(width, col)
	}
	if col > 0 {
		row++
	}

	total := 0
	for x, y := range heights {
		if opts.YAxisUp {
			y++
		} else {
			y = row - y
		}
		heights[x] = y
		total += y
	}
	if width == 0 || total == 0 {
		return nil, ErrEmptyHistogram
	}

	weights := make([]float64, width)
	for x := range weights {
		weights[x] = float64(heights[x]) / float64(total)
	}
	p, err := NewPdfWith(opts.Interpolation, weights...)
	if err != nil {
		return nil, fmt.Errorf("normalizing histogram: %w", err)
	}
	return p, nil
}
