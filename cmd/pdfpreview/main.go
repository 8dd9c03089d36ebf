// Distribution preview tool - prints a configured Pdf as ASCII curves.
//
// Usage: go run ./cmd/pdfpreview -dist branch_split_distribution
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm-cable/redwood/config"
	"github.com/pthm-cable/redwood/stats"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	dist := flag.String("dist", "branch_height_distribution", "Distribution to preview: branch_height_distribution or branch_split_distribution")
	width := flag.Int("width", 70, "Chart width in columns")
	height := flag.Int("height", 12, "Chart height in rows")
	samples := flag.Int("samples", 100000, "Inverse-CDF draws for the sampled histogram (0 = skip)")
	seed := flag.Uint64("seed", 1, "RNG seed for the sampled histogram")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var spec config.PdfSpec
	switch *dist {
	case "branch_height_distribution":
		spec = cfg.Generation.BranchHeightDistribution
	case "branch_split_distribution":
		spec = cfg.Generation.BranchSplitDistribution
	default:
		slog.Error("unknown distribution", "dist", *dist)
		os.Exit(1)
	}

	pdf, err := spec.Pdf()
	if err != nil {
		slog.Error("failed to build distribution", "dist", *dist, "error", err)
		os.Exit(1)
	}

	w, h := max(2, *width), max(2, *height)

	fmt.Printf("%s (%d buckets)\n\n", *dist, pdf.Len())
	fmt.Println("pdf")
	fmt.Print(chart(w, h, func(x float64) float64 { return pdf.SamplePdf(x) }))
	fmt.Println("\ncdf")
	fmt.Print(chart(w, h, pdf.SampleCdf))

	if *samples > 0 {
		counts := make([]float64, w)
		r := stats.NewSource(*seed)
		for range *samples {
			i := min(int(pdf.SampleCdfFrom(r)*float64(w)), w-1)
			counts[i]++
		}
		fmt.Printf("\nsampled (%d draws)\n", *samples)
		fmt.Print(chart(w, h, func(x float64) float64 {
			return counts[min(int(x*float64(w)), w-1)]
		}))
	}
}

// chart plots f over [0, 1) as a bar chart scaled to its own maximum.
func chart(w, h int, f func(float64) float64) string {
	ys := make([]float64, w)
	peak := 0.0
	for i := range ys {
		ys[i] = f((float64(i) + 0.5) / float64(w))
		peak = max(peak, ys[i])
	}

	var b strings.Builder
	for row := h; row >= 1; row-- {
		level := float64(row) - 0.5
		b.WriteByte('|')
		for _, y := range ys {
			if peak > 0 && y/peak*float64(h) >= level {
				b.WriteByte('*')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteByte('+')
	b.WriteString(strings.Repeat("-", w))
	b.WriteByte('\n')
	fmt.Fprintf(&b, " peak %.4g\n", peak)
	return b.String()
}
