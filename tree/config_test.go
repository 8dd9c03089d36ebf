package tree

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/redwood/config"
	"github.com/pthm-cable/redwood/stats"
)

func TestParametersFromDefaultConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := ParametersFromConfig(cfg.Generation)
	if err != nil {
		t.Fatalf("ParametersFromConfig: %v", err)
	}
	want := DefaultParameters()

	gv, wv := reflect.ValueOf(got), reflect.ValueOf(want)
	for i := range gv.NumField() {
		name := gv.Type().Field(i).Name
		switch g := gv.Field(i).Interface().(type) {
		case stats.Variable:
			w := wv.Field(i).Interface().(stats.Variable)
			for _, x := range []float64{0.01, 0.25, 0.5, 0.75, 0.99} {
				if a, b := g.At(x), w.At(x); math.Abs(a-b) > 1e-9 {
					t.Errorf("%s.At(%v) = %v, want %v", name, x, a, b)
				}
			}
		case *stats.Pdf:
			w := wv.Field(i).Interface().(*stats.Pdf)
			if !floats.EqualApprox(g.Weights(), w.Weights(), 1e-12) {
				t.Errorf("%s weights = %v, want %v", name, g.Weights(), w.Weights())
			}
		default:
			t.Fatalf("%s has unexpected type %T", name, g)
		}
	}
}

func TestParametersFromConfigErrors(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	t.Run("unknown kind", func(t *testing.T) {
		g := cfg.Generation
		g.BranchLength = config.VariableSpec{Kind: "bogus"}
		_, err := ParametersFromConfig(g)
		if !errors.Is(err, config.ErrUnknownKind) {
			t.Fatalf("err = %v, want ErrUnknownKind", err)
		}
		if !strings.Contains(err.Error(), "branch_length") {
			t.Errorf("error %q does not name the field", err)
		}
	})

	t.Run("missing distribution", func(t *testing.T) {
		g := cfg.Generation
		g.BranchSplitDistribution = config.PdfSpec{}
		_, err := ParametersFromConfig(g)
		if !errors.Is(err, config.ErrNoDistribution) {
			t.Fatalf("err = %v, want ErrNoDistribution", err)
		}
		if !strings.Contains(err.Error(), "branch_split_distribution") {
			t.Errorf("error %q does not name the field", err)
		}
	})

	t.Run("bad weights", func(t *testing.T) {
		g := cfg.Generation
		g.BranchHeightDistribution = config.PdfSpec{Weights: []float64{0.5, 0.2}}
		if _, err := ParametersFromConfig(g); !errors.Is(err, stats.ErrNotNormalized) {
			t.Fatalf("err = %v, want ErrNotNormalized", err)
		}
	})
}
