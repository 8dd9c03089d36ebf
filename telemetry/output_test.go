package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/redwood/components"
	"github.com/pthm-cable/redwood/config"
	"github.com/pthm-cable/redwood/space"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v, want nil, nil", om, err)
	}

	// A nil manager accepts every write
	if err := om.WriteRound(RoundStats{Round: 1}); err != nil {
		t.Errorf("WriteRound: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Errorf("WritePerf: %v", err)
	}
	if err := om.WriteBranches(nil); err != nil {
		t.Errorf("WriteBranches: %v", err)
	}
	if err := om.WriteStats(TreeStats{}); err != nil {
		t.Errorf("WriteStats: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() = %q", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOutputManagerRounds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for round := 1; round <= 3; round++ {
		if err := om.WriteRound(RoundStats{Round: round, ActiveBranches: 10 - round}); err != nil {
			t.Fatalf("WriteRound(%d): %v", round, err)
		}
	}
	if err := om.WritePerf(PerfStats{RoundsPerSecond: 100}, 3); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rounds := readLines(t, filepath.Join(dir, "rounds.csv"))
	if len(rounds) != 4 {
		t.Fatalf("rounds.csv has %d lines, want header and 3 rows:\n%s", len(rounds), strings.Join(rounds, "\n"))
	}
	if !strings.HasPrefix(rounds[0], "round,duration_us,active_branches") {
		t.Errorf("rounds header = %q", rounds[0])
	}
	if !strings.HasPrefix(rounds[3], "3,0,7,") {
		t.Errorf("last round row = %q", rounds[3])
	}

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 2 || !strings.HasPrefix(perf[0], "window_end,") || !strings.HasPrefix(perf[1], "3,") {
		t.Errorf("perf.csv = %q", perf)
	}
}

func TestOutputManagerResults(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	branches := []BranchRecord{
		{Index: 0, Parent: -1, Reason: components.ReachedTarget},
		{Index: 1, Parent: 0, Depth: 1, Reason: components.OutOfBounds},
	}
	if err := om.WriteBranches(branches); err != nil {
		t.Fatalf("WriteBranches: %v", err)
	}
	voxels := []VoxelRecord{
		{X: 1, Y: 2, Z: 3, Material: space.Heartwood},
		{X: -4, Y: 5, Z: 6, Material: space.DeadLeafSpace},
	}
	if err := om.WriteVoxels(voxels); err != nil {
		t.Fatalf("WriteVoxels: %v", err)
	}
	if err := om.WriteStats(TreeStats{Seed: 99, Branches: 2}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}

	b := readLines(t, filepath.Join(dir, "branches.csv"))
	if len(b) != 3 || !strings.Contains(b[1], "reached_target") || !strings.Contains(b[2], "out_of_bounds") {
		t.Errorf("branches.csv = %q", b)
	}

	v := readLines(t, filepath.Join(dir, "voxels.csv"))
	want := []string{"x,y,z,material", "1,2,3,heartwood", "-4,5,6,dead_leaf_space"}
	if strings.Join(v, "\n") != strings.Join(want, "\n") {
		t.Errorf("voxels.csv = %q, want %q", v, want)
	}

	s := readLines(t, filepath.Join(dir, "stats.csv"))
	if len(s) != 2 || !strings.HasPrefix(s[1], "99,") {
		t.Errorf("stats.csv = %q", s)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Run.Seed = 1234
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	back, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Run.Seed != 1234 {
		t.Errorf("seed = %d, want 1234", back.Run.Seed)
	}
}
