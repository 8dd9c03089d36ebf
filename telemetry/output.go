package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/redwood/config"
	"github.com/pthm-cable/redwood/space"
)

// VoxelRecord is one placed voxel in world coordinates.
type VoxelRecord struct {
	X        int            `csv:"x"`
	Y        int            `csv:"y"`
	Z        int            `csv:"z"`
	Material space.Material `csv:"material"`
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	roundsFile *os.File
	perfFile   *os.File

	// Track if headers have been written
	roundsHeaderWritten bool
	perfHeaderWritten   bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating rounds.csv: %w", err)
	}
	om.roundsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.roundsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteRound appends a round stats record to rounds.csv.
func (om *OutputManager) WriteRound(stats RoundStats) error {
	if om == nil {
		return nil
	}

	records := []RoundStats{stats}

	if !om.roundsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.roundsFile); err != nil {
			return fmt.Errorf("writing rounds: %w", err)
		}
		om.roundsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.roundsFile); err != nil {
			return fmt.Errorf("writing rounds: %w", err)
		}
	}

	return nil
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteBranches writes the branch lineage to branches.csv.
func (om *OutputManager) WriteBranches(records []BranchRecord) error {
	if om == nil {
		return nil
	}
	return writeCSVFile(filepath.Join(om.dir, "branches.csv"), records)
}

// WriteVoxels writes every placed voxel to voxels.csv.
func (om *OutputManager) WriteVoxels(voxels []VoxelRecord) error {
	if om == nil {
		return nil
	}
	return writeCSVFile(filepath.Join(om.dir, "voxels.csv"), voxels)
}

// WriteStats writes the tree summary to stats.csv.
func (om *OutputManager) WriteStats(stats TreeStats) error {
	if om == nil {
		return nil
	}
	return writeCSVFile(filepath.Join(om.dir, "stats.csv"), []TreeStats{stats})
}

func writeCSVFile(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.roundsFile != nil {
		if err := om.roundsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
