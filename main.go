package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/pthm-cable/redwood/config"
	"github.com/pthm-cable/redwood/space"
	"github.com/pthm-cable/redwood/stats"
	"github.com/pthm-cable/redwood/telemetry"
	"github.com/pthm-cable/redwood/tree"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config, then time-based)")
	workers := flag.Int("workers", -1, "Round worker goroutines (-1 = use config, 0 = one per CPU)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (empty = use config)")
	originX := flag.Int("origin-x", 0, "World x of the trunk base")
	originY := flag.Int("origin-y", 0, "World y of the trunk base")
	originZ := flag.Int("origin-z", 0, "World z of the trunk base")
	debugMarkers := flag.Bool("debug-markers", false, "Mark turn and split points with debug materials")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error (empty = use config)")
	logFile := flag.String("log-file", "", "Also write logs to this rotated file (empty = use config)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Explicit flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "origin-x":
			cfg.Run.Origin.X = *originX
		case "origin-y":
			cfg.Run.Origin.Y = *originY
		case "origin-z":
			cfg.Run.Origin.Z = *originZ
		}
	})
	if *seed != 0 {
		cfg.Run.Seed = *seed
	}
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = uint64(time.Now().UnixNano())
	}
	if *workers >= 0 {
		cfg.Run.Workers = *workers
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	cfg.Run.DebugMarkers = cfg.Run.DebugMarkers || *debugMarkers
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	// Set up slog (JSON to stdout for structured logging)
	logger, logCloser := newLogger(cfg.Log)
	slog.SetDefault(logger)

	err := run(cfg, *logStats)
	if err != nil {
		slog.Error("generation failed", "error", err)
	}
	logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logStats bool) error {
	params, err := tree.ParametersFromConfig(cfg.Generation)
	if err != nil {
		return err
	}

	om, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	// -workers may have changed the setting after derived values were computed
	workers := cfg.Run.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	window := max(1, cfg.Telemetry.PerfWindow)
	var outErr error
	gen, err := tree.New(params, tree.Options{
		Workers:      workers,
		MaxRounds:    cfg.Derived.MaxRounds,
		DebugMarkers: cfg.Run.DebugMarkers,
		Logger:       slog.Default(),
		Perf:         perf,
		OnRound: func(rs telemetry.RoundStats) {
			if err := om.WriteRound(rs); err != nil && outErr == nil {
				outErr = err
			}
			if rs.Round%window == 0 {
				ps := perf.Stats()
				if err := om.WritePerf(ps, rs.Round); err != nil && outErr == nil {
					outErr = err
				}
				if logStats {
					ps.LogStats()
				}
			}
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting generation",
		"seed", cfg.Run.Seed,
		"workers", workers,
		"origin", []int{cfg.Run.Origin.X, cfg.Run.Origin.Y, cfg.Run.Origin.Z},
		"params", params,
	)

	var voxels []telemetry.VoxelRecord
	place := func(m space.Material, x, y, z int) {
		if cfg.Telemetry.WriteVoxels {
			voxels = append(voxels, telemetry.VoxelRecord{X: x, Y: y, Z: z, Material: m})
		}
	}

	o := cfg.Run.Origin
	res, err := gen.Generate(ctx, o.X, o.Y, o.Z, stats.NewSource(cfg.Run.Seed), place)
	if err != nil {
		return err
	}
	if outErr != nil {
		return outErr
	}

	res.Stats.Seed = cfg.Run.Seed
	if err := om.WriteBranches(res.Branches); err != nil {
		return err
	}
	if cfg.Telemetry.WriteVoxels {
		if err := om.WriteVoxels(voxels); err != nil {
			return err
		}
	}
	if err := om.WriteStats(res.Stats); err != nil {
		return err
	}

	if logStats {
		res.Stats.LogStats()
	}
	slog.Info("generation complete",
		"rounds", res.Rounds,
		"truncated", res.Truncated,
		"branches", len(res.Branches),
		"voxels", res.Stats.Voxels,
		"output_dir", om.Dir(),
	)
	return nil
}
