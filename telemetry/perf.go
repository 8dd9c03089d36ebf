package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a growth round.
const (
	PhaseIterate   = "iterate"   // agents run, possibly on the worker pool
	PhaseApply     = "apply"     // lineage bookkeeping for spawned and finished agents
	PhaseTelemetry = "telemetry" // collector flush and output
)

var phases = []string{PhaseIterate, PhaseApply, PhaseTelemetry}

// PerfSample holds timing data for a single round.
type PerfSample struct {
	RoundDuration time.Duration
	Agents        int
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of rounds.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	currentAgents int
	roundStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of rounds to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartRound begins timing a new round over the given number of agents.
func (p *PerfCollector) StartRound(agents int) {
	p.roundStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentAgents = agents
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndRound finishes timing the current round and records the sample.
func (p *PerfCollector) EndRound() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		RoundDuration: now.Sub(p.roundStart),
		Agents:        p.currentAgents,
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Round timing
	AvgRoundDuration time.Duration
	MinRoundDuration time.Duration
	MaxRoundDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total round time
	PhasePct map[string]float64

	// Throughput
	RoundsPerSecond float64
	AgentsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalRound time.Duration
	var minRound, maxRound time.Duration
	var agents int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalRound += s.RoundDuration
		agents += s.Agents

		if i == 0 || s.RoundDuration < minRound {
			minRound = s.RoundDuration
		}
		if s.RoundDuration > maxRound {
			maxRound = s.RoundDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgRound := totalRound / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgRound > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgRound) * 100
		}
	}

	var roundsPerSec, agentsPerSec float64
	if avgRound > 0 {
		roundsPerSec = float64(time.Second) / float64(avgRound)
	}
	if totalRound > 0 {
		agentsPerSec = float64(agents) / totalRound.Seconds()
	}

	return PerfStats{
		AvgRoundDuration: avgRound,
		MinRoundDuration: minRound,
		MaxRoundDuration: maxRound,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		RoundsPerSecond:  roundsPerSec,
		AgentsPerSecond:  agentsPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_round_us", s.AvgRoundDuration.Microseconds(),
		"min_round_us", s.MinRoundDuration.Microseconds(),
		"max_round_us", s.MaxRoundDuration.Microseconds(),
		"rounds_per_sec", int(s.RoundsPerSecond),
		"agents_per_sec", int(s.AgentsPerSecond),
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_round_us", s.AvgRoundDuration.Microseconds()),
		slog.Int64("min_round_us", s.MinRoundDuration.Microseconds()),
		slog.Int64("max_round_us", s.MaxRoundDuration.Microseconds()),
		slog.Float64("rounds_per_sec", s.RoundsPerSecond),
		slog.Float64("agents_per_sec", s.AgentsPerSecond),
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgRoundUS   int64   `csv:"avg_round_us"`
	MinRoundUS   int64   `csv:"min_round_us"`
	MaxRoundUS   int64   `csv:"max_round_us"`
	RoundsPerSec float64 `csv:"rounds_per_sec"`
	AgentsPerSec float64 `csv:"agents_per_sec"`
	IteratePct   float64 `csv:"iterate_pct"`
	ApplyPct     float64 `csv:"apply_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgRoundUS:   s.AvgRoundDuration.Microseconds(),
		MinRoundUS:   s.MinRoundDuration.Microseconds(),
		MaxRoundUS:   s.MaxRoundDuration.Microseconds(),
		RoundsPerSec: s.RoundsPerSecond,
		AgentsPerSec: s.AgentsPerSecond,
		IteratePct:   s.PhasePct[PhaseIterate],
		ApplyPct:     s.PhasePct[PhaseApply],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
