// Package components defines the ECS components stored in the branch lineage
// registry.
package components

import "github.com/mlange-42/ark/ecs"

// Termination records why a branch stopped growing.
type Termination uint8

const (
	Growing       Termination = iota // still active
	ReachedTarget                    // grew to its target length
	OutOfBounds                      // stepped outside the tree space
	RoundCap                         // still active when generation hit the round cap
)

func (t Termination) String() string {
	switch t {
	case Growing:
		return "growing"
	case ReachedTarget:
		return "reached_target"
	case OutOfBounds:
		return "out_of_bounds"
	case RoundCap:
		return "round_cap"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so CSV and YAML output use
// the readable name.
func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Lineage places a branch in the split tree. Root branches seeded from the
// trunk have Depth 0 and no parent.
type Lineage struct {
	Parent    ecs.Entity
	HasParent bool
	Depth     int
	Index     int // order of registration, stable across runs
}

// Growth is the life record of one branch.
type Growth struct {
	SpawnRound int
	EndRound   int
	StartX     int
	StartY     int
	StartZ     int
	Length     float64 // accumulated length at termination
	Target     float64 // target length
	Splits     int     // children spawned
	Reason     Termination
}
