// Package telemetry provides round timing, growth statistics, and structured
// output for tree generation runs.
package telemetry

import "github.com/pthm-cable/redwood/components"

// EventType identifies growth events.
type EventType uint8

const (
	EventBranchSpawn EventType = iota
	EventBranchSplit
	EventBranchFinish
	EventLeafSpawn
	EventLeafFinish
)

// Event represents a single growth event observed during a round.
type Event struct {
	Type  EventType
	Round int
	Depth int // branch generation depth, 0 for branches seeded at the trunk

	// Optional fields depending on event type
	Reason components.Termination // for branch finish events
	Length float64                // branch length at finish
}

// NewBranchSpawnEvent creates a branch spawn event.
func NewBranchSpawnEvent(round, depth int) Event {
	return Event{Type: EventBranchSpawn, Round: round, Depth: depth}
}

// NewBranchSplitEvent records that a branch at the given depth split.
func NewBranchSplitEvent(round, depth int) Event {
	return Event{Type: EventBranchSplit, Round: round, Depth: depth}
}

// NewBranchFinishEvent creates a branch termination event.
func NewBranchFinishEvent(round, depth int, reason components.Termination, length float64) Event {
	return Event{
		Type:   EventBranchFinish,
		Round:  round,
		Depth:  depth,
		Reason: reason,
		Length: length,
	}
}

// NewLeafSpawnEvent creates a leaf cluster spawn event.
func NewLeafSpawnEvent(round int) Event {
	return Event{Type: EventLeafSpawn, Round: round}
}

// NewLeafFinishEvent creates a leaf cluster completion event.
func NewLeafFinishEvent(round int) Event {
	return Event{Type: EventLeafFinish, Round: round}
}
