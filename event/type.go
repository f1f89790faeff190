package event

import (
	"fmt"

	"github.com/lixenwraith/threadworms/core"
)

// EventType represents the type of worm event
type EventType int

const (
	// EventWormSpawned signals a worm claimed its first cell
	// Trigger: Simulation.Spawn | Consumer: status bar, log
	EventWormSpawned EventType = iota

	// EventWormReversed signals a boxed-in worm swapped head and tail and moved
	// Trigger: worm step fallback | Consumer: audio
	EventWormReversed

	// EventWormStuck signals an iteration without any legal move
	// Trigger: worm step after failed reversal | Consumer: audio, metrics
	EventWormStuck

	// EventWormShrunk signals the tail release timed out and the target length dropped
	// Trigger: worm tail trim | Consumer: audio, log
	EventWormShrunk

	// EventClaimTimeout signals a candidate cell lock was not acquired in time
	// Trigger: worm step | Consumer: log
	EventClaimTimeout

	// EventWormStopped signals a worm observed shutdown and left its loop
	// Trigger: worm run loop | Consumer: log
	EventWormStopped

	// EventWormFaulted signals a worm stopped on a programming error
	// Trigger: worm run loop | Consumer: log (error)
	EventWormFaulted
)

func (t EventType) String() string {
	switch t {
	case EventWormSpawned:
		return "spawned"
	case EventWormReversed:
		return "reversed"
	case EventWormStuck:
		return "stuck"
	case EventWormShrunk:
		return "shrunk"
	case EventClaimTimeout:
		return "claim-timeout"
	case EventWormStopped:
		return "stopped"
	case EventWormFaulted:
		return "faulted"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is a single worm notification
type Event struct {
	Type  EventType
	Worm  string   // worm name, debug only
	Color core.RGB // worm color at the time of the event
	At    core.Point
	Value int // type-specific: new max length for EventWormShrunk
}

// Sink accepts events from producers
type Sink interface {
	Push(ev Event)
}

// Discard is a Sink that drops every event
var Discard Sink = discard{}

type discard struct{}

func (discard) Push(Event) {}
