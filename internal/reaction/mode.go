// Package reaction implements the reaction-time game controller: a discrete
// tick state machine driven by coin, Go/Stop and tick events.
//
// The controller owns no clock and no I/O. Rendering and randomness are
// supplied by the caller through the Display and Random contracts.
package reaction

import (
	"fmt"
	"strings"
)

// Mode is one of the six mutually exclusive controller states.
type Mode int

const (
	ModeIdle     Mode = iota // waiting for a coin
	ModeReady                // coin accepted, waiting for Go/Stop
	ModeWaiting              // random pre-reaction delay
	ModeRunning              // reaction window open
	ModeGameOver             // one game's result is latched
	ModeResult               // session average on display
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeReady:
		return "Ready"
	case ModeWaiting:
		return "Waiting"
	case ModeRunning:
		return "Running"
	case ModeGameOver:
		return "GameOver"
	case ModeResult:
		return "Result"
	default:
		return "Unknown"
	}
}

// Event is an external input delivered to the controller.
type Event int

const (
	EventCoin   Event = iota // coin inserted
	EventGoStop              // Go/Stop button pressed
	EventTick                // one timer tick elapsed
)

// String returns the canonical name for the event.
func (e Event) String() string {
	switch e {
	case EventCoin:
		return "coin"
	case EventGoStop:
		return "go"
	case EventTick:
		return "tick"
	default:
		return "unknown"
	}
}

// ParseEvent converts an event name to an Event.
// Accepts the canonical names plus a few aliases ("gostop", "stop", "press").
func ParseEvent(s string) (Event, error) {
	switch s {
	case "coin", "insert":
		return EventCoin, nil
	case "go", "gostop", "stop", "press":
		return EventGoStop, nil
	case "tick":
		return EventTick, nil
	}
	return 0, fmt.Errorf("reaction: unknown event %q", s)
}

// ParseMode converts a mode name (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	for m := ModeIdle; m <= ModeResult; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("reaction: unknown mode %q", s)
}
