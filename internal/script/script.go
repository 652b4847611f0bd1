// Package script runs the reaction controller headlessly from YAML scripts.
//
// A script lists the events to deliver and the displays to expect:
//
//	seed: 7
//	random: fixed
//	wait: 150
//	steps:
//	  - coin
//	  - go
//	  - tick 150
//	  - mode Running
//	  - tick 164
//	  - go
//	  - expect 1.64
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
)

// Random source names accepted by the random field.
const (
	RandomFixed   = "fixed"
	RandomUniform = "uniform"
	RandomLegacy  = "legacy"
)

var (
	// ErrUnknownStep is returned for a step line that cannot be parsed.
	ErrUnknownStep = errors.New("script: unknown step")
	// ErrExpectation is returned when an expect or mode step does not hold.
	ErrExpectation = errors.New("script: expectation failed")
)

// StepKind identifies what a step does.
type StepKind int

const (
	StepEvent      StepKind = iota // deliver Event Count times
	StepExpect                     // compare the current display text
	StepExpectMode                 // compare the current mode
)

// Step is one parsed script line.
type Step struct {
	Kind  StepKind
	Event reaction.Event
	Count int
	Text  string        // expected display for StepExpect
	Mode  reaction.Mode // expected mode for StepExpectMode
	Raw   string
}

// Script is a parsed event script.
type Script struct {
	Seed   int64    `yaml:"seed"`
	Random string   `yaml:"random"`
	Wait   int      `yaml:"wait"` // sample returned by the fixed source
	Lines  []string `yaml:"steps"`

	Steps []Step `yaml:"-"`
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: cannot read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML and parses every step line.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("script: invalid yaml: %w", err)
	}

	switch s.Random {
	case "":
		s.Random = RandomFixed
	case RandomFixed, RandomUniform, RandomLegacy:
	default:
		return Script{}, fmt.Errorf("script: unknown random source %q", s.Random)
	}
	if s.Random == RandomFixed && s.Wait == 0 {
		s.Wait = reaction.DefaultTiming().MinReactionDuration
	}

	s.Steps = make([]Step, 0, len(s.Lines))
	for i, line := range s.Lines {
		st, err := ParseStep(line)
		if err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		s.Steps = append(s.Steps, st)
	}
	return s, nil
}

// ParseStep parses a single step line such as "tick 40" or "expect Wait...".
func ParseStep(line string) (Step, error) {
	line = strings.TrimSpace(line)
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "expect":
		return Step{Kind: StepExpect, Text: rest, Raw: line}, nil
	case "mode":
		m, err := reaction.ParseMode(rest)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %v", ErrUnknownStep, err)
		}
		return Step{Kind: StepExpectMode, Mode: m, Raw: line}, nil
	}

	ev, err := reaction.ParseEvent(verb)
	if err != nil {
		return Step{}, fmt.Errorf("%w: %q", ErrUnknownStep, line)
	}
	count := 1
	if rest != "" {
		count, err = strconv.Atoi(rest)
		if err != nil || count < 1 {
			return Step{}, fmt.Errorf("%w: bad repeat count in %q", ErrUnknownStep, line)
		}
	}
	return Step{Kind: StepEvent, Event: ev, Count: count, Raw: line}, nil
}

// Entry records the controller state after one step.
type Entry struct {
	Step    int
	Raw     string
	Mode    reaction.Mode
	Display string
	Ticks   int
}

// Trace is the outcome of a run.
type Trace struct {
	Entries  []Entry
	Displays []string // every display update in order
	Sessions []reaction.SessionResult
}

// String renders the trace one step per line.
func (t Trace) String() string {
	var b strings.Builder
	for _, e := range t.Entries {
		fmt.Fprintf(&b, "%3d  %-12s %-9s %-6d %s\n", e.Step, e.Raw, e.Mode, e.Ticks, e.Display)
	}
	for i, s := range t.Sessions {
		fmt.Fprintf(&b, "session %d: %d games, %d ticks, %s\n",
			i+1, s.GamesPlayed, s.CumulativeTicks, reaction.FormatAverage(s.AverageSeconds))
	}
	return b.String()
}

// Run executes the script against a fresh controller.
// The trace up to the failing step is returned alongside any error.
func Run(s Script, timing reaction.Timing) (Trace, error) {
	return run(s, timing, nil, nil)
}

// Play executes the script in real time: each tick waits for the pacer.
// Every display update is also sent to display. Play stops early with
// ctx.Err() when ctx is cancelled.
func Play(ctx context.Context, s Script, timing reaction.Timing, display reaction.Display, tickRate int) (Trace, error) {
	if tickRate <= 0 {
		tickRate = 100
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	pace := func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			return nil
		}
	}
	return run(s, timing, display, pace)
}

func run(s Script, timing reaction.Timing, display reaction.Display, pace func() error) (Trace, error) {
	ctrl, err := reaction.NewController(timing)
	if err != nil {
		return Trace{}, err
	}

	rec := reaction.NewRecorder()
	sink := reaction.MultiDisplay{rec, display}
	if err := ctrl.Connect(sink, s.random()); err != nil {
		return Trace{}, err
	}
	col := &collector{}
	ctrl.SetListener(col)
	if err := ctrl.Init(); err != nil {
		return Trace{}, err
	}

	var trace Trace
	for i, st := range s.Steps {
		if err := apply(ctrl, st, pace); err != nil {
			trace.finish(rec, col)
			return trace, fmt.Errorf("step %d (%s): %w", i+1, st.Raw, err)
		}
		snap := ctrl.Snapshot()
		trace.Entries = append(trace.Entries, Entry{
			Step:    i + 1,
			Raw:     st.Raw,
			Mode:    snap.Mode,
			Display: snap.Display,
			Ticks:   snap.TickCounter,
		})
	}
	trace.finish(rec, col)
	return trace, nil
}

func apply(ctrl *reaction.Controller, st Step, pace func() error) error {
	snap := ctrl.Snapshot()
	switch st.Kind {
	case StepExpect:
		if snap.Display != st.Text {
			return fmt.Errorf("%w: display %q, want %q", ErrExpectation, snap.Display, st.Text)
		}
	case StepExpectMode:
		if snap.Mode != st.Mode {
			return fmt.Errorf("%w: mode %s, want %s", ErrExpectation, snap.Mode, st.Mode)
		}
	default:
		for n := 0; n < st.Count; n++ {
			if pace != nil && st.Event == reaction.EventTick {
				if err := pace(); err != nil {
					return err
				}
			}
			if err := ctrl.Dispatch(st.Event); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Trace) finish(rec *reaction.Recorder, col *collector) {
	t.Displays = rec.History()
	t.Sessions = col.sessions
}

func (s Script) random() reaction.Random {
	switch s.Random {
	case RandomUniform:
		return reaction.NewUniformRandom(s.Seed)
	case RandomLegacy:
		return reaction.NewLegacyRandom(s.Seed)
	default:
		return reaction.FixedRandom(s.Wait)
	}
}

type collector struct {
	sessions []reaction.SessionResult
}

func (c *collector) ModeChanged(_, _ reaction.Mode)       {}
func (c *collector) RoundFinished(_ reaction.RoundResult) {}
func (c *collector) SessionCompleted(s reaction.SessionResult) {
	c.sessions = append(c.sessions, s)
}
