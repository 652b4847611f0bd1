package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
)

const threeGames = `
random: fixed
wait: 150
steps:
  - coin
  - expect Press Go!
  - go
  - expect Wait...
  - tick 150
  - mode Running
  - expect 0.00
  - tick 164
  - go
  - expect 1.64
  - mode gameover
  - tick 300
  - tick 150
  - tick 10
  - stop
  - tick 300
  - tick 150
  - tick 20
  - press
  - tick 300
  - mode Result
  - "expect Average: 0.65"
  - tick 500
  - expect Insert Coin
`

func TestParseSteps(t *testing.T) {
	tests := []struct {
		line  string
		kind  StepKind
		event reaction.Event
		count int
	}{
		{"coin", StepEvent, reaction.EventCoin, 1},
		{"go", StepEvent, reaction.EventGoStop, 1},
		{"tick 40", StepEvent, reaction.EventTick, 40},
		{"  tick  ", StepEvent, reaction.EventTick, 1},
		{"expect Wait...", StepExpect, 0, 0},
		{"mode Ready", StepExpectMode, 0, 0},
	}

	for _, tt := range tests {
		st, err := ParseStep(tt.line)
		if err != nil {
			t.Errorf("ParseStep(%q) failed: %v", tt.line, err)
			continue
		}
		if st.Kind != tt.kind {
			t.Errorf("ParseStep(%q): expected kind %d, got %d", tt.line, tt.kind, st.Kind)
		}
		if tt.kind == StepEvent && (st.Event != tt.event || st.Count != tt.count) {
			t.Errorf("ParseStep(%q): expected %s x%d, got %s x%d", tt.line, tt.event, tt.count, st.Event, st.Count)
		}
	}
}

func TestParseRejectsBadSteps(t *testing.T) {
	for _, line := range []string{"jump", "tick zero", "tick -3", "mode Flying"} {
		if _, err := ParseStep(line); !errors.Is(err, ErrUnknownStep) {
			t.Errorf("ParseStep(%q): expected ErrUnknownStep, got %v", line, err)
		}
	}

	if _, err := Parse([]byte("random: dice\n")); err == nil {
		t.Error("Expected error for unknown random source")
	}
}

func TestRunThreeGames(t *testing.T) {
	s, err := Parse([]byte(threeGames))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	trace, err := Run(s, reaction.DefaultTiming())
	if err != nil {
		t.Fatalf("Run() failed: %v\n%s", err, trace)
	}

	if len(trace.Entries) != len(s.Steps) {
		t.Errorf("Expected %d entries, got %d", len(s.Steps), len(trace.Entries))
	}
	if len(trace.Sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(trace.Sessions))
	}
	if got := trace.Sessions[0].CumulativeTicks; got != 194 {
		t.Errorf("Expected cumulative 194, got %d", got)
	}
	if trace.Displays[0] != reaction.TextInsertCoin {
		t.Errorf("Expected first display %q, got %q", reaction.TextInsertCoin, trace.Displays[0])
	}
	if !strings.Contains(trace.String(), "session 1: 3 games") {
		t.Errorf("Expected session summary in trace:\n%s", trace)
	}
}

func TestRunFailedExpectation(t *testing.T) {
	s, err := Parse([]byte("steps: [coin, go, expect Press Go!]\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	trace, err := Run(s, reaction.Timing{})
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("Expected ErrExpectation, got %v", err)
	}
	if !strings.Contains(err.Error(), "step 3") {
		t.Errorf("Expected failing step index in %q", err)
	}
	if len(trace.Entries) != 2 {
		t.Errorf("Expected 2 entries before failure, got %d", len(trace.Entries))
	}
}

func TestRunFixedDefaultsToMinWait(t *testing.T) {
	s, err := Parse([]byte("steps: [coin, go, tick 99, mode Waiting, tick, mode Running]\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if _, err := Run(s, reaction.Timing{}); err != nil {
		t.Errorf("Run() failed: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(threeGames), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Wait != 150 || len(s.Steps) != 24 {
		t.Errorf("Unexpected script: wait %d, %d steps", s.Wait, len(s.Steps))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestPlayMirrorsDisplay(t *testing.T) {
	s, err := Parse([]byte("wait: 2\nsteps: [coin, go, tick 2, tick 3, go]\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	rec := reaction.NewRecorder()
	trace, err := Play(context.Background(), s, reaction.Timing{}, rec, 1000)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if rec.Last() != "0.03" {
		t.Errorf("Expected mirrored 0.03, got %q", rec.Last())
	}
	if len(rec.History()) != len(trace.Displays) {
		t.Errorf("Expected mirror to see every update: %d vs %d", len(rec.History()), len(trace.Displays))
	}
}

func TestPlayCancelled(t *testing.T) {
	s, err := Parse([]byte("steps: [coin, go, tick 1000]\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Play(ctx, s, reaction.Timing{}, nil, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
