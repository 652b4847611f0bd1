package reaction

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/reaction-arcade/internal/core"
	machine "github.com/vovakirdan/reaction-arcade/internal/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/registry"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	if err := g.Reset(cfg); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// stepUntil steps with no input until the mode is reached.
func stepUntil(t *testing.T, g *Game, want machine.Mode, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if g.Snapshot().Mode == want {
			return
		}
		g.Step(frame())
	}
	if g.Snapshot().Mode != want {
		t.Fatalf("Expected mode %s within %d ticks, got %s", want, limit, g.Snapshot().Mode)
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(GameID) {
		t.Fatal("Expected reaction cabinet to be registered")
	}
	g, err := registry.Create(GameID)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.Title() != "Reaction Timer" {
		t.Errorf("Expected title Reaction Timer, got %q", g.Title())
	}
}

func TestResetStartsIdle(t *testing.T) {
	g := newTestGame(t)

	st := g.Snapshot()
	if st.Mode != machine.ModeIdle {
		t.Errorf("Expected Idle, got %s", st.Mode)
	}
	if st.Display != machine.TextInsertCoin {
		t.Errorf("Expected %q, got %q", machine.TextInsertCoin, st.Display)
	}
	if g.State().GameOver {
		t.Error("Cabinet should never report game over")
	}
}

func TestStepBeforeReset(t *testing.T) {
	g := New()
	res := g.Step(frame(core.ActionCoin))
	if len(res.Sessions) != 0 {
		t.Error("Expected no sessions from an unreset cabinet")
	}
	g.Render(core.NewScreen(80, 24))
}

func TestCoinAndGoSameFrame(t *testing.T) {
	g := newTestGame(t)

	// Coin is delivered before Go, so one frame reaches Waiting.
	g.Step(frame(core.ActionGoStop, core.ActionCoin))
	if mode := g.Snapshot().Mode; mode != machine.ModeWaiting {
		t.Errorf("Expected Waiting, got %s", mode)
	}
}

func TestFullSessionReported(t *testing.T) {
	g := newTestGame(t)
	timing := g.Timing()

	g.Step(frame(core.ActionCoin))
	g.Step(frame(core.ActionGoStop))

	var sessions []machine.SessionResult
	for game := 1; game <= timing.MaxGames; game++ {
		stepUntil(t, g, machine.ModeRunning, timing.MaxReactionDuration+1)
		g.Step(frame())
		g.Step(frame())
		res := g.Step(frame(core.ActionGoStop))
		sessions = append(sessions, res.Sessions...)
		if mode := g.Snapshot().Mode; mode != machine.ModeGameOver {
			t.Fatalf("Game %d: expected GameOver after press, got %s", game, mode)
		}
		if game < timing.MaxGames {
			stepUntil(t, g, machine.ModeWaiting, timing.GameOverDuration+1)
		}
	}

	for i := 0; i < timing.GameOverDuration+1 && len(sessions) == 0; i++ {
		sessions = append(sessions, g.Step(frame()).Sessions...)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected exactly one session, got %d", len(sessions))
	}

	s := sessions[0]
	if s.GamesPlayed != timing.MaxGames || len(s.Rounds) != timing.MaxGames {
		t.Errorf("Expected %d games, got %+v", timing.MaxGames, s)
	}
	if !strings.HasPrefix(g.Snapshot().Display, "Average: ") {
		t.Errorf("Expected average display, got %q", g.Snapshot().Display)
	}
	wantMs := int(s.RankSeconds*1000 + 0.5)
	if g.State().Score != wantMs {
		t.Errorf("Expected score %d, got %d", wantMs, g.State().Score)
	}

	// The session is reported only once.
	if res := g.Step(frame()); len(res.Sessions) != 0 {
		t.Errorf("Expected session to be drained, got %d", len(res.Sessions))
	}
}

func TestDifficultyPreset(t *testing.T) {
	if err := SetDifficultyPreset("hard"); err != nil {
		t.Fatalf("SetDifficultyPreset() failed: %v", err)
	}
	t.Cleanup(func() { SetDifficultyPreset("") })

	g := newTestGame(t)
	if got := g.Timing().MaxGameDuration; got != 150 {
		t.Errorf("Expected hard max game duration 150, got %d", got)
	}

	if err := SetDifficultyPreset("insane"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestRuntimeDifficultyOverrides(t *testing.T) {
	g := New()
	cfg := core.DefaultConfig()
	cfg.Difficulty = "easy"
	if err := g.Reset(cfg); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if got := g.Timing().MaxGameDuration; got != 300 {
		t.Errorf("Expected easy max game duration 300, got %d", got)
	}

	cfg.Difficulty = "nightmare"
	if err := g.Reset(cfg); err == nil {
		t.Error("Expected error for unknown runtime difficulty")
	}
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reaction.yaml")
	data := []byte("timing:\n  max_games: 5\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	g := newTestGame(t)
	if got := g.Timing().MaxGames; got != 5 {
		t.Errorf("Expected 5 games from config, got %d", got)
	}
}

func TestAddDisplay(t *testing.T) {
	rec := machine.NewRecorder()
	AddDisplay(rec)
	t.Cleanup(ClearDisplays)

	g := newTestGame(t)
	g.Step(frame(core.ActionCoin))

	history := rec.History()
	if len(history) != 2 || history[0] != machine.TextInsertCoin || history[1] != machine.TextPressGo {
		t.Errorf("Unexpected mirrored history %q", history)
	}
}

func TestRenderShowsDisplay(t *testing.T) {
	g := newTestGame(t)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, machine.TextInsertCoin) {
		t.Error("Expected display text on screen")
	}
	if !strings.Contains(out, helpText) {
		t.Error("Expected controls help on screen")
	}
	if !strings.Contains(out, "Game 0/3") {
		t.Error("Expected games counter in HUD")
	}
	if strings.Contains(out, "Best:") {
		t.Error("Expected no best line before the first session")
	}
}

func TestTimedOutSessionDoesNotSetZeroBest(t *testing.T) {
	g := newTestGame(t)
	timing := g.Timing()

	g.Step(frame(core.ActionCoin))
	g.Step(frame(core.ActionGoStop))

	var sessions []machine.SessionResult
	step := func() {
		sessions = append(sessions, g.Step(frame()).Sessions...)
	}
	for game := 1; game <= timing.MaxGames; game++ {
		stepUntil(t, g, machine.ModeRunning, timing.MaxReactionDuration+1)
		for i := 0; i < timing.MaxGameDuration; i++ {
			step()
		}
		if mode := g.Snapshot().Mode; mode != machine.ModeGameOver {
			t.Fatalf("Game %d: expected GameOver after timeout, got %s", game, mode)
		}
		if game < timing.MaxGames {
			stepUntil(t, g, machine.ModeWaiting, timing.GameOverDuration+1)
		}
	}
	for i := 0; i < timing.GameOverDuration && len(sessions) == 0; i++ {
		step()
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected exactly one session, got %d", len(sessions))
	}
	if got := g.Snapshot().Display; got != "Average: 0.00" {
		t.Errorf("Expected %q, got %q", "Average: 0.00", got)
	}

	best, ok := g.Best()
	if !ok || best != 2 {
		t.Errorf("Expected best 2.00s charged for timeouts, got %v (set=%v)", best, ok)
	}
	if g.State().Score != 2000 {
		t.Errorf("Expected score 2000, got %d", g.State().Score)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Best: 2.00s") {
		t.Error("Expected best line on screen after a timed-out session")
	}
}
