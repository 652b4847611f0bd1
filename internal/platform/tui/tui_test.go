package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/reaction-arcade/internal/core"
	cabinet "github.com/vovakirdan/reaction-arcade/internal/games/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runeKey("c"), core.ActionCoin, false},
		{runeKey("5"), core.ActionCoin, false},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionGoStop, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionGoStop, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("x"), core.ActionNone, false},
	}

	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q): expected %s/%v, got %s/%v", tt.msg.String(), tt.action, tt.quit, action, quit)
		}
	}
}

func TestMenuKeys(t *testing.T) {
	km := NewKeyMapper()
	if got := km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}); got != MenuActionScoreboard {
		t.Errorf("Expected tab to open scoreboard, got %d", got)
	}
	if got := km.MapKeyToMenuAction(runeKey("j")); got != MenuActionDown {
		t.Errorf("Expected j to move down, got %d", got)
	}
}

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 0, "Hi")
	out := RenderScreen(s)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "Hi   " {
		t.Errorf("Expected uncolored row %q, got %q", "Hi   ", lines[0])
	}
}

func TestRenderScreenColored(t *testing.T) {
	s := core.NewScreen(4, 1)
	s.DrawTextColored(0, 0, "1.64", core.ColorBrightGreen)
	if out := RenderScreen(s); !strings.Contains(out, "1.64") {
		t.Errorf("Expected text inside styled run, got %q", out)
	}
}

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	cfg.Player = "tester"
	m, err := NewModel(cabinet.New(), store, cfg)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelCoinThenTick(t *testing.T) {
	m := newTestModel(t, nil)

	m = update(m, runeKey("c"))
	m = update(m, TickMsg{Loop: m.loop})

	if !strings.Contains(m.View(), reaction.TextPressGo) {
		t.Errorf("Expected %q after coin", reaction.TextPressGo)
	}
}

func TestModelIgnoresForeignTicks(t *testing.T) {
	m := newTestModel(t, nil)

	m = update(m, runeKey("c"))
	next, cmd := m.Update(TickMsg{Loop: m.loop + 1000})
	m = next.(Model)
	if cmd != nil {
		t.Error("Foreign tick should not schedule another")
	}
	if !m.inputFrame.Has(core.ActionCoin) {
		t.Error("Foreign tick should not consume input")
	}
}

func TestModelBackAndQuit(t *testing.T) {
	m := newTestModel(t, nil)
	m.embedded = true

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if !m.BackToMenu() || cmd != nil {
		t.Error("Embedded model should go back without quitting")
	}

	m = newTestModel(t, nil)
	m = update(m, runeKey("q"))
	if !m.IsQuitting() || m.View() != "" {
		t.Error("Expected quitting model with empty view")
	}
}

func TestMenuSelectsPreset(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	menu := next.(MenuModel)

	sel := menu.Selected()
	if sel == nil || sel.Scoreboard {
		t.Fatalf("Expected a preset selection, got %+v", sel)
	}
	if menu.Config().Difficulty != "hard" {
		t.Errorf("Expected hard after moving down from normal, got %q", menu.Config().Difficulty)
	}
}

func TestSessionFlowMenuGameScores(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	cfg := core.DefaultConfig()
	cfg.Player = "remote"
	s := NewSessionModel(store, cfg)

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.view != viewGame {
		t.Fatalf("Expected game view after selecting a preset, got %d", s.view)
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.view != viewMenu {
		t.Errorf("Expected menu after back, got %d", s.view)
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.view != viewScores {
		t.Errorf("Expected scoreboard after tab, got %d", s.view)
	}
	if !strings.Contains(s.View(), "No sessions recorded yet") {
		t.Error("Expected empty scoreboard message")
	}
}
