// Package reaction implements the Reaction Timer cabinet.
// It wraps the reaction state machine so the platform can step it once per
// tick, like any other game in the registry.
package reaction

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/reaction-arcade/internal/config"
	"github.com/vovakirdan/reaction-arcade/internal/core"
	machine "github.com/vovakirdan/reaction-arcade/internal/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/registry"
)

// GameID is the registry and storage identifier of the cabinet.
const GameID = "reaction"

const helpText = "C: coin  Space: go/stop  Q: quit"

// Game implements the Reaction Timer cabinet.
type Game struct {
	ctrl     *machine.Controller
	recorder *machine.Recorder
	cfg      config.ReactionConfig
	runtime  core.RuntimeConfig
	logger   *log.Logger

	pending []machine.SessionResult // completed since the last Step
	best    float64                 // lowest rank average seen, seconds
	hasBest bool
}

// Package-level settings applied on every Reset.
var (
	settingsMu       sync.RWMutex
	configPath       string
	difficultyPreset config.DifficultyPreset
	extraDisplays    []machine.Display
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names are rejected.
func SetDifficultyPreset(preset string) error {
	p, err := config.ParsePreset(preset)
	if err != nil {
		return err
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	difficultyPreset = p
	return nil
}

// AddDisplay registers an extra sink that receives every display update of
// every cabinet instance created afterwards.
func AddDisplay(d machine.Display) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	extraDisplays = append(extraDisplays, d)
}

// ClearDisplays removes all sinks registered with AddDisplay.
func ClearDisplays() {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	extraDisplays = nil
}

func init() {
	registry.Register(GameID, func() registry.Game { return New() })
}

// New creates a new Reaction Timer instance. Call Reset before stepping.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Reaction Timer"
}

// Reset builds a fresh controller from the loaded config and starts it in Idle.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	settingsMu.RLock()
	path, preset := configPath, difficultyPreset
	sinks := append([]machine.Display(nil), extraDisplays...)
	settingsMu.RUnlock()

	g.runtime = runtime
	g.logger = log.Default().WithPrefix(GameID)

	cfg, err := config.LoadReaction(path)
	if err != nil {
		g.logger.Warn("falling back to default config", "err", err)
		cfg = config.DefaultReactionConfig()
	}
	if runtime.Difficulty != "" {
		p, err := config.ParsePreset(runtime.Difficulty)
		if err != nil {
			return fmt.Errorf("reaction: %w", err)
		}
		preset = p
	}
	if preset != "" {
		config.ApplyReactionPreset(&cfg, preset)
	}
	g.cfg = cfg

	ctrl, err := machine.NewController(cfg.Timing.ToTiming())
	if err != nil {
		return fmt.Errorf("reaction: %w", err)
	}

	g.recorder = machine.NewRecorder()
	display := append(machine.MultiDisplay{g.recorder}, sinks...)
	if err := ctrl.Connect(display, cfg.NewRandom(runtime.Seed)); err != nil {
		return fmt.Errorf("reaction: %w", err)
	}
	ctrl.SetListener(sessionListener{g})

	g.ctrl = ctrl
	g.pending = nil
	g.best = 0
	g.hasBest = false

	if err := ctrl.Init(); err != nil {
		return fmt.Errorf("reaction: %w", err)
	}
	g.logger.Debug("cabinet ready", "seed", runtime.Seed, "random", cfg.Random.Mode, "preset", preset)
	return nil
}

// Step delivers this tick's buttons to the controller, then advances one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.ctrl == nil {
		return core.StepResult{}
	}

	if in.Has(core.ActionCoin) {
		g.deliver(machine.EventCoin)
	}
	if in.Has(core.ActionGoStop) {
		g.deliver(machine.EventGoStop)
	}
	g.deliver(machine.EventTick)

	res := core.StepResult{State: g.State(), Sessions: g.pending}
	g.pending = nil
	return res
}

func (g *Game) deliver(ev machine.Event) {
	if err := g.ctrl.Dispatch(ev); err != nil {
		g.logger.Error("event rejected", "event", ev, "err", err)
	}
}

// State returns the current game state.
// Score is the best rank average in milliseconds, 0 before the first
// session; the cabinet never ends.
func (g *Game) State() core.GameState {
	if !g.hasBest {
		return core.GameState{}
	}
	return core.GameState{Score: int(g.best*1000 + 0.5)}
}

// Best returns the lowest rank average of this cabinet's sessions.
func (g *Game) Best() (float64, bool) {
	return g.best, g.hasBest
}

// Snapshot exposes the controller status for HUDs and mirrors.
func (g *Game) Snapshot() machine.Status {
	if g.ctrl == nil {
		return machine.Status{}
	}
	return g.ctrl.Snapshot()
}

// Timing returns the active timing after config and preset are applied.
func (g *Game) Timing() machine.Timing {
	if g.ctrl == nil {
		return machine.DefaultTiming()
	}
	return g.ctrl.Timing()
}

// Render draws the cabinet display and HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.ctrl == nil {
		return
	}

	st := g.ctrl.Snapshot()
	color := modeColor(st.Mode)

	lines := []string{st.Display}
	if g.cfg.Display.BigDigits {
		if big, ok := core.BigText(st.Display); ok {
			lines = big
		}
	}

	w := 0
	for _, l := range lines {
		w = core.Max(w, len([]rune(l)))
	}
	box := core.CenteredRect(dst.Width(), dst.Height(), core.Max(w+6, 24), len(lines)+4)
	dst.DrawBox(box, color)
	for i, l := range lines {
		x := box.X + (box.W-len([]rune(l)))/2
		dst.DrawTextColored(x, box.Y+2+i, l, color)
	}

	// HUD
	dst.DrawTextColored(2, 0, " REACTION TIMER ", core.ColorBrightYellow)
	games := fmt.Sprintf(" %s  Game %d/%d ", st.Mode, st.GamesPlayed, g.ctrl.Timing().MaxGames)
	dst.DrawText(dst.Width()-len(games)-2, 0, games)

	if g.hasBest {
		best := "Best: " + machine.FormatSeconds(int(g.best*g.ctrl.Timing().TicksPerSecond+0.5), g.ctrl.Timing().TicksPerSecond) + "s"
		dst.DrawTextCentered(box.Bottom()+1, best, core.ColorGray)
	}
	dst.DrawTextCentered(dst.Height()-1, helpText, core.ColorGray)
}

func modeColor(m machine.Mode) core.Color {
	switch m {
	case machine.ModeReady:
		return core.ColorCyan
	case machine.ModeWaiting:
		return core.ColorRed
	case machine.ModeRunning:
		return core.ColorBrightGreen
	case machine.ModeGameOver:
		return core.ColorMagenta
	case machine.ModeResult:
		return core.ColorBrightYellow
	default:
		return core.ColorYellow
	}
}

// sessionListener collects sessions for Step and logs transitions.
type sessionListener struct {
	g *Game
}

func (l sessionListener) ModeChanged(from, to machine.Mode) {
	l.g.logger.Debug("mode changed", "from", from, "to", to)
}

func (l sessionListener) RoundFinished(r machine.RoundResult) {
	l.g.logger.Debug("round finished", "game", r.Game, "ticks", r.ReactionTicks, "timed_out", r.TimedOut)
}

func (l sessionListener) SessionCompleted(s machine.SessionResult) {
	l.g.logger.Info("session completed", "games", s.GamesPlayed, "average", s.AverageSeconds, "timed_out", s.TimedOut)
	l.g.pending = append(l.g.pending, s)
	if s.GamesPlayed > 0 && (!l.g.hasBest || s.RankSeconds < l.g.best) {
		l.g.best = s.RankSeconds
		l.g.hasBest = true
	}
}
