package reaction

import (
	"errors"
	"fmt"
)

// Display texts shown on mode entry.
const (
	TextInsertCoin     = "Insert Coin"
	TextPressGo        = "Press Go!"
	TextWait           = "Wait..."
	TextMaxGamesPlayed = "Max games played"
)

var (
	// ErrNotConnected is returned when Init runs before collaborators are wired.
	ErrNotConnected = errors.New("reaction: controller not connected")
	// ErrNotInitialized is returned when an event arrives before Init.
	ErrNotInitialized = errors.New("reaction: controller not initialized")
)

// RoundResult describes one finished game inside a coin cycle.
type RoundResult struct {
	Game          int  // 1-based game number within the cycle
	ReactionTicks int  // ticks spent in Running
	TimedOut      bool // Running hit MaxGameDuration without a press
}

// SessionResult summarizes a coin cycle when Result is entered.
type SessionResult struct {
	Rounds          []RoundResult
	CumulativeTicks int
	GamesPlayed     int
	AverageSeconds  float64

	// TimedOut counts rounds that ended without a press.
	TimedOut int
	// RankSeconds is the average with every timed-out round charged its full
	// Running length. Leaderboards order by it; the display keeps AverageSeconds.
	RankSeconds float64
}

// Listener observes controller activity. All methods run synchronously
// inside the event call that caused them.
type Listener interface {
	ModeChanged(from, to Mode)
	RoundFinished(r RoundResult)
	SessionCompleted(s SessionResult)
}

// Status is a point-in-time copy of the controller state.
type Status struct {
	Mode                    Mode
	TickCounter             int
	GamesPlayed             int
	CumulativeReactionTicks int
	WaitTicks               int // sampled wait; only meaningful in Waiting
	Display                 string
}

// state is the active mode plus its per-instance payload.
type state struct {
	mode      Mode
	waitTicks int
}

// Controller is the reaction game state machine.
// It is not safe for concurrent use; events must be delivered one at a time.
type Controller struct {
	timing   Timing
	display  Display
	random   Random
	listener Listener

	connected   bool
	initialized bool

	state       state
	tickCounter int
	gamesPlayed int
	cumulative  int
	rounds      []RoundResult
	lastDisplay string
}

// NewController creates a controller with the given timing.
// A zero Timing selects DefaultTiming.
func NewController(t Timing) (*Controller, error) {
	if t.IsZero() {
		t = DefaultTiming()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Controller{timing: t}, nil
}

// Connect wires the display sink and random source. Must precede Init.
func (c *Controller) Connect(display Display, random Random) error {
	if display == nil || random == nil {
		return fmt.Errorf("%w: display and random source are required", ErrNotConnected)
	}
	c.display = display
	c.random = random
	c.connected = true
	return nil
}

// SetListener registers an observer. Pass nil to remove it.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// Init (re)sets the controller to Idle with all counters zeroed.
func (c *Controller) Init() error {
	if !c.connected {
		return ErrNotConnected
	}
	c.clearSession()
	c.initialized = true
	c.enter(ModeIdle)
	return nil
}

// CoinInserted handles a coin insertion.
func (c *Controller) CoinInserted() error {
	if !c.initialized {
		return ErrNotInitialized
	}

	switch c.state.mode {
	case ModeIdle:
		if c.gamesPlayed < c.timing.MaxGames {
			c.enter(ModeReady)
			return nil
		}
		c.show(TextMaxGamesPlayed)
		c.enter(ModeGameOver)
	case ModeResult:
		c.finishCycle()
	}
	return nil
}

// GoStopPressed handles a press of the Go/Stop button.
func (c *Controller) GoStopPressed() error {
	if !c.initialized {
		return ErrNotInitialized
	}

	switch c.state.mode {
	case ModeReady:
		c.enter(ModeWaiting)
	case ModeWaiting:
		// Pressed before the light: abort back to Idle.
		c.enter(ModeIdle)
	case ModeRunning:
		c.cumulative += c.tickCounter
		c.finishRound(false)
	case ModeGameOver:
		c.advanceFromGameOver()
	case ModeResult:
		c.finishCycle()
	}
	return nil
}

// Tick advances time by one tick.
func (c *Controller) Tick() error {
	if !c.initialized {
		return ErrNotInitialized
	}

	switch c.state.mode {
	case ModeIdle:
		return nil
	case ModeReady:
		c.tickCounter++
		if c.tickCounter >= c.timing.MaxReadyDuration {
			c.enter(ModeIdle)
		}
	case ModeWaiting:
		c.tickCounter++
		if c.tickCounter >= c.state.waitTicks {
			c.gamesPlayed++
			c.enter(ModeRunning)
		}
	case ModeRunning:
		c.tickCounter++
		c.show(FormatSeconds(c.tickCounter, c.timing.TicksPerSecond))
		if c.tickCounter >= c.timing.MaxGameDuration {
			c.finishRound(true)
		}
	case ModeGameOver:
		c.tickCounter++
		if c.tickCounter >= c.timing.GameOverDuration {
			c.advanceFromGameOver()
		}
	case ModeResult:
		c.tickCounter++
		if c.tickCounter >= c.timing.ResultDuration {
			c.finishCycle()
		}
	}
	return nil
}

// Dispatch routes an Event to the matching entry point.
func (c *Controller) Dispatch(ev Event) error {
	switch ev {
	case EventCoin:
		return c.CoinInserted()
	case EventGoStop:
		return c.GoStopPressed()
	case EventTick:
		return c.Tick()
	default:
		return fmt.Errorf("reaction: cannot dispatch event %d", int(ev))
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.state.mode
}

// Timing returns the controller's timing.
func (c *Controller) Timing() Timing {
	return c.timing
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() Status {
	return Status{
		Mode:                    c.state.mode,
		TickCounter:             c.tickCounter,
		GamesPlayed:             c.gamesPlayed,
		CumulativeReactionTicks: c.cumulative,
		WaitTicks:               c.state.waitTicks,
		Display:                 c.lastDisplay,
	}
}

// enter makes next the active mode and runs its entry action.
func (c *Controller) enter(next Mode) {
	from := c.state.mode
	c.state = state{mode: next}
	c.tickCounter = 0

	switch next {
	case ModeIdle:
		c.show(TextInsertCoin)
	case ModeReady:
		c.show(TextPressGo)
	case ModeWaiting:
		c.show(TextWait)
		wait := c.random.GetRandom(c.timing.MinReactionDuration, c.timing.MaxReactionDuration)
		if wait < 1 {
			wait = 1
		}
		c.state.waitTicks = wait
	case ModeRunning:
		c.show(FormatSeconds(0, c.timing.TicksPerSecond))
	case ModeGameOver:
		// Display from Running stays latched.
	case ModeResult:
		avg := c.averageSeconds()
		c.show(FormatAverage(avg))
		c.notifySession(avg)
	}

	if c.listener != nil {
		c.listener.ModeChanged(from, next)
	}
}

// advanceFromGameOver starts the next game or shows the session result.
func (c *Controller) advanceFromGameOver() {
	if c.gamesPlayed < c.timing.MaxGames {
		c.enter(ModeWaiting)
		return
	}
	c.enter(ModeResult)
}

// finishRound records the Running outcome and latches GameOver.
func (c *Controller) finishRound(timedOut bool) {
	r := RoundResult{
		Game:          c.gamesPlayed,
		ReactionTicks: c.tickCounter,
		TimedOut:      timedOut,
	}
	c.rounds = append(c.rounds, r)
	if c.listener != nil {
		c.listener.RoundFinished(r)
	}
	c.enter(ModeGameOver)
}

// finishCycle ends a coin cycle: counters are cleared before Idle is shown.
func (c *Controller) finishCycle() {
	c.clearSession()
	c.enter(ModeIdle)
}

func (c *Controller) clearSession() {
	c.gamesPlayed = 0
	c.cumulative = 0
	c.rounds = nil
}

func (c *Controller) averageSeconds() float64 {
	if c.gamesPlayed == 0 {
		return 0
	}
	return float64(c.cumulative) / float64(c.gamesPlayed) / c.timing.TicksPerSecond
}

func (c *Controller) notifySession(avg float64) {
	if c.listener == nil {
		return
	}
	rounds := make([]RoundResult, len(c.rounds))
	copy(rounds, c.rounds)
	res := SessionResult{
		Rounds:          rounds,
		CumulativeTicks: c.cumulative,
		GamesPlayed:     c.gamesPlayed,
		AverageSeconds:  avg,
	}
	charged := 0
	for _, r := range rounds {
		if r.TimedOut {
			res.TimedOut++
		}
		charged += r.ReactionTicks
	}
	if c.gamesPlayed > 0 {
		res.RankSeconds = float64(charged) / float64(c.gamesPlayed) / c.timing.TicksPerSecond
	}
	c.listener.SessionCompleted(res)
}

func (c *Controller) show(text string) {
	c.lastDisplay = text
	c.display.SetDisplay(text)
}
