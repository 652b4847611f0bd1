package reaction

import (
	"errors"
	"fmt"
)

// ErrInvalidTiming is returned when a Timing fails validation.
var ErrInvalidTiming = errors.New("reaction: invalid timing")

// Timing holds every duration the state machine uses, in ticks.
type Timing struct {
	MaxReadyDuration    int     // Ready times out back to Idle
	MinReactionDuration int     // lower bound passed to the random source
	MaxReactionDuration int     // upper bound passed to the random source
	MaxGameDuration     int     // Running is forced to GameOver
	GameOverDuration    int     // GameOver auto-advances
	ResultDuration      int     // Result returns to Idle
	MaxGames            int     // games per coin cycle
	TicksPerSecond      float64 // display conversion only; 100 = 10ms per tick
}

// DefaultTiming returns the reference arcade timings.
func DefaultTiming() Timing {
	return Timing{
		MaxReadyDuration:    1000,
		MinReactionDuration: 100,
		MaxReactionDuration: 250,
		MaxGameDuration:     200,
		GameOverDuration:    300,
		ResultDuration:      500,
		MaxGames:            3,
		TicksPerSecond:      100.0,
	}
}

// IsZero reports whether no field has been set.
func (t Timing) IsZero() bool {
	return t == Timing{}
}

// Validate checks that the timing can drive the state machine.
func (t Timing) Validate() error {
	durations := []struct {
		name  string
		value int
	}{
		{"max_ready_duration", t.MaxReadyDuration},
		{"min_reaction_duration", t.MinReactionDuration},
		{"max_reaction_duration", t.MaxReactionDuration},
		{"max_game_duration", t.MaxGameDuration},
		{"gameover_duration", t.GameOverDuration},
		{"result_duration", t.ResultDuration},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidTiming, d.name, d.value)
		}
	}

	if t.MinReactionDuration > t.MaxReactionDuration {
		return fmt.Errorf("%w: min_reaction_duration %d exceeds max_reaction_duration %d",
			ErrInvalidTiming, t.MinReactionDuration, t.MaxReactionDuration)
	}
	if t.MaxGames < 1 {
		return fmt.Errorf("%w: max_games must be at least 1, got %d", ErrInvalidTiming, t.MaxGames)
	}
	if t.TicksPerSecond <= 0 {
		return fmt.Errorf("%w: ticks_per_second must be positive, got %g", ErrInvalidTiming, t.TicksPerSecond)
	}
	return nil
}
