package config

import (
	_ "embed"

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
)

//go:embed defaults/reaction.yaml
var defaultReactionYAML []byte

// DefaultReactionConfig returns the reference cabinet configuration.
func DefaultReactionConfig() ReactionConfig {
	t := reaction.DefaultTiming()
	return ReactionConfig{
		Timing: TimingConfig{
			MaxReadyDuration:    t.MaxReadyDuration,
			MinReactionDuration: t.MinReactionDuration,
			MaxReactionDuration: t.MaxReactionDuration,
			MaxGameDuration:     t.MaxGameDuration,
			GameOverDuration:    t.GameOverDuration,
			ResultDuration:      t.ResultDuration,
			MaxGames:            t.MaxGames,
			TicksPerSecond:      t.TicksPerSecond,
		},
		Random: RandomConfig{
			Mode: RandomUniform,
		},
		Display: DisplayConfig{
			BigDigits: true,
		},
	}
}
