// Package config provides YAML-based cabinet configuration, difficulty
// presets and environment overrides for the arcade.
package config

import (
	"fmt"

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
)

// Random source modes.
const (
	RandomUniform = "uniform"
	RandomLegacy  = "legacy"
)

// ReactionConfig contains all configuration for the Reaction Timer cabinet.
type ReactionConfig struct {
	Timing  TimingConfig  `yaml:"timing"`
	Random  RandomConfig  `yaml:"random"`
	Display DisplayConfig `yaml:"display"`
}

// TimingConfig mirrors reaction.Timing with YAML names. All values in ticks.
type TimingConfig struct {
	MaxReadyDuration    int     `yaml:"max_ready_duration"`
	MinReactionDuration int     `yaml:"min_reaction_duration"`
	MaxReactionDuration int     `yaml:"max_reaction_duration"`
	MaxGameDuration     int     `yaml:"max_game_duration"`
	GameOverDuration    int     `yaml:"gameover_duration"`
	ResultDuration      int     `yaml:"result_duration"`
	MaxGames            int     `yaml:"max_games"`
	TicksPerSecond      float64 `yaml:"ticks_per_second"`
}

// RandomConfig selects how the pre-reaction wait is sampled.
type RandomConfig struct {
	Mode string `yaml:"mode"` // "uniform" or "legacy"
}

// DisplayConfig tunes the terminal rendering.
type DisplayConfig struct {
	BigDigits bool `yaml:"big_digits"`
}

// ToTiming converts the YAML section into controller timing.
func (t TimingConfig) ToTiming() reaction.Timing {
	return reaction.Timing{
		MaxReadyDuration:    t.MaxReadyDuration,
		MinReactionDuration: t.MinReactionDuration,
		MaxReactionDuration: t.MaxReactionDuration,
		MaxGameDuration:     t.MaxGameDuration,
		GameOverDuration:    t.GameOverDuration,
		ResultDuration:      t.ResultDuration,
		MaxGames:            t.MaxGames,
		TicksPerSecond:      t.TicksPerSecond,
	}
}

// Validate checks the whole config.
func (c ReactionConfig) Validate() error {
	if err := c.Timing.ToTiming().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Random.Mode {
	case "", RandomUniform, RandomLegacy:
	default:
		return fmt.Errorf("config: unknown random mode %q", c.Random.Mode)
	}
	return nil
}

// NewRandom builds the configured random source for a seed.
func (c ReactionConfig) NewRandom(seed int64) reaction.Random {
	if c.Random.Mode == RandomLegacy {
		return reaction.NewLegacyRandom(seed)
	}
	return reaction.NewUniformRandom(seed)
}
