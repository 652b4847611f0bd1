package core

import "github.com/vovakirdan/reaction-arcade/internal/reaction"

// DefaultTickRate matches the cabinet's 10ms tick.
const DefaultTickRate = 100

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second
	Seed     int64  // RNG seed for deterministic gameplay
	Player   string // Name stored with results; the SSH user when remote

	// Difficulty overrides the package-wide preset for this instance when set.
	Difficulty string
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Best result so far; lower is better for timed games
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Sessions completed during this tick, reported exactly once.
	Sessions []reaction.SessionResult
}
