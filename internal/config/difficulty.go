package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s), nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
}

// Description returns a one-line summary for menus.
func (p DifficultyPreset) Description() string {
	switch p {
	case DifficultyEasy:
		return "3s reaction window, relaxed timeouts"
	case DifficultyHard:
		return "1.5s reaction window, short breaks"
	default:
		return "2s reaction window (arcade standard)"
	}
}

// ApplyReactionPreset adjusts timing for a difficulty preset.
// Normal leaves the loaded config untouched.
func ApplyReactionPreset(cfg *ReactionConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Timing.MaxGameDuration = 300
		cfg.Timing.MaxReadyDuration = 1500
		cfg.Timing.GameOverDuration = 400
	case DifficultyHard:
		cfg.Timing.MaxGameDuration = 150
		cfg.Timing.GameOverDuration = 200
		cfg.Timing.MinReactionDuration = 50
	}
}
