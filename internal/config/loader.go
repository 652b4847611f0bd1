package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadReaction loads Reaction Timer configuration.
// Search order: customPath -> ~/.arcade/configs/reaction.yaml -> ./configs/reaction.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys it changes.
func LoadReaction(customPath string) (ReactionConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ReactionConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseReaction(data)
		if err != nil {
			return ReactionConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("reaction.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseReaction(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/reaction.yaml"); err == nil {
		if cfg, err := parseReaction(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseReaction(defaultReactionYAML)
	if err != nil {
		return DefaultReactionConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseReaction decodes YAML over the defaults and validates the result.
func parseReaction(data []byte) (ReactionConfig, error) {
	cfg := DefaultReactionConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ReactionConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ReactionConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
