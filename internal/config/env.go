package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override CLI flag defaults.
const (
	EnvDBPath     = "ARCADE_DB"
	EnvTickRate   = "ARCADE_TICK_RATE"
	EnvSeed       = "ARCADE_SEED"
	EnvMirrorAddr = "ARCADE_MIRROR_ADDR"
	EnvLogLevel   = "ARCADE_LOG_LEVEL"
	EnvConfig     = "ARCADE_CONFIG"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// EnvString returns the variable's value, or fallback when unset or empty.
func EnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt returns the variable parsed as an int, or fallback.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// EnvInt64 returns the variable parsed as an int64, or fallback.
func EnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}
