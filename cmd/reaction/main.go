// reaction is a terminal arcade cabinet for the classic reaction-time game:
// insert a coin, press Go, wait for the light, then stop the clock as fast as
// you can. Three games make a session; the average is the score.
//
// Usage:
//
//	reaction list              - List available cabinets
//	reaction play              - Play in the terminal
//	reaction menu              - Pick a difficulty interactively
//	reaction serve             - Start SSH server for remote play
//	reaction scores            - Show best session averages
//	reaction simulate <file>   - Run a YAML event script headlessly
//	reaction mirror            - Serve the live display over websockets
//
// Global flags:
//
//	--tick-rate <n>   - Ticks per second (default: 100, one tick = 10ms)
//	--seed <value>    - RNG seed for reproducible waits
//	--db <path>       - Database path (default: ~/.arcade/scores.db)
//	--config <path>   - Cabinet config YAML
//	--difficulty <p>  - easy, normal or hard
//
// Flag defaults can be overridden with ARCADE_* variables or a .env file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/reaction-arcade/internal/config"
	"github.com/vovakirdan/reaction-arcade/internal/core"
	cabinet "github.com/vovakirdan/reaction-arcade/internal/games/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/reaction"
)

var (
	// Global flags
	flagTickRate   int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reaction",
	Short: "Reaction Timer - a coin-op reflex game for your terminal",
	Long: `Reaction Timer is a terminal arcade cabinet. Insert a coin, press Go,
wait for the clock to start, and stop it as fast as you can.
Each coin buys three games; the session score is your average.

Available commands:
  list      - Show available cabinets
  play      - Play directly
  menu      - Difficulty picker and scoreboard
  serve     - Start SSH server for remote play
  scores    - View best session averages
  simulate  - Run an event script without a terminal
  mirror    - Stream the display to browsers

Examples:
  reaction play
  reaction play --difficulty hard --mirror :8090
  reaction serve --ssh :2222
  reaction simulate scripts/three_games.yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagTickRate, "tick-rate", core.DefaultTickRate, "Ticks per second")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to sessions database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom cabinet config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name stored with results")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for terminal modes (default: discard)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(mirrorCmd)
}

// setup applies .env and environment overrides, then configures logging and
// the cabinet before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("db") {
		flagDBPath = config.EnvString(config.EnvDBPath, flagDBPath)
	}
	if !flags.Changed("tick-rate") {
		flagTickRate = config.EnvInt(config.EnvTickRate, flagTickRate)
	}
	if !flags.Changed("seed") {
		flagSeed = config.EnvInt64(config.EnvSeed, flagSeed)
	}
	if !flags.Changed("config") {
		flagConfig = config.EnvString(config.EnvConfig, flagConfig)
	}
	if !flags.Changed("log-level") {
		flagLogLevel = config.EnvString(config.EnvLogLevel, flagLogLevel)
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	if flagTickRate <= 0 {
		return fmt.Errorf("--tick-rate must be positive, got %d", flagTickRate)
	}

	cabinet.SetConfigPath(flagConfig)
	return cabinet.SetDifficultyPreset(flagDifficulty)
}

// redirectLogs sends logs to --log-file (or nowhere) while a full-screen
// program owns the terminal. The returned func restores stderr.
func redirectLogs() (restore func(), err error) {
	var w io.Writer = io.Discard
	var f *os.File
	if flagLogFile != "" {
		f, err = os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
	}
	log.SetOutput(w)
	return func() {
		log.SetOutput(os.Stderr)
		if f != nil {
			f.Close()
		}
	}, nil
}

// runtimeConfig builds the cabinet runtime from global flags.
func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagTickRate,
		Seed:       flagSeed,
		Player:     flagPlayer,
		Difficulty: flagDifficulty,
	}
}

// cabinetTiming returns the timing the cabinet would use with current flags.
func cabinetTiming() (reaction.Timing, error) {
	cfg, err := config.LoadReaction(flagConfig)
	if err != nil {
		return reaction.Timing{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return reaction.Timing{}, err
	}
	config.ApplyReactionPreset(&cfg, preset)
	return cfg.Timing.ToTiming(), nil
}
