package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/reaction-arcade/internal/script"
)

var flagSimQuiet bool

var simulateCmd = &cobra.Command{
	Use:   "simulate <script.yaml>",
	Short: "Run an event script without a terminal",
	Long: `Feed coin, go and tick events from a YAML script into a fresh
controller and print the display after every step. Steps starting with
"expect" or "mode" assert the current display or mode; a failed assertion
exits non-zero.

Script format:
  seed: 7            # used by the uniform and legacy sources
  random: fixed      # fixed, uniform or legacy
  wait: 150          # ticks returned by the fixed source
  steps:
    - coin
    - go
    - tick 150
    - mode Running
    - tick 164
    - go
    - expect 1.64

Examples:
  reaction simulate scripts/three_games.yaml
  reaction simulate --difficulty hard my_script.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Only report failures")
}

func runSimulate(_ *cobra.Command, args []string) error {
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	timing, err := cabinetTiming()
	if err != nil {
		return err
	}

	trace, err := script.Run(s, timing)
	if !flagSimQuiet || err != nil {
		fmt.Print(trace)
	}
	if errors.Is(err, script.ErrExpectation) {
		return fmt.Errorf("simulation failed: %w", err)
	}
	if err != nil {
		return err
	}

	if !flagSimQuiet {
		fmt.Printf("ok: %d steps, %d display updates\n", len(trace.Entries), len(trace.Displays))
	}
	return nil
}
