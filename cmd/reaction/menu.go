package main

import (
	"time"

	"github.com/spf13/cobra"

	cabinet "github.com/vovakirdan/reaction-arcade/internal/games/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/platform/tui"
	"github.com/vovakirdan/reaction-arcade/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a difficulty, play, and browse scores",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to pick a difficulty, Enter to play.
Leaving the cabinet with Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  reaction menu
  reaction menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	cfg := runtimeConfig(terminalSize())

	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config
		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(cabinet.GameID)
		if err != nil {
			return err
		}

		// A fresh seed per visit unless --seed pinned it.
		play := cfg
		if play.Seed == 0 {
			play.Seed = time.Now().UnixNano()
		}
		backToMenu, err := tui.Run(game, store, play)
		if err != nil {
			return err
		}
		if !backToMenu {
			return nil
		}
	}
}
