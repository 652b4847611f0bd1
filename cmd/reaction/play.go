package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/reaction-arcade/internal/config"
	cabinet "github.com/vovakirdan/reaction-arcade/internal/games/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/mirror"
	"github.com/vovakirdan/reaction-arcade/internal/platform/tui"
	"github.com/vovakirdan/reaction-arcade/internal/registry"
	"github.com/vovakirdan/reaction-arcade/internal/storage"
)

var flagPlayMirror string

var playCmd = &cobra.Command{
	Use:   "play [cabinet]",
	Short: "Play in the terminal",
	Long: `Start the cabinet in Idle. Each coin buys three games.

Controls:
  C/Insert/5    - Insert coin
  Space/Enter/1 - Go / Stop
  Ctrl+S        - Save screenshot
  Esc/B         - Leave the cabinet
  Q/Ctrl+C      - Quit

Difficulty options:
  easy   - 3s reaction window, relaxed timeouts
  normal - 2s reaction window (arcade standard)
  hard   - 1.5s reaction window, short breaks

Examples:
  reaction play
  reaction play --difficulty hard
  reaction play --config ./my-cabinet.yaml
  reaction play --mirror :8090`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayMirror, "mirror", "", "Also serve the display on this address (e.g. :8090)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := cabinet.GameID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown cabinet %q (run 'reaction list')", gameID)
	}

	if !cmd.Flags().Changed("mirror") {
		flagPlayMirror = config.EnvString(config.EnvMirrorAddr, "")
	}
	stopMirror := startMirror(cmd.Context(), flagPlayMirror)
	defer stopMirror()

	width, height := terminalSize()

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	_, err = tui.Run(game, store, runtimeConfig(width, height))
	return err
}

// terminalSize returns the stdout size, or 80x24 when unknown.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// openStore opens the sessions database. The cabinet still works without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		return nil
	}
	return store
}

// startMirror serves the display mirror in the background when addr is set
// and registers its hub with every cabinet created afterwards.
func startMirror(ctx context.Context, addr string) (stop func()) {
	if addr == "" {
		return func() {}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := log.Default().WithPrefix("mirror")
	hub := mirror.NewHub(logger)
	cabinet.AddDisplay(hub)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := mirror.NewServer(addr, hub, logger).ListenAndServe(ctx); err != nil {
			logger.Error("mirror stopped", "err", err)
		}
	}()

	return func() {
		cancel()
		<-done
		cabinet.ClearDisplays()
	}
}
