package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/reaction-arcade/internal/config"
	"github.com/vovakirdan/reaction-arcade/internal/mirror"
	"github.com/vovakirdan/reaction-arcade/internal/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/script"
)

var (
	flagMirrorAddr string
	flagMirrorLoop bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror [script.yaml]",
	Short: "Serve the live display over websockets",
	Long: `Start the display mirror: a web page at / plus a websocket feed at /ws
that receives every display update as JSON.

With a script argument, the script is played in real time at --tick-rate
and streamed to every viewer, which is handy for attract mode or for
checking a display board. Without one, the server only idles; use
'reaction play --mirror' or 'reaction serve --mirror' to stream real play.

Routes:
  GET /             - Viewer page
  GET /ws           - Websocket feed {"t":"display","text":...,"seq":n}
  GET /api/display  - Latest display as JSON
  GET /healthz      - Health check

Examples:
  reaction mirror --addr :8090
  reaction mirror --loop scripts/three_games.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().StringVar(&flagMirrorAddr, "addr", ":8090", "HTTP listen address")
	mirrorCmd.Flags().BoolVar(&flagMirrorLoop, "loop", false, "Replay the script until stopped")
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cmd.Flags().Changed("addr") {
		flagMirrorAddr = config.EnvString(config.EnvMirrorAddr, flagMirrorAddr)
	}

	logger := log.Default().WithPrefix("mirror")
	hub := mirror.NewHub(logger)

	if len(args) == 1 {
		s, err := script.Load(args[0])
		if err != nil {
			return err
		}
		timing, err := cabinetTiming()
		if err != nil {
			return err
		}
		go replay(ctx, s, timing, hub, logger)
	}

	return mirror.NewServer(flagMirrorAddr, hub, logger).ListenAndServe(ctx)
}

func replay(ctx context.Context, s script.Script, timing reaction.Timing, hub *mirror.Hub, logger *log.Logger) {
	for {
		trace, err := script.Play(ctx, s, timing, hub, flagTickRate)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			logger.Error("script failed", "err", err)
			return
		}
		logger.Info("script finished", "steps", len(trace.Entries), "sessions", len(trace.Sessions))
		if !flagMirrorLoop {
			return
		}
	}
}
