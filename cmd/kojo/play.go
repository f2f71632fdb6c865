package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/kojo/internal/platform/tui"
	"github.com/vovakirdan/kojo/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [activity]",
	Short: "Play an activity",
	Long: `Start playing. Without an activity, a menu lists them all and you
return to it after each game.

Controls:
  Arrows/WASD/HJKL - Move the cursor
  Enter/Space      - Pop the run under the cursor (or click a tile)
  Tab              - Leaderboard
  P                - Pause
  R                - New board
  B/Esc            - Back to the menu
  Q/Ctrl+C         - Quit

Examples:
  kojo play
  kojo play candy
  kojo play candy --seed 42 --player ann`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	if len(args) == 1 && !registry.Exists(args[0]) {
		return fmt.Errorf("unknown activity %q, run 'kojo list' to see available activities", args[0])
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	cfg := runtimeConfig(width, height)

	logger, logFile := fileLogger()
	if logFile != nil {
		defer logFile.Close()
	}

	backend := openBackend(logger)
	defer backend.Close()

	scores := newScoreService(backend, "", logger)
	session := tui.StartSession(context.Background(), uuid.NewString(), scores, historyOf(backend), logger)

	if len(args) == 0 {
		return tui.RunSession(session, cfg)
	}

	game, err := registry.Create(args[0])
	if err != nil {
		return err
	}
	return tui.Run(game, session, cfg)
}
