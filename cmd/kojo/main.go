// kojo is a terminal arcade built around a tile-matching puzzle and a
// leaderboard shared by every player.
//
// Usage:
//
//	kojo list               - List available activities
//	kojo play [activity]    - Play an activity, or pick one from the menu
//	kojo scores             - Show the shared leaderboard
//	kojo serve              - Serve kojo over SSH (and optionally HTTP)
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.kojo/config.yaml)
//	--player <name> - Name scores are recorded under
//	--fps <rate>    - Tick rate (default: 30)
//	--seed <value>  - RNG seed for reproducible boards
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kojo/internal/config"

	// Import activities to register them
	_ "github.com/vovakirdan/kojo/internal/games/candy"
)

var (
	// Global flags
	flagConfig string
	flagPlayer string
	flagFPS    int
	flagSeed   int64

	appConfig config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kojo",
	Short: "Kojo - match tiles, climb the shared leaderboard",
	Long: `Kojo is a terminal arcade. Pop runs of three or more matching tiles
on the candy board; every point adds to your running total, and your best
total is kept on a leaderboard shared by everyone using the same storage.

Available commands:
  list     - Show all available activities
  play     - Play an activity (menu when none is given)
  scores   - View the leaderboard and session history
  serve    - Start the SSH server for remote play

Examples:
  kojo list
  kojo play
  kojo play candy --player ann
  kojo scores --history
  kojo serve --ssh :2222 --http :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagPlayer != "" {
			cfg.Leaderboard.Player = flagPlayer
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (overrides leaderboard.player)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
