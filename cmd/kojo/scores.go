package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/kojo/internal/platform/tui"
)

var (
	flagHistory     bool
	flagStats       bool
	flagInteractive bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the shared leaderboard",
	Long: `Display the shared leaderboard. With the sqlite backend, --history
lists the best recorded sessions and --stats summarises every player.

Examples:
  kojo scores
  kojo scores --history --limit 20
  kojo scores --stats
  kojo scores --interactive`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagHistory, "history", false, "Show the best recorded sessions")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-player statistics")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table view")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions for --history")
}

func runScores(_ *cobra.Command, _ []string) error {
	logger := stderrLogger()
	backend := openBackend(logger)
	defer backend.Close()

	scores := newScoreService(backend, "", logger)
	defer scores.Close(context.Background())
	lb := scores.Load(context.Background())
	player := scores.Player()

	if flagInteractive {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		data := tui.ScoreboardData{Leaderboard: lb, Player: player}
		if backend.History != nil {
			history, err := backend.History.PlayerHistory(player, flagLimit)
			if err != nil {
				logger.Warn("could not load history", "err", err)
			}
			data.History = history
		}
		return tui.RunScoreboard(data, width, height)
	}

	fmt.Printf("Leaderboard (%s)\n", backend.Name)
	fmt.Println()
	if len(lb) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'kojo play' to set the first score!")
	} else {
		fmt.Printf("  %-4s  %-20s  %s\n", "Rank", "Player", "Score")
		fmt.Printf("  %-4s  %-20s  %s\n", "----", "------", "-----")
		for i, e := range lb {
			marker := ""
			if e.Name == player {
				marker = "  <- you"
			}
			fmt.Printf("  %-4d  %-20s  %d%s\n", i+1, e.Name, e.Score, marker)
		}
	}

	if !flagHistory && !flagStats {
		return nil
	}
	if backend.History == nil {
		return fmt.Errorf("the %s backend keeps no session history", backend.Name)
	}

	if flagHistory {
		entries, err := backend.History.TopScores(flagLimit)
		if err != nil {
			return fmt.Errorf("retrieving sessions: %w", err)
		}
		fmt.Println()
		fmt.Println("Best sessions")
		fmt.Println()
		fmt.Printf("  %-4s  %-20s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
		fmt.Printf("  %-4s  %-20s  %-10s  %s\n", "----", "------", "-----", "----")
		for i, e := range entries {
			fmt.Printf("  %-4d  %-20s  %-10d  %s\n", i+1, e.Player, e.Score, e.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	if flagStats {
		stats, err := backend.History.Stats()
		if err != nil {
			return fmt.Errorf("retrieving stats: %w", err)
		}
		fmt.Println()
		fmt.Println("Players")
		fmt.Println()
		fmt.Printf("  %-20s  %-8s  %-6s  %-8s  %s\n", "Player", "Sessions", "Best", "Average", "Last played")
		for _, s := range stats {
			fmt.Printf("  %-20s  %-8d  %-6d  %-8.1f  %s\n",
				s.Player, s.Sessions, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
