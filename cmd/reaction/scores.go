package main

import (
	"fmt"

	"github.com/spf13/cobra"

	cabinet "github.com/vovakirdan/reaction-arcade/internal/games/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRounds bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best session averages",
	Long: `Display the best sessions, lowest average first.
A round that timed out counts its full running time when ranking.

Examples:
  reaction scores
  reaction scores --limit 20 --rounds
  reaction scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of sessions to show")
	scoresCmd.Flags().BoolVar(&flagScoresRounds, "rounds", false, "Show each game of every session")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all stored sessions")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearSessions(cabinet.GameID); err != nil {
			return err
		}
		fmt.Println("All sessions deleted.")
		return nil
	}

	sessions, err := store.BestSessions(cabinet.GameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Println("Best Averages - Reaction Timer")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'reaction play' to set the first time!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-5s  %-12s  %s\n", "Rank", "Average", "Misses", "Games", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-5s  %-12s  %s\n", "----", "-------", "------", "-----", "------", "----")

	tps := reaction.DefaultTiming().TicksPerSecond
	for i, s := range sessions {
		fmt.Printf("  %-4d  %-8s  %-6d  %-5d  %-12s  %s\n",
			i+1, fmt.Sprintf("%.2fs", s.AverageSeconds), s.TimedOut, s.Games, s.Player, s.CreatedAt.Format("2006-01-02 15:04"))

		if !flagScoresRounds {
			continue
		}
		rounds, err := store.SessionRounds(s.ID)
		if err != nil {
			return err
		}
		for _, r := range rounds {
			note := ""
			if r.TimedOut {
				note = " timed out"
			}
			fmt.Printf("          game %d: %ss%s\n", r.Game, reaction.FormatSeconds(r.ReactionTicks, tps), note)
		}
	}

	sum, err := store.Summary(cabinet.GameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %.2fs   Mean: %.2fs   Sessions: %d\n", sum.Best, sum.Mean, sum.Sessions)
	return nil
}
