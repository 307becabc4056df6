package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snowrun/internal/registry"
	"github.com/vovakirdan/snowrun/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresPlayer string
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the best runs",
	Long: `Display the best recorded runs, for one mode or across all modes.

Examples:
  snowrun scores
  snowrun scores time_trial
  snowrun scores endless --limit 20
  snowrun scores --player Shaun
  snowrun scores endless --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show the latest runs of one rider instead")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the run history of the given mode")
}

func runScores(_ *cobra.Command, args []string) {
	mode := ""
	title := "All modes"
	if len(args) == 1 {
		mode = args[0]
		if !registry.Exists(mode) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
			fmt.Fprintln(os.Stderr, "Run 'snowrun list' to see available modes.")
			os.Exit(1)
		}
		title = registry.Title(mode)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if mode == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a mode")
			return
		}
		if err := store.ClearRuns(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("Cleared run history of %s.\n", title)
		return
	}

	var runs []storage.RunRecord
	if flagScoresPlayer != "" {
		title = "Latest runs of " + flagScoresPlayer
		runs, err = store.RecentRuns(flagScoresPlayer, flagScoresLimit)
	} else {
		runs, err = store.TopRuns(mode, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	if flagScoresPlayer == "" {
		title = "Best runs - " + title
	}
	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snowrun play' to set the first score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %-8s  %-6s  %-8s  %-7s  %s\n", "Rank", "Rider", "Mode", "Score", "Tricks", "Dist", "End", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %-8s  %-6s  %-8s  %-7s  %s\n", "----", "-----", "----", "-----", "------", "----", "---", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-16s  %-10s  %-8d  %-6d  %-8.0f  %-7s  %s\n",
			i+1, r.Player, r.Mode, r.Score, r.Tricks, r.Distance, r.EndReason, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if mode != "" && flagScoresPlayer == "" {
		fmt.Println()
		if best, err := store.BestScore(mode); err == nil {
			fmt.Printf("Best: %d\n", best)
		}
	}
}
