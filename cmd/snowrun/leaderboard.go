package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snowrun/internal/platform/tui"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the local top riders",
	Long: `Display the leaderboard shown at the end of each run. Your own row
is marked.

Examples:
  snowrun leaderboard
  snowrun leaderboard --db ./snowrun.db`,
	Args: cobra.NoArgs,
	Run:  runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	top := tui.LoadRanking(s.env)
	fmt.Println("Leaderboard")
	fmt.Println()

	if len(top.Entries) == 0 {
		fmt.Println("No leaderboard available.")
		return
	}
	for _, line := range top.Lines() {
		fmt.Println("  " + line)
	}

	if top.Rank() == 0 {
		fmt.Println()
		fmt.Printf("%s is not on the board yet. Run 'snowrun play' to get there!\n", top.Player)
	}
}
