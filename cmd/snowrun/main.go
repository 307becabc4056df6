// snowrun is a downhill snowboarding game for the terminal.
//
// Usage:
//
//	snowrun list             - List game modes
//	snowrun play [mode]      - Start a run
//	snowrun menu             - Start the interactive menu
//	snowrun scores [mode]    - Show the best runs
//	snowrun leaderboard      - Show the local top riders
//	snowrun name [name]      - Show or change the rider name
//	snowrun serve            - Start SSH server for remote play
//	snowrun config           - Print the default configuration
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.snowrun/snowrun.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register its modes
	_ "github.com/vovakirdan/snowrun/internal/snowboard"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snowrun",
	Short: "Snowrun - ride downhill in your terminal",
	Long: `Snowrun is a side-scrolling snowboarding game for the terminal.
Ride an endless slope or race the clock to the finish line, spin
in the air for trick points and collect power-ups on the way.

Available commands:
  list     - Show the game modes
  play     - Start a run directly
  menu     - Interactive menu
  scores   - View the best runs
  leaderboard - View the local top riders
  name     - Show or change the rider name
  serve    - Start SSH server for remote play
  config   - Print the default configuration

Examples:
  snowrun play
  snowrun play endless --difficulty hard
  snowrun menu
  snowrun serve --ssh :2222
  snowrun scores time_trial`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snowrun/snowrun.db", "Path to the database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
