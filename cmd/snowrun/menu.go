package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snowrun/internal/platform/tui"
	"github.com/vovakirdan/snowrun/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start snowrun with the interactive menu",
	Long: `Start snowrun in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. After a run ends,
press B to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  snowrun menu
  snowrun menu --fps 30
  snowrun menu --db ./snowrun.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	var history tui.RunHistory
	if s.store != nil {
		history = s.store
	}

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(s.env.Prefs, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(history, tui.LoadRanking(s.env), cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.WantsName {
			if _, nameErr := tui.RunNameEntry(s.env.Prefs, cfg.ScreenW); nameErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", nameErr)
			}
			continue
		}

		game, err := registry.Create(menuResult.GameID, s.env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating run: %v\n", err)
			continue
		}

		// New seed for each run unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		s.env.Logger.Info("run started", "mode", menuResult.GameID)
		quit, err := tui.Run(game, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if quit {
			break
		}
	}
}
