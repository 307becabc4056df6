package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snowrun/internal/platform/tui"
	"github.com/vovakirdan/snowrun/internal/registry"
	"github.com/vovakirdan/snowrun/internal/run"
	"github.com/vovakirdan/snowrun/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Start a run",
	Long: `Start a run in the given mode. Without a mode the last played
mode is used (time_trial on first start).

Modes:
  time_trial - Reach the finish line before the clock runs out
  endless    - Ride as far as you can

Keyboard controls:
  D/Right        - Push forward, spin clockwise in the air
  A/Left         - Brake, spin counter-clockwise in the air
  Space/W/Up     - Jump
  S/Down         - Slow down
  P              - Pause
  R              - Restart (after the run is over)
  B/Esc          - Back
  Q/Ctrl+C       - Quit

Touch controls (--input touch, mouse in the terminal):
  Hold right/left half   - Push / brake
  Double tap             - Jump
  Swipe down             - Slow down

Difficulty options:
  easy   - Longer clock, lower top speed, longer shields
  normal - Config values as loaded
  hard   - Shorter clock, faster slope, shorter shields

Examples:
  snowrun play
  snowrun play endless
  snowrun play time_trial --difficulty hard
  snowrun play --input touch
  snowrun play --config ./my-snowrun.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	for _, cmd := range []*cobra.Command{playCmd, menuCmd} {
		cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
		cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
		cmd.Flags().StringVar(&flagInput, "input", "", "Input source: keyboard, touch")
	}
}

// storedMode returns the mode id saved in the GameMode preference.
func storedMode(prefs storage.Prefs) string {
	v, _ := prefs.GetInt(storage.KeyGameMode, run.ModeTimeTrial.PrefValue())
	return run.ModeFromPref(v).String()
}

func runPlay(_ *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	gameID := storedMode(s.env.Prefs)
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if mode exists
	if !registry.Exists(gameID) {
		s.Close()
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'snowrun list' to see available modes.")
		os.Exit(1)
	}
	if mode, ok := run.ParseMode(gameID); ok {
		//nolint:errcheck // Best-effort, only picks the default for next time
		s.env.Prefs.SetInt(storage.KeyGameMode, mode.PrefValue())
	}

	game, err := registry.Create(gameID, s.env)
	if err != nil {
		s.Close()
		fmt.Fprintf(os.Stderr, "Error creating run: %v\n", err)
		os.Exit(1)
	}

	s.env.Logger.Info("run started", "mode", gameID, "seed", flagSeed)
	_, runErr := tui.Run(game, runtimeConfig())

	// Close store before potential exit
	s.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
