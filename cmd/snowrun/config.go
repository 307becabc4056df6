package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snowrun/internal/config"
)

var (
	flagConfigPath     bool
	flagConfigResolved bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in configuration as YAML. Save it to the user config
path and edit the values to tune physics, terrain and scoring.

Examples:
  snowrun config > ~/.snowrun/configs/snowrun.yaml
  snowrun config --path
  snowrun config --resolved --config ./my-snowrun.yaml`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigPath, "path", false, "Print the user config path instead")
	configCmd.Flags().BoolVar(&flagConfigResolved, "resolved", false, "Print the config as it is loaded, with file overrides applied")
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML (with --resolved)")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset applied with --resolved")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigPath {
		fmt.Println(config.UserConfigPath())
		return
	}

	if !flagConfigResolved {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := gameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
