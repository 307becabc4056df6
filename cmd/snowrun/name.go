package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snowrun/internal/platform/tui"
	"github.com/vovakirdan/snowrun/internal/storage"
)

var nameCmd = &cobra.Command{
	Use:   "name [name]",
	Short: "Show or change the rider name",
	Long: `Set the name recorded with your runs. Without an argument an
input prompt opens.

Examples:
  snowrun name
  snowrun name Shaun`,
	Args: cobra.MaximumNArgs(1),
	Run:  runName,
}

func runName(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		if err := tui.SavePlayerName(store, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
	} else {
		width := runtimeConfig().ScreenW
		if _, err := tui.RunNameEntry(store, width); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
	}

	name, _ := store.GetString(storage.KeyPlayerName, "Player")
	fmt.Printf("Rider: %s\n", name)
}
