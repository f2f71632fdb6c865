package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kojo/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available activities",
	Long:  `Shows a list of all activities registered in kojo.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No activities available.")
		return
	}

	fmt.Println("Available activities:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'kojo play <id>' to play an activity.")
}
