package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corticalab/neuroplay/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows all games registered on the platform without loading their content.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.Default.ListMetadata()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
		if len(g.Name) > maxNameLen {
			maxNameLen = len(g.Name)
		}
	}

	fmt.Printf("  %-*s  %-*s  %-10s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Category", "Modes")
	fmt.Printf("  %-*s  %-*s  %-10s  %s\n", maxIDLen, "--", maxNameLen, "----", "--------", "-----")

	for _, g := range games {
		modes := make([]string, len(g.Modes))
		for i, m := range g.Modes {
			modes[i] = string(m)
		}
		fmt.Printf("  %-*s  %-*s  %-10s  %s\n",
			maxIDLen, g.ID, maxNameLen, g.Name, g.Category, strings.Join(modes, ", "))
	}

	fmt.Println()
	fmt.Println("Run 'neuroplay play <id>' to start a session.")
}
