package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show recent results for a game",
	Long: `Display the most recent session results and aggregate stats for the
specified game.

Examples:
  neuroplay scores wordbridge
  neuroplay scores heatseek`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	meta, err := registry.Default.Metadata(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'neuroplay list' to see available games.")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.RecentSessions(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recent Results - %s\n", meta.Name)
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'neuroplay play %s' to record the first one!\n", gameID)
		return
	}

	fmt.Printf("  %-10s  %-6s  %-8s  %s\n", "Mode", "Score", "User", "Date")
	fmt.Printf("  %-10s  %-6s  %-8s  %s\n", "----", "-----", "----", "----")
	for _, rec := range records {
		dateStr := rec.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-10s  %-6d  %-8s  %s\n", rec.Mode, rec.Score, rec.UserID, dateStr)
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Sessions: %d   Best: %d   Average: %.1f\n",
		stats.Sessions, stats.HighScore, stats.AvgScore)
}
