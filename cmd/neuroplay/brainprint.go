package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corticalab/neuroplay/internal/brainprint"
	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/runner"
	"github.com/corticalab/neuroplay/internal/storage"
)

var brainprintCmd = &cobra.Command{
	Use:   "brainprint",
	Short: "Show the accumulated skill profile",
	Long: `Display the user's brainprint: every skill dimension observed so far
with its running average and sample count.

Examples:
  neuroplay brainprint
  neuroplay brainprint --user alice`,
	Args: cobra.NoArgs,
	Run:  runBrainprint,
}

func runBrainprint(cmd *cobra.Command, args []string) {
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

	stored, err := store.LoadProfile(flagUser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}

	agg := brainprint.Restore(flagUser, stored)
	dims := agg.Dimensions()

	fmt.Printf("Brainprint - %s\n", flagUser)
	fmt.Println()

	if len(dims) == 0 {
		fmt.Println("No skill signals recorded yet.")
		fmt.Println()
		fmt.Println("Run 'neuroplay play <game>' to start building a profile.")
		return
	}

	maxIDLen := 9 // "Dimension" header
	for _, d := range dims {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "Dimension", "Score", "Samples")
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "---------", "-----", "-------")
	for _, d := range dims {
		fmt.Printf("  %-*s  %-6.1f  %d\n", maxIDLen, d.ID, d.Score, d.SampleCount)
	}
}

// updateBrainprint folds a finished session's skill signals into the
// stored profile. One-shot, journey and arena contribute their session
// summary; endurance contributes each game's summary separately.
func updateBrainprint(store *storage.Store, session *runner.Session, ctx core.Context) error {
	stored, err := store.LoadProfile(ctx.UserID)
	if err != nil {
		return err
	}
	agg := brainprint.Restore(ctx.UserID, stored)

	if summary, ok := session.ModeSummary(); ok {
		agg.Observe(summary)
	} else {
		for _, res := range session.Results() {
			agg.Observe(res.Summary)
		}
	}

	return agg.Persist(store)
}

func sortedSignalIDs(signals map[string]float64) []string {
	ids := make([]string, 0, len(signals))
	for id := range signals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
