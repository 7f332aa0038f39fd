// neuroplay is a cognitive-assessment game platform. Short word games
// generate skill signals that accumulate into a per-user brainprint.
//
// Usage:
//
//	neuroplay list                    - List available games
//	neuroplay play <game>...          - Run a session (auto-played)
//	neuroplay scores <game>           - Show recent results for a game
//	neuroplay brainprint              - Show the accumulated skill profile
//
// Global flags:
//
//	--seed <value>  - RNG seed for reproducible sessions (0 = time-based)
//	--user <id>     - User identifier (default: local)
//	--db <path>     - Database path (default from config)
//	--config <path> - Path to a custom config YAML
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/corticalab/neuroplay/internal/config"

	// Import games to register them
	_ "github.com/corticalab/neuroplay/internal/games/flashgrid"
	_ "github.com/corticalab/neuroplay/internal/games/heatseek"
	_ "github.com/corticalab/neuroplay/internal/games/rareword"
	_ "github.com/corticalab/neuroplay/internal/games/wordbridge"
)

var (
	// Global flags
	flagSeed   int64
	flagUser   string
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neuroplay",
	Short: "NeuroPlay - cognitive assessment through word games",
	Long: `NeuroPlay runs short cognitive games and accumulates the skill
signals they produce into a per-user brainprint.

Available commands:
  list        - Show all available games
  play        - Run a game session in a chosen mode
  scores      - View recent results and stats for a game
  brainprint  - View the accumulated skill profile

Examples:
  neuroplay list
  neuroplay play wordbridge
  neuroplay play heatseek --mode journey --seed 42
  neuroplay play wordbridge rareword flashgrid --mode endurance
  neuroplay scores wordbridge
  neuroplay brainprint`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "local", "User identifier")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(brainprintCmd)
}

// loadConfig resolves the effective configuration: file/env config with
// command-line overrides applied on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "neuroplay",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
