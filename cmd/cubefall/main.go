// cubefall is a three-dimensional falling-block puzzle for the terminal.
//
// Usage:
//
//	cubefall play              - Play in the terminal
//	cubefall serve             - Start SSH server for remote play
//	cubefall autoplay          - Let the bot play and record replays
//	cubefall replays           - Browse recorded replays
//	cubefall replay <id>       - Re-simulate and verify one replay
//	cubefall shapes            - List the piece catalog
//	cubefall config init|path  - Manage the config file
//
// Global flags:
//
//	--seed <value>   - Set RNG seed for a reproducible piece sequence
//	--db <path>      - Set replay database path (default: from config)
//	--config <path>  - Use a specific config file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefall/internal/config"
	"github.com/vovakirdan/cubefall/internal/storage"
)

var (
	// Global flags
	flagSeed   int64
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
	Use:   "cubefall",
	Short: "Cubefall - falling blocks in three dimensions",
	Long: `Cubefall is a falling-block puzzle played in a 3D well, drawn in the
terminal as front, side and top projections. Fill a whole horizontal layer
to clear it.

Available commands:
  play      - Play in the terminal
  serve     - Start SSH server for remote play
  autoplay  - Watch the bot play
  replays   - Browse recorded replays
  replay    - Verify a recorded replay
  shapes    - Show the piece catalog
  config    - Write or locate the config file

Examples:
  cubefall play
  cubefall play --difficulty hard --seed 7
  cubefall serve --ssh :2222
  cubefall autoplay --games 3 --speed 20
  cubefall replay 12`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to replay database (default: replays.path from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(autoplayCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(shapesCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration selected by --config.
func loadConfig() (config.CubefallConfig, error) {
	return config.Load(flagConfig)
}

// dbPath returns the replay database path: --db wins over the config.
func dbPath(cfg config.CubefallConfig) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.Replays.Path
}

// openStore opens the replay database, or returns nil with a warning on
// stderr when replays are disabled or the database is unavailable.
func openStore(cfg config.CubefallConfig) *storage.Store {
	if !cfg.Replays.Enabled {
		return nil
	}
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		// Continue without storage - game still works
		return nil
	}
	return store
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
