package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cubefall/internal/config"
	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/platform/tui"
)

var (
	flagDifficulty  string
	flagWatchConfig bool
	flagLogFile     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Default controls:
  Left/Right       - Move along x
  Down/Up, Q/E     - Move along z
  F                - Soft drop
  Enter            - Hard drop
  W/S, A/D, Z/X    - Rotate around x, y, z
  Space            - Pause
  N                - New game
  Backspace        - End game
  Shift+Q/Ctrl+C   - Quit
  Ctrl+S           - Screenshot

Difficulty options:
  easy   - 1200ms first-level drop interval
  normal - the configured interval (1000ms by default)
  hard   - 700ms first-level drop interval

Examples:
  cubefall play
  cubefall play --difficulty hard
  cubefall play --config ./my-cubefall.yaml --watch-config
  cubefall play --seed 42 --log-file /tmp/cubefall.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagWatchConfig, "watch-config", false, "Reload the config file when it changes")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write a debug log to this file")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fail("%v", err)
	}
	config.ApplyPreset(&cfg, preset)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var logger *log.Logger
	if flagLogFile != "" {
		f, logErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if logErr != nil {
			fail("cannot open log file: %v", logErr)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          "cubefall",
			Level:           log.DebugLevel,
		})
	}

	var watcher *config.Watcher
	if flagWatchConfig {
		path := config.Path(flagConfig)
		if path == "" {
			// Nothing on disk yet: seed the user config so there is a file to edit
			path = config.UserConfigPath()
			if path == "" {
				fail("no config file to watch")
			}
			//nolint:errcheck // Best-effort; an existing file is fine
			config.WriteDefault(path)
		}
		watcher, err = config.Watch(path, config.DefaultDebounce)
		if err != nil {
			fail("%v", err)
		}
		defer watcher.Close()
	}

	store := openStore(cfg)

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			Seed:    flagSeed,
		},
		Store:   store,
		Logger:  logger,
		Watcher: watcher,
		Preset:  preset,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
