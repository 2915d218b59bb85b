package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefall/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or locate the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config",
	Long: `Writes the built-in configuration to a file so it can be edited.
Without a path the file goes to ~/.cubefall/configs/cubefall.yaml.
An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file would be loaded",
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigInit(_ *cobra.Command, args []string) {
	path := config.UserConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		fail("cannot determine home directory; pass a path")
	}

	if err := config.WriteDefault(path); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runConfigPath(_ *cobra.Command, _ []string) {
	path := config.Path(flagConfig)
	if path == "" {
		fmt.Println("(built-in defaults)")
		return
	}
	if _, err := config.LoadFile(path); err != nil {
		fmt.Printf("%s (invalid: %v)\n", path, err)
		return
	}
	fmt.Println(path)
}
