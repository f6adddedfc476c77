// Root command for the bricks CLI.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// cfg holds the configuration loaded from config.yaml, resolved by
// PersistentPreRunE so all subcommands can use it.
var cfg appConfig

// logger is the process-wide structured logger, configured from flags.
var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:     "bricks",
	Short:   "Bricks is a local construction-toy catalogue and collection manager",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		cfg, err = loadConfig(configDir)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(minifigCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// resolveDataDir returns the data directory following the precedence:
// --data-dir flag > config.yaml data_dir > BRICKS_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.DataDir)
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > BRICKS_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
