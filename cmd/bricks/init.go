// Init command for the bricks CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bricks storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		if err := ensureConfigDir(configDir); err != nil {
			return err
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return err
		}

		// Opening the stores creates the data directory, the catalogue
		// schema, and an empty unified document.
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}

		fmt.Println("Bricks initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
