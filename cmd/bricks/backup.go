// Export and import commands for user-state backups.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the collection to a backup file (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		data, err := a.manager.ExportJSON()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Println("exported to", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the collection from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup: %w", err)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.manager.ImportJSON(cmd.Context(), data); err != nil {
			return err
		}
		stats := a.manager.Stats()
		fmt.Printf("imported %d inventory parts and %d sets\n", stats.InventoryCount, stats.SetsCount)
		return nil
	},
}
