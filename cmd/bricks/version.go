// Version command for the bricks CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the CLI version string.
const Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bricks version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bricks", Version)
	},
}
