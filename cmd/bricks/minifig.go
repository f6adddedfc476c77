// Minifig commands query minifigure reference data.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/pkg/types"
)

var minifigCmd = &cobra.Command{
	Use:   "minifig",
	Short: "Query minifigure data",
}

func init() {
	minifigCmd.AddCommand(minifigShowCmd)
	minifigCmd.AddCommand(minifigInSetCmd)
}

var minifigShowCmd = &cobra.Command{
	Use:   "show <fig_num>",
	Short: "Show a minifig and the parts it is built from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		fig, err := a.catalog.MinifigByNum(ctx, args[0])
		if err != nil {
			return fmt.Errorf("minifig %s: %w", args[0], err)
		}
		parts, err := a.catalog.MinifigParts(ctx, fig.FigNum)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(struct {
				Minifig types.Minifig       `json:"minifig"`
				Parts   []types.MinifigPart `json:"parts"`
			}{fig, parts})
		}

		fmt.Printf("%s  %s (%d parts)\n", fig.FigNum, fig.Name, fig.NumParts)
		for _, p := range parts {
			fmt.Printf("  %-15s %-30s %-20s x%d\n", p.PartNum, p.Name, p.ColorName, p.Quantity)
		}
		return nil
	},
}

var minifigInSetCmd = &cobra.Command{
	Use:   "in-set <set_num>",
	Short: "List the minifigs contained in a set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		figs, err := a.catalog.MinifigsInSet(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(figs)
		}
		for _, f := range figs {
			fmt.Printf("%-15s %-30s x%d\n", f.FigNum, f.Name, f.Quantity)
		}
		if len(figs) == 0 {
			fmt.Println("no minifigs recorded for", args[0])
		}
		return nil
	},
}
