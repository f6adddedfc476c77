// Inventory commands manage the owned loose-part list.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/pkg/types"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage the owned parts inventory",
}

func init() {
	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventorySetCmd)
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List owned parts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		items := a.manager.Inventory()
		if flagJSON {
			return printJSON(items)
		}
		for _, item := range items {
			fmt.Printf("%-15s %-20s x%d  [%s]\n", item.PartNum, item.ColorName, item.Quantity, item.Category)
		}
		fmt.Printf("%d distinct parts\n", len(items))
		return nil
	},
}

var inventorySetCmd = &cobra.Command{
	Use:   "set <part_num> <color_id> <quantity>",
	Short: "Set the owned quantity for a part (0 removes it)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		partNum := args[0]
		colorID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid color id %q", args[1])
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		colorName, category := "", ""
		if color, err := a.catalog.ColorByID(ctx, colorID); err == nil {
			colorName = color.Name
		} else if !errors.Is(err, types.ErrNotFound) {
			return err
		}
		if part, err := a.catalog.PartByNum(ctx, partNum); err == nil {
			if cat, err := categoryName(cmd, a, part.CategoryID); err == nil {
				category = cat
			}
		} else if !errors.Is(err, types.ErrNotFound) {
			return err
		}

		if err := a.manager.UpdateInventory(partNum, colorID, colorName, quantity, category); err != nil {
			return err
		}
		fmt.Printf("%s color %d: quantity now %d\n", partNum, colorID, a.manager.InventoryQuantity(partNum, colorID))
		return nil
	},
}

// categoryName resolves a category id to its display name, empty when the
// categories table is not loaded.
func categoryName(cmd *cobra.Command, a *app, categoryID int) (string, error) {
	categories, err := a.catalog.AllCategories(cmd.Context())
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return c.Name, nil
		}
	}
	return "", nil
}
