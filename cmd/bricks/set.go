// Set commands manage partially built sets.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/pkg/types"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage tracked sets",
}

func init() {
	setCmd.AddCommand(setListCmd)
	setCmd.AddCommand(setAddCmd)
	setCmd.AddCommand(setOwnedCmd)
	setCmd.AddCommand(setTransferCmd)
	setCmd.AddCommand(setRemoveCmd)
}

var setListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked sets and their completion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		sets := a.manager.Sets()
		if flagJSON {
			return printJSON(sets)
		}
		for _, s := range sets {
			owned, required := 0, 0
			for _, p := range s.Parts {
				owned += p.QuantityOwned
				required += p.QuantityRequired
			}
			state := fmt.Sprintf("%d/%d pieces", owned, required)
			if s.Complete() {
				state = "complete"
			}
			fmt.Printf("%-12s %-40s %s\n", s.Number, s.Name, state)
		}
		return nil
	},
}

var setAddCmd = &cobra.Command{
	Use:   "add <set_num>",
	Short: "Track a catalogue set, with its part requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setNum := args[0]

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		catalogSet, err := a.catalog.SetByNum(ctx, setNum)
		if err != nil {
			return fmt.Errorf("set %s: %w", setNum, err)
		}
		inventories, err := a.catalog.InventoriesBySetNum(ctx, setNum)
		if err != nil {
			return err
		}
		if len(inventories) == 0 {
			return types.ErrSetNotFound
		}
		rows, err := a.catalog.InventoryPartsByInventory(ctx, inventories[0].ID)
		if err != nil {
			return err
		}

		parts := make([]types.UserSetPart, 0, len(rows))
		for _, row := range rows {
			if row.IsSpare {
				continue
			}
			parts = append(parts, types.UserSetPart{
				PartNum:          row.PartNum,
				ColorID:          row.ColorID,
				QuantityRequired: row.Quantity,
			})
		}
		if err := a.manager.UpdateSet(setNum, catalogSet.Name, parts); err != nil {
			return err
		}
		fmt.Printf("tracking %s %q: %d part requirements\n", setNum, catalogSet.Name, len(parts))
		return nil
	},
}

var setOwnedCmd = &cobra.Command{
	Use:   "owned <set_num> <part_num> <color_id> <quantity>",
	Short: "Set the owned quantity for one part of a tracked set",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		colorID, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid color id %q", args[2])
		}
		quantity, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[3])
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		return a.manager.UpdateSetPartOwned(args[0], args[1], colorID, quantity)
	},
}

var setTransferCmd = &cobra.Command{
	Use:   "transfer <part_num> <color_id> <set_num> <quantity>",
	Short: "Move parts from the loose inventory into a tracked set",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		colorID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid color id %q", args[1])
		}
		quantity, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[3])
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.manager.TransferToSet(args[0], colorID, args[2], quantity); err != nil {
			return err
		}
		fmt.Printf("moved %d x %s (color %d) into %s\n", quantity, args[0], colorID, args[2])
		return nil
	},
}

var setRemoveCmd = &cobra.Command{
	Use:   "remove <set_num>",
	Short: "Stop tracking a set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		return a.manager.RemoveSet(args[0])
	},
}
