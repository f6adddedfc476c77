// Status command reports catalogue table counts, load dates, and user
// collection statistics.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/pkg/types"
)

type tableStatus struct {
	Table    string `json:"table"`
	Count    int    `json:"count"`
	FileDate string `json:"file_date,omitempty"`
}

type statusReport struct {
	Tables []tableStatus   `json:"tables"`
	User   types.UserStats `json:"user"`
	Cache  string          `json:"analysis_cache"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalogue and collection status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		report := statusReport{User: a.manager.Stats(), Cache: "stale"}
		if a.manager.IsCacheValid() {
			report.Cache = "valid"
		}
		for _, table := range types.StandardTableNames {
			if table == types.TableMetadata {
				continue
			}
			count, err := a.catalog.TableCount(ctx, table)
			if err != nil {
				return err
			}
			date, _, err := a.catalog.FileDate(ctx, table)
			if err != nil {
				return err
			}
			report.Tables = append(report.Tables, tableStatus{Table: table, Count: count, FileDate: date})
		}

		if flagJSON {
			return printJSON(report)
		}

		fmt.Println("Catalogue:")
		for _, t := range report.Tables {
			line := fmt.Sprintf("  %-20s %10d rows", t.Table, t.Count)
			if t.FileDate != "" {
				line += "  (" + t.FileDate + ")"
			}
			fmt.Println(line)
		}
		fmt.Println("Collection:")
		fmt.Printf("  %d distinct parts, %d pieces total\n", report.User.InventoryCount, report.User.TotalInventoryPieces)
		fmt.Printf("  %d sets tracked, %d complete\n", report.User.SetsCount, report.User.CompletedSets)
		fmt.Println("Analysis cache:", report.Cache)
		return nil
	},
}
