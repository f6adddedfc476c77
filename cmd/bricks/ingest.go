// Ingest command downloads and loads catalogue dumps.
package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/internal/ingest"
	"github.com/jfexwana/lego-manager/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [table...]",
	Short: "Download and load catalogue data",
	Long: `Ingest downloads compressed catalogue dumps, parses them, and loads
them into the local store, replacing each table wholesale.

With no arguments every required table is loaded in order. Naming tables
restricts the load to those tables.

Example:
  bricks ingest
  bricks ingest colors part_categories
  bricks ingest inventory_parts`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	resources, err := selectResources(args)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	pipeline := ingest.NewPipeline(a.catalog, httpClient(), logger)
	defer pipeline.Close()

	ctx := cmd.Context()
	for _, res := range resources {
		fmt.Printf("%s (%s)\n", res.FileName, res.SizeEstimate)
		bar := newStageBar(res.Table)
		count, err := pipeline.Ingest(ctx, res, func(stage ingest.Stage, fraction float64) {
			bar.Describe(fmt.Sprintf("%-10s %s", stage, res.Table))
			bar.Set(int(fraction * 100))
		})
		bar.Finish()
		fmt.Println()
		if err != nil {
			return err
		}
		fmt.Printf("  loaded %d rows into %s\n", count, res.Table)
	}
	return nil
}

func selectResources(tables []string) ([]types.Resource, error) {
	if len(tables) == 0 {
		return types.RequiredResources(cfg.ResourceBaseURL), nil
	}
	out := make([]types.Resource, 0, len(tables))
	for _, table := range tables {
		res, ok := types.ResourceForTable(cfg.ResourceBaseURL, table)
		if !ok {
			return nil, fmt.Errorf("no downloadable dump for table %q", table)
		}
		out = append(out, res)
	}
	return out, nil
}

func newStageBar(table string) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetDescription(table),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
	)
}
