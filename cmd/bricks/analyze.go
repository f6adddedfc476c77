// Analyze command runs rarity and possible-set analysis over the owned
// inventory, reusing cached results while they are still valid.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfexwana/lego-manager/internal/analysis"
	"github.com/jfexwana/lego-manager/pkg/types"
)

var flagForceAnalyze bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find rare parts and buildable sets in the collection",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagForceAnalyze, "force", false, "recompute even when the cache is valid")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var rare []types.RarePart
	var possible []types.PossibleSet

	if !flagForceAnalyze && a.manager.IsCacheValid() {
		cache := a.manager.AnalysisCache()
		rare, possible = cache.RareParts, cache.PossibleSets
	} else {
		engine := analysis.NewEngine(a.catalog, logger)
		defer engine.Close()

		result, err := engine.Run(cmd.Context(), a.manager.Inventory())
		if err != nil {
			return err
		}
		rare, possible = result.RareParts, result.PossibleSets
		if err := a.manager.SaveAnalysisCache(rare, possible); err != nil {
			return err
		}
	}

	if flagJSON {
		return printJSON(struct {
			RareParts    []types.RarePart    `json:"rareParts"`
			PossibleSets []types.PossibleSet `json:"possibleSets"`
		}{rare, possible})
	}

	fmt.Printf("Rare parts (%d):\n", len(rare))
	for _, r := range rare {
		fmt.Printf("  %s color %d: in %d inventories\n", r.PartNum, r.ColorID, r.SetCount)
	}
	fmt.Printf("Possible sets (%d):\n", len(possible))
	for _, p := range possible {
		fmt.Printf("  %s: %d/%d parts (%.2f%%)\n", p.SetNum, p.MatchCount, p.TotalParts, p.MatchPercentage)
	}
	return nil
}
