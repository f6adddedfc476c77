package analysis

import (
	"sort"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// MatchThreshold returns the acceptance threshold (in percent) for an
// inventory of the given distinct-pair count. Small inventories must match
// a higher fraction; large ones are penalized less because coincidental
// overlap grows with size.
func MatchThreshold(totalParts int) float64 {
	switch {
	case totalParts <= 20:
		return 70
	case totalParts <= 50:
		return 60
	case totalParts <= 100:
		return 50
	case totalParts <= 200:
		return 40
	default:
		return 30
	}
}

// FindPossibleSets ranks catalogue inventories by how much of their
// distinct part/color content the user already owns. An inventory
// qualifies when its match percentage meets the size-tiered threshold and
// it resolves to a known set number. Results are ordered descending by
// percentage; ties keep their encounter order (ascending inventory id),
// an artifact of the iteration rather than a guarantee.
func FindPossibleSets(snap *Snapshot, inventory []types.UserInventoryItem) []types.PossibleSet {
	owned := make(map[PartColorKey]int, len(inventory))
	for _, item := range inventory {
		owned[PartColorKey{PartNum: item.PartNum, ColorID: item.ColorID}] = item.Quantity
	}

	possible := make([]types.PossibleSet, 0)
	for _, invID := range snap.InventoryIDs {
		pairs := snap.InventoryPairs[invID]
		totalParts := len(pairs)
		if totalParts == 0 {
			continue
		}

		matchCount := 0
		for _, key := range pairs {
			if owned[key] > 0 {
				matchCount++
			}
		}

		matchPercentage := float64(matchCount) / float64(totalParts) * 100
		if matchPercentage < MatchThreshold(totalParts) {
			continue
		}

		setNum, ok := snap.SetNumForInventory(invID)
		if !ok {
			continue
		}

		possible = append(possible, types.PossibleSet{
			InventoryID:     invID,
			SetNum:          setNum,
			MatchCount:      matchCount,
			TotalParts:      totalParts,
			MatchPercentage: matchPercentage,
		})
	}

	sort.SliceStable(possible, func(i, j int) bool {
		return possible[i].MatchPercentage > possible[j].MatchPercentage
	})
	return possible
}
