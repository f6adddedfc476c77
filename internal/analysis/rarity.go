package analysis

import "github.com/jfexwana/lego-manager/pkg/types"

// RarityThreshold is the maximum number of distinct inventories a
// part/color may appear in and still count as rare.
const RarityThreshold = 5

// AnalyzeRarity classifies each owned item by how many distinct catalogue
// inventories reference its part/color. Items at or under the threshold
// come back with their observed count and the referencing inventory ids.
// Owned items the catalogue has never seen are not rare: absence means no
// reference data, not scarcity.
func AnalyzeRarity(snap *Snapshot, inventory []types.UserInventoryItem) []types.RarePart {
	rare := make([]types.RarePart, 0)
	for _, item := range inventory {
		refs, ok := snap.PartRefs[PartColorKey{PartNum: item.PartNum, ColorID: item.ColorID}]
		if !ok || len(refs) > RarityThreshold {
			continue
		}
		rare = append(rare, types.RarePart{
			PartNum:     item.PartNum,
			ColorID:     item.ColorID,
			SetCount:    len(refs),
			Inventories: refs,
		})
	}
	return rare
}
