// Unit tests for rarity classification and possible-set matching.
package analysis

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// snapshotOf builds a snapshot directly from inventory contents, keyed by
// inventory id. Set numbers default to "set-<id>" unless remapped.
func snapshotOf(inventories map[int][]PartColorKey) *Snapshot {
	snap := &Snapshot{
		PartRefs:       make(map[PartColorKey][]int),
		InventoryPairs: make(map[int][]PartColorKey),
		InventoryToSet: make(map[int]string),
	}
	for id, pairs := range inventories {
		snap.InventoryPairs[id] = pairs
		snap.InventoryIDs = append(snap.InventoryIDs, id)
		snap.InventoryToSet[id] = fmt.Sprintf("set-%d", id)
		for _, key := range pairs {
			snap.PartRefs[key] = append(snap.PartRefs[key], id)
		}
	}
	// Keep iteration and reference order ascending like BuildSnapshot does.
	sort.Ints(snap.InventoryIDs)
	for key := range snap.PartRefs {
		sort.Ints(snap.PartRefs[key])
	}
	return snap
}

func ownedItem(partNum string, colorID, quantity int) types.UserInventoryItem {
	return types.UserInventoryItem{PartNum: partNum, ColorID: colorID, Quantity: quantity}
}

func TestRarityBoundary(t *testing.T) {
	inventories := make(map[int][]PartColorKey)
	// "rare" appears in exactly 5 inventories, "common" in 6.
	for id := 1; id <= 5; id++ {
		inventories[id] = append(inventories[id], PartColorKey{PartNum: "rare", ColorID: 1})
	}
	for id := 1; id <= 6; id++ {
		inventories[id] = append(inventories[id], PartColorKey{PartNum: "common", ColorID: 1})
	}
	snap := snapshotOf(inventories)

	rare := AnalyzeRarity(snap, []types.UserInventoryItem{
		ownedItem("rare", 1, 1),
		ownedItem("common", 1, 10),
	})

	require.Len(t, rare, 1)
	assert.Equal(t, "rare", rare[0].PartNum)
	assert.Equal(t, 5, rare[0].SetCount)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rare[0].Inventories)
}

func TestRarityUnknownPartNotRare(t *testing.T) {
	snap := snapshotOf(map[int][]PartColorKey{
		1: {{PartNum: "3001", ColorID: 1}},
	})

	rare := AnalyzeRarity(snap, []types.UserInventoryItem{ownedItem("never-seen", 0, 3)})
	assert.Empty(t, rare, "parts absent from the catalogue are not rare")
}

func TestRarityColorSensitive(t *testing.T) {
	snap := snapshotOf(map[int][]PartColorKey{
		1: {{PartNum: "3001", ColorID: 1}},
		2: {{PartNum: "3001", ColorID: 1}},
	})

	rare := AnalyzeRarity(snap, []types.UserInventoryItem{
		ownedItem("3001", 1, 1),
		ownedItem("3001", 4, 1), // same part, unreferenced color
	})

	require.Len(t, rare, 1)
	assert.Equal(t, 1, rare[0].ColorID)
}

func TestMatchThresholdTiers(t *testing.T) {
	tests := []struct {
		totalParts int
		want       float64
	}{
		{1, 70}, {20, 70},
		{21, 60}, {50, 60},
		{51, 50}, {100, 50},
		{101, 40}, {200, 40},
		{201, 30}, {100000, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchThreshold(tt.totalParts), "totalParts=%d", tt.totalParts)
	}
}

// pairs builds n distinct part/color keys with a prefix.
func pairs(prefix string, n int) []PartColorKey {
	out := make([]PartColorKey, n)
	for i := range out {
		out[i] = PartColorKey{PartNum: fmt.Sprintf("%s-%d", prefix, i), ColorID: 1}
	}
	return out
}

func TestMatchBoundary(t *testing.T) {
	// 20 parts, 14 owned: exactly 70% qualifies.
	snap := snapshotOf(map[int][]PartColorKey{10: pairs("a", 20)})
	owned := make([]types.UserInventoryItem, 0, 14)
	for i := 0; i < 14; i++ {
		owned = append(owned, ownedItem(fmt.Sprintf("a-%d", i), 1, 1))
	}

	result := FindPossibleSets(snap, owned)
	require.Len(t, result, 1)
	assert.InDelta(t, 70.0, result[0].MatchPercentage, 1e-9)

	// One owned part short: 65% misses the 70 threshold.
	result = FindPossibleSets(snap, owned[:13])
	assert.Empty(t, result)

	// 21 parts with 14 owned is 66.67%, over the size-21 threshold of 60.
	snap = snapshotOf(map[int][]PartColorKey{10: pairs("a", 21)})
	result = FindPossibleSets(snap, owned)
	require.Len(t, result, 1)
	assert.InDelta(t, 100.0*14/21, result[0].MatchPercentage, 1e-9)
}

func TestMatchRequiresResolvableSet(t *testing.T) {
	snap := snapshotOf(map[int][]PartColorKey{10: pairs("a", 4)})
	snap.InventoryToSet[10] = ""

	owned := []types.UserInventoryItem{
		ownedItem("a-0", 1, 1), ownedItem("a-1", 1, 1),
		ownedItem("a-2", 1, 1), ownedItem("a-3", 1, 1),
	}
	assert.Empty(t, FindPossibleSets(snap, owned), "inventories without a set number are dropped")
}

func TestMatchIgnoresZeroQuantity(t *testing.T) {
	snap := snapshotOf(map[int][]PartColorKey{10: pairs("a", 2)})

	owned := []types.UserInventoryItem{
		ownedItem("a-0", 1, 0),
		ownedItem("a-1", 1, 1),
	}
	// 1 of 2 matched is 50%, under the small-inventory threshold of 70.
	assert.Empty(t, FindPossibleSets(snap, owned))
}

func TestMatchRanking(t *testing.T) {
	// A small inventory (10 parts, 8 owned = 80%) must rank above a large
	// one (300 parts, 90 owned = 30%, borderline at its own threshold).
	small := pairs("s", 10)
	large := pairs("l", 300)

	snap := snapshotOf(map[int][]PartColorKey{
		1: small,
		2: large,
	})

	var owned []types.UserInventoryItem
	for i := 0; i < 8; i++ {
		owned = append(owned, ownedItem(fmt.Sprintf("s-%d", i), 1, 1))
	}
	for i := 0; i < 90; i++ {
		owned = append(owned, ownedItem(fmt.Sprintf("l-%d", i), 1, 1))
	}

	result := FindPossibleSets(snap, owned)
	require.Len(t, result, 2)

	assert.Equal(t, "set-1", result[0].SetNum)
	assert.Equal(t, 8, result[0].MatchCount)
	assert.Equal(t, 10, result[0].TotalParts)
	assert.Equal(t, 80.00, roundTwo(result[0].MatchPercentage))

	assert.Equal(t, "set-2", result[1].SetNum)
	assert.Equal(t, 90, result[1].MatchCount)
	assert.Equal(t, 300, result[1].TotalParts)
	assert.Equal(t, 30.00, roundTwo(result[1].MatchPercentage))
}

func roundTwo(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func TestMatchTiesKeepEncounterOrder(t *testing.T) {
	shared := pairs("t", 4)
	snap := snapshotOf(map[int][]PartColorKey{
		7: shared,
		3: shared,
		9: shared,
	})

	owned := make([]types.UserInventoryItem, 0, 4)
	for i := 0; i < 4; i++ {
		owned = append(owned, ownedItem(fmt.Sprintf("t-%d", i), 1, 1))
	}

	result := FindPossibleSets(snap, owned)
	require.Len(t, result, 3)
	assert.Equal(t, []int{3, 7, 9}, []int{result[0].InventoryID, result[1].InventoryID, result[2].InventoryID},
		"equal percentages stay in ascending-id encounter order")
}
