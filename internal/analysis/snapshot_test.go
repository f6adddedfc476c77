// Tests for snapshot construction over a real store and the analysis
// worker.
package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfexwana/lego-manager/internal/catalog"
	"github.com/jfexwana/lego-manager/pkg/types"
)

func newSeededStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.BulkReplace(ctx, types.TableInventories, []types.Inventory{
		{ID: 1, Version: 1, SetNum: "100-1"},
		{ID: 2, Version: 2, SetNum: "100-1"},
		{ID: 3, Version: 1, SetNum: "200-1"},
	}, nil))
	require.NoError(t, store.BulkReplace(ctx, types.TableInventoryParts, []types.InventoryPart{
		{InventoryID: 1, PartNum: "3001", ColorID: 4, Quantity: 2},
		{InventoryID: 1, PartNum: "3001", ColorID: 4, Quantity: 1}, // duplicate pair
		{InventoryID: 1, PartNum: "3002", ColorID: 1, Quantity: 1},
		{InventoryID: 2, PartNum: "3001", ColorID: 4, Quantity: 2},
		{InventoryID: 3, PartNum: "3001", ColorID: 4, Quantity: 8, IsSpare: true},
	}, nil))
	return store
}

func TestBuildSnapshot(t *testing.T) {
	store := newSeededStore(t)

	snap, err := BuildSnapshot(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, snap.InventoryIDs)

	refs := snap.PartRefs[PartColorKey{PartNum: "3001", ColorID: 4}]
	assert.Equal(t, []int{1, 2, 3}, refs, "distinct inventories, duplicates collapsed, spares included")

	assert.Len(t, snap.InventoryPairs[1], 2, "pairs are distinct within an inventory")
	assert.Len(t, snap.InventoryPairs[2], 1)

	num, ok := snap.SetNumForInventory(3)
	require.True(t, ok)
	assert.Equal(t, "200-1", num)

	id, ok := snap.InventoryForSetNum("100-1")
	require.True(t, ok)
	assert.Equal(t, 1, id, "reverse lookup picks the lowest inventory id")

	_, ok = snap.InventoryForSetNum("999-1")
	assert.False(t, ok)
}

func TestEngineRanksSmallSetAboveLarge(t *testing.T) {
	store, err := catalog.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.BulkReplace(ctx, types.TableInventories, []types.Inventory{
		{ID: 1, Version: 1, SetNum: "10-1"},
		{ID: 2, Version: 1, SetNum: "300-1"},
	}, nil))

	parts := make([]types.InventoryPart, 0, 310)
	for i := 0; i < 10; i++ {
		parts = append(parts, types.InventoryPart{InventoryID: 1, PartNum: fmt.Sprintf("s-%d", i), ColorID: 1, Quantity: 1})
	}
	for i := 0; i < 300; i++ {
		parts = append(parts, types.InventoryPart{InventoryID: 2, PartNum: fmt.Sprintf("l-%d", i), ColorID: 1, Quantity: 1})
	}
	require.NoError(t, store.BulkReplace(ctx, types.TableInventoryParts, parts, nil))

	var owned []types.UserInventoryItem
	for i := 0; i < 8; i++ {
		owned = append(owned, types.UserInventoryItem{PartNum: fmt.Sprintf("s-%d", i), ColorID: 1, Quantity: 1})
	}
	for i := 0; i < 90; i++ {
		owned = append(owned, types.UserInventoryItem{PartNum: fmt.Sprintf("l-%d", i), ColorID: 1, Quantity: 1})
	}

	engine := NewEngine(store, zerolog.Nop())
	defer engine.Close()

	result, err := engine.Run(ctx, owned)
	require.NoError(t, err)
	require.Len(t, result.PossibleSets, 2)

	// 8/10 = 80% ranks above 90/300 = 30%, borderline at its own tier.
	assert.Equal(t, "10-1", result.PossibleSets[0].SetNum)
	assert.InDelta(t, 80.0, result.PossibleSets[0].MatchPercentage, 1e-9)
	assert.Equal(t, "300-1", result.PossibleSets[1].SetNum)
	assert.InDelta(t, 30.0, result.PossibleSets[1].MatchPercentage, 1e-9)
}

func TestEngineRarityBoundaryThroughStore(t *testing.T) {
	store, err := catalog.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	invs := make([]types.Inventory, 0, 6)
	parts := make([]types.InventoryPart, 0, 11)
	for id := 1; id <= 6; id++ {
		invs = append(invs, types.Inventory{ID: id, Version: 1, SetNum: fmt.Sprintf("%d00-1", id)})
		parts = append(parts, types.InventoryPart{InventoryID: id, PartNum: "common", ColorID: 1, Quantity: 1})
		if id <= 5 {
			parts = append(parts, types.InventoryPart{InventoryID: id, PartNum: "rare", ColorID: 1, Quantity: 1})
		}
	}
	require.NoError(t, store.BulkReplace(ctx, types.TableInventories, invs, nil))
	require.NoError(t, store.BulkReplace(ctx, types.TableInventoryParts, parts, nil))

	engine := NewEngine(store, zerolog.Nop())
	defer engine.Close()

	result, err := engine.Run(ctx, []types.UserInventoryItem{
		{PartNum: "rare", ColorID: 1, Quantity: 1},
		{PartNum: "common", ColorID: 1, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, result.RareParts, 1, "five references qualify, six do not")
	assert.Equal(t, "rare", result.RareParts[0].PartNum)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.RareParts[0].Inventories)
}

func TestEngineWorkerEchoesRequestID(t *testing.T) {
	store := newSeededStore(t)

	engine := NewEngine(store, zerolog.Nop())
	defer engine.Close()

	snap, err := BuildSnapshot(context.Background(), store)
	require.NoError(t, err)

	engine.req <- types.WorkRequest{
		Kind:    types.OpAnalyzeRarity,
		ID:      "req-echo-check",
		Payload: analysisPayload{Snap: snap},
	}
	resp := <-engine.resp
	assert.Equal(t, "req-echo-check", resp.ID)
	assert.Equal(t, types.OpAnalyzeRarity, resp.Kind)
	require.NoError(t, resp.Err)
}

func TestEngineAnalyze(t *testing.T) {
	store := newSeededStore(t)

	engine := NewEngine(store, zerolog.Nop())
	defer engine.Close()

	owned := []types.UserInventoryItem{
		{PartNum: "3001", ColorID: 4, Quantity: 5},
	}
	result, err := engine.Run(context.Background(), owned)
	require.NoError(t, err)

	require.Len(t, result.RareParts, 1)
	assert.Equal(t, 3, result.RareParts[0].SetCount)

	// Inventories 2 and 3 are fully owned (their only pair is 3001/4);
	// inventory 1 is half owned and misses its threshold.
	require.Len(t, result.PossibleSets, 2)
	for _, p := range result.PossibleSets {
		assert.InDelta(t, 100.0, p.MatchPercentage, 1e-9)
		assert.NotEqual(t, 1, p.InventoryID)
	}
}
