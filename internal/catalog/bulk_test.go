// Unit tests for bulk replacement and its derived metadata counters.
package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfexwana/lego-manager/pkg/types"
)

func TestBulkReplaceWritesCountMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	colors := []types.Color{{ID: 0, Name: "Black"}, {ID: 1, Name: "Blue"}, {ID: 4, Name: "Red"}}
	require.NoError(t, s.BulkReplace(ctx, types.TableColors, colors, nil))

	count, err := s.TableCount(ctx, types.TableColors)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	lastUpdate, err := s.GetMetadataInt(ctx, "colors_last_update")
	require.NoError(t, err)
	assert.Positive(t, lastUpdate)
}

func TestBulkReplaceIsFullReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []types.Color{{ID: 1, Name: "Blue"}, {ID: 2, Name: "Green"}}
	require.NoError(t, s.BulkReplace(ctx, types.TableColors, first, nil))

	second := []types.Color{{ID: 4, Name: "Red"}}
	require.NoError(t, s.BulkReplace(ctx, types.TableColors, second, nil))

	colors, err := s.AllColors(ctx)
	require.NoError(t, err)
	require.Len(t, colors, 1)
	assert.Equal(t, "Red", colors[0].Name)

	count, err := s.TableCount(ctx, types.TableColors)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBulkReplaceRejectsMismatchedRecords(t *testing.T) {
	s := newTestStore(t)

	err := s.BulkReplace(context.Background(), types.TableColors, []types.Part{{PartNum: "3001"}}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidData)

	err = s.BulkReplace(context.Background(), "nonsense", []types.Color{}, nil)
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestBulkReplaceReportsProgress(t *testing.T) {
	s := newTestStore(t)

	rows := make([]types.Color, 2500)
	for i := range rows {
		rows[i] = types.Color{ID: i + 1, Name: "c"}
	}

	var calls []int
	err := s.BulkReplace(context.Background(), types.TableColors, rows, func(done, total int) {
		assert.Equal(t, 2500, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)

	require.NotEmpty(t, calls)
	assert.Equal(t, 2500, calls[len(calls)-1], "final callback reports completion")
}

func TestRarityCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parts := []types.Part{
		{PartNum: "3001", Name: "Brick 2 x 4", CategoryID: 11},
		{PartNum: "3002", Name: "Brick 2 x 3", CategoryID: 11},
		{PartNum: "970c00", Name: "Legs", CategoryID: 61},
	}
	require.NoError(t, s.BulkReplace(ctx, types.TableParts, parts, nil))

	invParts := []types.InventoryPart{
		{InventoryID: 10, PartNum: "3001", ColorID: 1, Quantity: 2},
		{InventoryID: 10, PartNum: "3001", ColorID: 4, Quantity: 1}, // same inventory, different color
		{InventoryID: 20, PartNum: "3001", ColorID: 1, Quantity: 6},
		{InventoryID: 20, PartNum: "3002", ColorID: 1, Quantity: 1},
		{InventoryID: 30, PartNum: "970c00", ColorID: 0, Quantity: 1},
	}
	require.NoError(t, s.BulkReplace(ctx, types.TableInventoryParts, invParts, nil))

	n, err := s.PartSetCount(ctx, "3001")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "distinct inventories, not rows")

	n, err = s.PartSetCount(ctx, "3002")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.PartSetCount(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, n, "absent counter reads as zero")

	// Category 11 is referenced by inventories 10 and 20, category 61 by 30.
	n, err = s.CategorySetCount(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CategorySetCount(ctx, 61)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCategoryCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parts := []types.Part{
		{PartNum: "3001", CategoryID: 11},
		{PartNum: "3002", CategoryID: 11},
		{PartNum: "970c00", CategoryID: 61},
	}
	require.NoError(t, s.BulkReplace(ctx, types.TableParts, parts, nil))

	n, err := s.GetMetadataInt(ctx, "category_11_count")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.GetMetadataInt(ctx, "category_61_count")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
