// Unit tests for catalogue read operations.
package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// seedCatalog loads a small but fully cross-referenced dataset.
func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.BulkReplace(ctx, types.TableParts, []types.Part{
		{PartNum: "3001", Name: "Brick 2 x 4", CategoryID: 11},
		{PartNum: "3002", Name: "Brick 2 x 3", CategoryID: 11},
		{PartNum: "970c00", Name: "Legs Plain", CategoryID: 61},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TablePartCategories, []types.Category{
		{ID: 11, Name: "Bricks"},
		{ID: 61, Name: "Minifig Lower Body"},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TableColors, []types.Color{
		{ID: 0, Name: "Black"},
		{ID: 1, Name: "Blue"},
		{ID: 4, Name: "Red"},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TableSets, []types.Set{
		{SetNum: "6080-1", Name: "King's Castle", Year: 1984, ThemeID: 186, NumParts: 664},
		{SetNum: "375-2", Name: "Castle", Year: 1978, ThemeID: 186, NumParts: 767},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TableInventories, []types.Inventory{
		{ID: 15, Version: 1, SetNum: "6080-1"},
		{ID: 30, Version: 2, SetNum: "6080-1"},
		{ID: 22, Version: 1, SetNum: "375-2"},
		{ID: 40, Version: 1, SetNum: "fig-000123"},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TableInventoryParts, []types.InventoryPart{
		{InventoryID: 15, PartNum: "3001", ColorID: 1, Quantity: 8},
		{InventoryID: 15, PartNum: "3002", ColorID: 4, Quantity: 2, IsSpare: true},
		{InventoryID: 22, PartNum: "3001", ColorID: 4, Quantity: 12},
		{InventoryID: 40, PartNum: "970c00", ColorID: 0, Quantity: 0},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TableMinifigs, []types.Minifig{
		{FigNum: "fig-000123", Name: "Castle Guard", NumParts: 4},
	}, nil))
	require.NoError(t, s.BulkReplace(ctx, types.TableInventoryMinifigs, []types.InventoryMinifig{
		{InventoryID: 15, FigNum: "fig-000123", Quantity: 2},
		{InventoryID: 15, FigNum: "fig-999999", Quantity: 1},
	}, nil))
}

func TestLookupsByKey(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	part, err := s.PartByNum(ctx, "3001")
	require.NoError(t, err)
	assert.Equal(t, "Brick 2 x 4", part.Name)

	_, err = s.PartByNum(ctx, "0000")
	assert.ErrorIs(t, err, types.ErrNotFound)

	set, err := s.SetByNum(ctx, "6080-1")
	require.NoError(t, err)
	assert.Equal(t, 1984, set.Year)

	color, err := s.ColorByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Red", color.Name)

	_, err = s.ColorByID(ctx, 99)
	assert.ErrorIs(t, err, types.ErrNotFound)

	fig, err := s.MinifigByNum(ctx, "fig-000123")
	require.NoError(t, err)
	assert.Equal(t, "Castle Guard", fig.Name)
}

func TestColorByName(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	color, err := s.ColorByName(ctx, "Black")
	require.NoError(t, err)
	assert.Equal(t, 0, color.ID)

	_, err = s.ColorByName(ctx, "Chartreuse")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInventoriesBySetNumOrdered(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	invs, err := s.InventoriesBySetNum(context.Background(), "6080-1")
	require.NoError(t, err)
	require.Len(t, invs, 2)
	assert.Equal(t, 15, invs[0].ID, "lowest inventory id first")
	assert.Equal(t, 30, invs[1].ID)
}

func TestForEachInventoryPartStreams(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	var seen []types.InventoryPart
	err := s.ForEachInventoryPart(context.Background(), func(ip types.InventoryPart) error {
		seen = append(seen, ip)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 4)

	spares := 0
	for _, ip := range seen {
		if ip.IsSpare {
			spares++
		}
	}
	assert.Equal(t, 1, spares, "is_spare round-trips through the integer column")
}

func TestSetInfos(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	info, err := s.SetInfo(ctx, "375-2")
	require.NoError(t, err)
	assert.Equal(t, "Castle", info.Name)
	assert.Equal(t, 767, info.NumParts)

	infos, err := s.MultipleSetInfos(ctx, []string{"6080-1", "no-such-set", "375-2"})
	require.NoError(t, err)
	require.Len(t, infos, 2, "unknown set numbers are skipped")
	assert.Equal(t, "King's Castle", infos[0].Name)
}

func TestMinifigsInSet(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	figs, err := s.MinifigsInSet(context.Background(), "6080-1")
	require.NoError(t, err)
	require.Len(t, figs, 2)

	assert.Equal(t, "Castle Guard", figs[0].Name)
	assert.Equal(t, 2, figs[0].Quantity)
	assert.Equal(t, "Unknown minifig", figs[1].Name, "missing reference data falls back")
}

func TestMinifigParts(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	parts, err := s.MinifigParts(context.Background(), "fig-000123")
	require.NoError(t, err)
	require.Len(t, parts, 1)

	assert.Equal(t, "Legs Plain", parts[0].Name)
	assert.Equal(t, "Black", parts[0].ColorName)
	assert.Equal(t, 1, parts[0].Quantity, "zero quantity defaults to one")
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetMetadata(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMetadata(ctx, "k", "v1"))
	require.NoError(t, s.SetMetadata(ctx, "k", "v2"))

	v, ok, err := s.GetMetadata(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v, "set overwrites")

	n, err := s.GetMetadataInt(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n, "unparsable value reads as zero")

	require.NoError(t, s.SetFileDate(ctx, types.TableColors, "Wed, 27 Aug 2025 03:11:00 GMT"))
	date, ok, err := s.FileDate(ctx, types.TableColors)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, date, "2025")
}
