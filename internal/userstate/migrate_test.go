// Unit tests for legacy migration and backup import/export.
package userstate

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// stubColors resolves color names from a fixed map.
type stubColors struct {
	byName map[string]types.Color
}

func (s stubColors) ColorByName(_ context.Context, name string) (types.Color, error) {
	if c, ok := s.byName[name]; ok {
		return c, nil
	}
	return types.Color{}, types.ErrNotFound
}

func intPtr(v int) *int { return &v }

func TestMigrateFromLegacyFragments(t *testing.T) {
	docs, err := OpenDocStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	defer docs.Close()

	frags := LegacyFragments{
		Inventory: []LegacyInventoryItem{
			{PartNum: "3001", ColorID: intPtr(4), ColorName: "Red", Quantity: 6, Category: "Bricks"},
			{PartNum: "3002", ColorName: "Blue", Quantity: 1}, // color id missing, resolve by name
			{PartNum: "3003", ColorName: "Glitter", Quantity: 2},
		},
		Sets: []LegacySet{
			{
				Number: "100-1",
				Name:   "Castle",
				Parts: []LegacySetPart{
					{PartNum: "3001", ColorID: 4, Quantity: 8, QuantityOwned: 3},
					{PartNum: "3001", ColorID: 4, Quantity: 1, IsSpare: true},
				},
			},
		},
		DarkMode: true,
		APIKey:   "key-abc",
	}
	require.NoError(t, docs.SaveLegacyFragments(frags))
	require.NoError(t, docs.put(bucketLegacy, LegacyDarkModeKey, frags.DarkMode))
	require.NoError(t, docs.put(bucketLegacy, LegacyAPIKeyKey, frags.APIKey))

	colors := stubColors{byName: map[string]types.Color{
		"Blue": {ID: 1, Name: "Blue"},
	}}
	m := NewManager(docs, colors, zerolog.Nop())
	require.NoError(t, m.Load(context.Background()))

	doc := m.Document()
	assert.Equal(t, types.DocumentVersion, doc.Version)
	assert.Equal(t, "dark", doc.User.Preferences.Theme)
	assert.Equal(t, "key-abc", doc.User.Preferences.APIKey)

	require.Len(t, doc.Inventory, 3)
	assert.Equal(t, 4, doc.Inventory[0].ColorID)
	assert.Equal(t, 1, doc.Inventory[1].ColorID, "missing color id resolved by name")
	assert.Equal(t, "Unknown", doc.Inventory[1].Category, "missing category defaults")
	assert.Equal(t, types.ReservedColorID, doc.Inventory[2].ColorID, "unresolvable color falls back to the reserved id")

	require.Len(t, doc.Sets, 1)
	require.Len(t, doc.Sets[0].Parts, 1, "spare parts are dropped")
	part := doc.Sets[0].Parts[0]
	assert.Equal(t, 8, part.QuantityRequired)
	assert.Equal(t, 3, part.QuantityOwned)

	// Legacy fragments are cleared after a successful migration.
	left, err := docs.LoadLegacyFragments()
	require.NoError(t, err)
	assert.True(t, left.Empty())

	// The migrated document is persisted: a reload takes the direct path.
	m2 := NewManager(docs, nil, zerolog.Nop())
	require.NoError(t, m2.Load(context.Background()))
	assert.Len(t, m2.Inventory(), 3)
}

func TestExportImportRoundTrip(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.UpdateInventory("3001", 4, "Red", 6, "Bricks"))
	require.NoError(t, m.UpdateSet("100-1", "Castle", []types.UserSetPart{
		{PartNum: "3001", ColorID: 4, QuantityRequired: 8, QuantityOwned: 3},
	}))

	data, err := m.ExportJSON()
	require.NoError(t, err)

	other := newTestManager(t)
	require.NoError(t, other.ImportJSON(context.Background(), data))

	assert.Equal(t, 6, other.InventoryQuantity("3001", 4))
	sets := other.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, "Castle", sets[0].Name)
}

func TestImportLegacyPayload(t *testing.T) {
	m := newTestManager(t)

	payload := ExportPayload{
		LegacyInventory: []LegacyInventoryItem{
			{PartNum: "3001", ColorID: intPtr(4), ColorName: "Red", Quantity: 2},
		},
		LegacySets: []LegacySet{
			{Number: "100-1", Name: "Castle", Parts: []LegacySetPart{
				{PartNum: "3001", ColorID: 4, Quantity: 8, QuantityOwned: 1},
			}},
		},
	}
	require.NoError(t, m.Import(context.Background(), payload))

	assert.Equal(t, 2, m.InventoryQuantity("3001", 4))
	require.Len(t, m.Sets(), 1)
	assert.Equal(t, 8, m.Sets()[0].Parts[0].QuantityRequired)
}

func TestImportRejectsEmptyPayload(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.UpdateInventory("3001", 4, "Red", 2, ""))

	err := m.Import(context.Background(), ExportPayload{})
	assert.ErrorIs(t, err, types.ErrInvalidImport)

	err = m.ImportJSON(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, types.ErrInvalidImport)

	assert.Equal(t, 2, m.InventoryQuantity("3001", 4), "failed import leaves state untouched")
}

func TestImportOldVersionDocumentMigrates(t *testing.T) {
	m := newTestManager(t)

	payload := ExportPayload{
		UnifiedData: &types.UnifiedDocument{Version: "1.0"},
		LegacyInventory: []LegacyInventoryItem{
			{PartNum: "3001", ColorID: intPtr(4), Quantity: 1},
		},
	}
	require.NoError(t, m.Import(context.Background(), payload))
	assert.Equal(t, 1, m.InventoryQuantity("3001", 4), "old-version document routes through migration")

	doc := m.Document()
	assert.Equal(t, types.DocumentVersion, doc.Version)
}
