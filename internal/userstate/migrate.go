package userstate

import (
	"context"
	"errors"
	"strings"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// Legacy record shapes as written by pre-2.0 installations. Field names
// follow the old serialized form and are only decoded, never produced,
// outside of export payloads.

type LegacyInventoryItem struct {
	PartNum   string `json:"part_num"`
	ColorID   *int   `json:"color_id"`
	ColorName string `json:"color_name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
}

type LegacySetPart struct {
	PartNum       string `json:"partNum"`
	ColorID       int    `json:"colorId"`
	Quantity      int    `json:"quantity"`
	QuantityOwned int    `json:"quantityOwned"`
	IsSpare       bool   `json:"isSpare"`
}

type LegacySet struct {
	Number string          `json:"number"`
	Name   string          `json:"name"`
	Parts  []LegacySetPart `json:"parts"`
}

// migrateFromLegacy rebuilds a current-version document from legacy
// fragments. Inventory items missing a color id get one resolved by color
// name against the catalogue; unresolvable names fall back to the reserved
// color id. Spare parts are dropped from migrated sets. Migration never
// fails: whatever cannot be carried over is defaulted.
func (m *Manager) migrateFromLegacy(ctx context.Context, frags LegacyFragments) *types.UnifiedDocument {
	doc := types.NewUnifiedDocument()
	if frags.DarkMode {
		doc.User.Preferences.Theme = "dark"
	}
	doc.User.Preferences.APIKey = frags.APIKey

	for _, item := range frags.Inventory {
		colorID := types.ReservedColorID
		if item.ColorID != nil {
			colorID = *item.ColorID
		} else {
			colorID = m.resolveColorID(ctx, item.ColorName)
		}
		category := item.Category
		if category == "" {
			category = "Unknown"
		}
		doc.Inventory = append(doc.Inventory, types.UserInventoryItem{
			PartNum:   item.PartNum,
			ColorID:   colorID,
			ColorName: item.ColorName,
			Quantity:  item.Quantity,
			Category:  category,
		})
	}

	for _, set := range frags.Sets {
		parts := make([]types.UserSetPart, 0, len(set.Parts))
		for _, p := range set.Parts {
			if p.IsSpare {
				continue
			}
			parts = append(parts, types.UserSetPart{
				PartNum:          p.PartNum,
				ColorID:          p.ColorID,
				QuantityRequired: p.Quantity,
				QuantityOwned:    p.QuantityOwned,
			})
		}
		doc.Sets = append(doc.Sets, types.UserSet{
			Number: set.Number,
			Name:   set.Name,
			Parts:  parts,
		})
	}

	m.log.Info().
		Int("inventory", len(doc.Inventory)).
		Int("sets", len(doc.Sets)).
		Msg("legacy migration complete")
	return doc
}

// resolveColorID maps a color name to a catalogue color id. Names the
// catalogue does not know resolve to the reserved id; "black" variants are
// called out explicitly because the reserved id happens to be black's.
func (m *Manager) resolveColorID(ctx context.Context, colorName string) int {
	if m.colors == nil || colorName == "" {
		return types.ReservedColorID
	}
	color, err := m.colors.ColorByName(ctx, colorName)
	if err == nil {
		return color.ID
	}
	if !errors.Is(err, types.ErrNotFound) {
		m.log.Warn().Err(err).Str("color", colorName).Msg("color lookup failed during migration")
	}
	lower := strings.ToLower(colorName)
	if strings.Contains(lower, "black") || strings.Contains(lower, "noir") {
		return 0
	}
	return types.ReservedColorID
}
