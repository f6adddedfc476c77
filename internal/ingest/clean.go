// Per-table normalization of parsed rows into typed records. Cleaning is
// forgiving: categorical ids coerce to integers with a zero default,
// quantities default to 1, and spare flags accept the loose truthy set the
// upstream dumps use.
package ingest

import (
	"strconv"
	"strings"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// spareTrue is the set of values accepted as true for is_spare, compared
// case- and space-insensitively. Anything else is false.
var spareTrue = map[string]bool{"t": true, "true": true, "1": true, "yes": true}

func strField(row Row, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// intField coerces a field to int, falling back to def for absent,
// empty, or non-numeric values.
func intField(row Row, key string, def int) int {
	switch v := row[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		return def
	default:
		return def
	}
}

func boolSpareField(row Row, key string) bool {
	return spareTrue[strings.ToLower(strings.TrimSpace(strField(row, key)))]
}

// CleanParts normalizes rows for the parts table.
func CleanParts(rows []Row) []types.Part {
	out := make([]types.Part, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Part{
			PartNum:    strField(r, "part_num"),
			Name:       strField(r, "name"),
			CategoryID: intField(r, "part_cat_id", 0),
		})
	}
	return out
}

// CleanCategories normalizes rows for the part_categories table.
func CleanCategories(rows []Row) []types.Category {
	out := make([]types.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Category{
			ID:   intField(r, "id", 0),
			Name: strField(r, "name"),
		})
	}
	return out
}

// CleanColors normalizes rows for the colors table.
func CleanColors(rows []Row) []types.Color {
	out := make([]types.Color, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Color{
			ID:   intField(r, "id", 0),
			Name: strField(r, "name"),
		})
	}
	return out
}

// CleanSets normalizes rows for the sets table.
func CleanSets(rows []Row) []types.Set {
	out := make([]types.Set, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Set{
			SetNum:   strField(r, "set_num"),
			Name:     strField(r, "name"),
			Year:     intField(r, "year", 0),
			ThemeID:  intField(r, "theme_id", 0),
			NumParts: intField(r, "num_parts", 0),
			ImgURL:   strField(r, "img_url"),
		})
	}
	return out
}

// CleanInventories normalizes rows for the inventories table. Version
// defaults to 1.
func CleanInventories(rows []Row) []types.Inventory {
	out := make([]types.Inventory, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Inventory{
			ID:      intField(r, "id", 0),
			Version: intField(r, "version", 1),
			SetNum:  strField(r, "set_num"),
		})
	}
	return out
}

// CleanInventoryParts normalizes rows for the inventory_parts join table.
// Quantity defaults to 1 when absent or non-numeric.
func CleanInventoryParts(rows []Row) []types.InventoryPart {
	out := make([]types.InventoryPart, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.InventoryPart{
			InventoryID: intField(r, "inventory_id", 0),
			PartNum:     strField(r, "part_num"),
			ColorID:     intField(r, "color_id", 0),
			Quantity:    intField(r, "quantity", 1),
			IsSpare:     boolSpareField(r, "is_spare"),
			ImgURL:      strField(r, "img_url"),
		})
	}
	return out
}

// CleanMinifigs normalizes rows for the minifigs table.
func CleanMinifigs(rows []Row) []types.Minifig {
	out := make([]types.Minifig, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Minifig{
			FigNum:   strField(r, "fig_num"),
			Name:     strField(r, "name"),
			NumParts: intField(r, "num_parts", 0),
			ImgURL:   strField(r, "img_url"),
		})
	}
	return out
}

// CleanInventoryMinifigs normalizes rows for the inventory_minifigs join
// table.
func CleanInventoryMinifigs(rows []Row) []types.InventoryMinifig {
	out := make([]types.InventoryMinifig, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.InventoryMinifig{
			InventoryID: intField(r, "inventory_id", 0),
			FigNum:      strField(r, "fig_num"),
			Quantity:    intField(r, "quantity", 1),
		})
	}
	return out
}

// Clean dispatches to the per-table cleaner and reports the record count.
// The returned value is the typed slice BulkReplace expects for the table.
func Clean(table string, rows []Row) (any, int, error) {
	switch table {
	case types.TableParts:
		recs := CleanParts(rows)
		return recs, len(recs), nil
	case types.TablePartCategories:
		recs := CleanCategories(rows)
		return recs, len(recs), nil
	case types.TableColors:
		recs := CleanColors(rows)
		return recs, len(recs), nil
	case types.TableSets:
		recs := CleanSets(rows)
		return recs, len(recs), nil
	case types.TableInventories:
		recs := CleanInventories(rows)
		return recs, len(recs), nil
	case types.TableInventoryParts:
		recs := CleanInventoryParts(rows)
		return recs, len(recs), nil
	case types.TableMinifigs:
		recs := CleanMinifigs(rows)
		return recs, len(recs), nil
	case types.TableInventoryMinifigs:
		recs := CleanInventoryMinifigs(rows)
		return recs, len(recs), nil
	default:
		return nil, 0, types.ErrTableNotFound
	}
}
