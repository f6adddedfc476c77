// Package catalog implements the versioned SQLite store for the reference
// catalogue: parts, categories, colors, sets, inventories, minifigs, the
// two join tables, and the generic metadata table.
package catalog

// schemaVersion is the fixed schema version the store opens at, tracked in
// PRAGMA user_version. A repair pass bumps it by exactly one.
const schemaVersion = 8

// Table DDL. Every statement uses IF NOT EXISTS so a repair pass creates
// only what is absent and never touches existing data.
const (
	createParts = `CREATE TABLE IF NOT EXISTS parts (
    part_num TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    part_cat_id INTEGER NOT NULL DEFAULT 0
);`

	createPartCategories = `CREATE TABLE IF NOT EXISTS part_categories (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);`

	createColors = `CREATE TABLE IF NOT EXISTS colors (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);`

	createSets = `CREATE TABLE IF NOT EXISTS sets (
    set_num TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    year INTEGER NOT NULL DEFAULT 0,
    theme_id INTEGER NOT NULL DEFAULT 0,
    num_parts INTEGER NOT NULL DEFAULT 0,
    img_url TEXT NOT NULL DEFAULT ''
);`

	createInventories = `CREATE TABLE IF NOT EXISTS inventories (
    id INTEGER PRIMARY KEY,
    version INTEGER NOT NULL DEFAULT 1,
    set_num TEXT NOT NULL
);`

	createInventoryParts = `CREATE TABLE IF NOT EXISTS inventory_parts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    inventory_id INTEGER NOT NULL,
    part_num TEXT NOT NULL,
    color_id INTEGER NOT NULL DEFAULT 0,
    quantity INTEGER NOT NULL DEFAULT 1,
    is_spare INTEGER NOT NULL DEFAULT 0,
    img_url TEXT NOT NULL DEFAULT ''
);`

	createMinifigs = `CREATE TABLE IF NOT EXISTS minifigs (
    fig_num TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    num_parts INTEGER NOT NULL DEFAULT 0,
    img_url TEXT NOT NULL DEFAULT ''
);`

	createInventoryMinifigs = `CREATE TABLE IF NOT EXISTS inventory_minifigs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    inventory_id INTEGER NOT NULL,
    fig_num TEXT NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 1
);`

	createMetadata = `CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// Secondary index DDL.
const (
	idxPartsCategory        = `CREATE INDEX IF NOT EXISTS idx_parts_part_cat_id ON parts(part_cat_id);`
	idxPartsName            = `CREATE INDEX IF NOT EXISTS idx_parts_name ON parts(name);`
	idxPartCategoriesName   = `CREATE INDEX IF NOT EXISTS idx_part_categories_name ON part_categories(name);`
	idxColorsName           = `CREATE INDEX IF NOT EXISTS idx_colors_name ON colors(name);`
	idxSetsName             = `CREATE INDEX IF NOT EXISTS idx_sets_name ON sets(name);`
	idxSetsYear             = `CREATE INDEX IF NOT EXISTS idx_sets_year ON sets(year);`
	idxSetsTheme            = `CREATE INDEX IF NOT EXISTS idx_sets_theme_id ON sets(theme_id);`
	idxInventoriesSetNum    = `CREATE INDEX IF NOT EXISTS idx_inventories_set_num ON inventories(set_num);`
	idxInvPartsPartNum      = `CREATE INDEX IF NOT EXISTS idx_inventory_parts_part_num ON inventory_parts(part_num);`
	idxInvPartsColorID      = `CREATE INDEX IF NOT EXISTS idx_inventory_parts_color_id ON inventory_parts(color_id);`
	idxInvPartsInventoryID  = `CREATE INDEX IF NOT EXISTS idx_inventory_parts_inventory_id ON inventory_parts(inventory_id);`
	idxMinifigsName         = `CREATE INDEX IF NOT EXISTS idx_minifigs_name ON minifigs(name);`
	idxInvMinifigsInventory = `CREATE INDEX IF NOT EXISTS idx_inventory_minifigs_inventory_id ON inventory_minifigs(inventory_id);`
	idxInvMinifigsFigNum    = `CREATE INDEX IF NOT EXISTS idx_inventory_minifigs_fig_num ON inventory_minifigs(fig_num);`
)

// tableDDL maps each table name to its CREATE statement and the indexes
// that belong to it. The repair pass walks this map to create whatever a
// damaged store is missing.
var tableDDL = map[string]struct {
	create  string
	indexes []string
}{
	"parts":              {createParts, []string{idxPartsCategory, idxPartsName}},
	"part_categories":    {createPartCategories, []string{idxPartCategoriesName}},
	"colors":             {createColors, []string{idxColorsName}},
	"sets":               {createSets, []string{idxSetsName, idxSetsYear, idxSetsTheme}},
	"inventories":        {createInventories, []string{idxInventoriesSetNum}},
	"inventory_parts":    {createInventoryParts, []string{idxInvPartsPartNum, idxInvPartsColorID, idxInvPartsInventoryID}},
	"minifigs":           {createMinifigs, []string{idxMinifigsName}},
	"inventory_minifigs": {createInventoryMinifigs, []string{idxInvMinifigsInventory, idxInvMinifigsFigNum}},
	"metadata":           {createMetadata, nil},
}
