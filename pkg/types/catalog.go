package types

// Standard catalogue table names.
const (
	TableParts             = "parts"
	TablePartCategories    = "part_categories"
	TableColors            = "colors"
	TableSets              = "sets"
	TableInventories       = "inventories"
	TableInventoryParts    = "inventory_parts"
	TableMinifigs          = "minifigs"
	TableInventoryMinifigs = "inventory_minifigs"
	TableMetadata          = "metadata"
)

// StandardTableNames lists every catalogue table for enumeration. Metadata
// is listed last so DeleteAll clears derived counters after their sources.
var StandardTableNames = []string{
	TableParts,
	TablePartCategories,
	TableColors,
	TableSets,
	TableInventories,
	TableInventoryParts,
	TableMinifigs,
	TableInventoryMinifigs,
	TableMetadata,
}

// ReservedColorID is the color id reserved for black/unknown. Lookups that
// cannot resolve a color name fall back to it.
const ReservedColorID = 0

// Part is a reference catalogue part, immutable once loaded.
type Part struct {
	PartNum    string `json:"part_num"`
	Name       string `json:"name"`
	CategoryID int    `json:"part_cat_id"`
}

// Category is a reference part category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Color is a reference color. ID 0 is reserved (see ReservedColorID).
type Color struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Set is a reference catalogue set.
type Set struct {
	SetNum   string `json:"set_num"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	ThemeID  int    `json:"theme_id"`
	NumParts int    `json:"num_parts"`
	ImgURL   string `json:"img_url"`
}

// Inventory maps an opaque inventory id to a catalogue set number. One set
// may have multiple inventory versions.
type Inventory struct {
	ID      int    `json:"id"`
	Version int    `json:"version"`
	SetNum  string `json:"set_num"`
}

// InventoryPart is one row of the inventory→part join table. ID is assigned
// by the store on insert.
type InventoryPart struct {
	ID          int64  `json:"id,omitempty"`
	InventoryID int    `json:"inventory_id"`
	PartNum     string `json:"part_num"`
	ColorID     int    `json:"color_id"`
	Quantity    int    `json:"quantity"`
	IsSpare     bool   `json:"is_spare"`
	ImgURL      string `json:"img_url"`
}

// Minifig is a reference minifigure.
type Minifig struct {
	FigNum   string `json:"fig_num"`
	Name     string `json:"name"`
	NumParts int    `json:"num_parts"`
	ImgURL   string `json:"img_url"`
}

// InventoryMinifig is one row of the inventory→minifig join table.
type InventoryMinifig struct {
	ID          int64  `json:"id,omitempty"`
	InventoryID int    `json:"inventory_id"`
	FigNum      string `json:"fig_num"`
	Quantity    int    `json:"quantity"`
}

// SetInfo is the projection of a Set used by callers that render set
// summaries.
type SetInfo struct {
	Number   string `json:"number"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	NumParts int    `json:"num_parts"`
	ImgURL   string `json:"img_url"`
}

// MinifigInSet is a minifig occurrence within a set inventory, enriched
// with the minifig's reference data.
type MinifigInSet struct {
	FigNum   string `json:"fig_num"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	ImgURL   string `json:"img_url"`
	NumParts int    `json:"num_parts"`
}

// MinifigPart is one part of a minifig's own inventory, enriched with part
// and color names.
type MinifigPart struct {
	PartNum   string `json:"part_num"`
	Name      string `json:"name"`
	ColorID   int    `json:"color_id"`
	ColorName string `json:"color_name"`
	Quantity  int    `json:"quantity"`
	ImgURL    string `json:"img_url"`
}
