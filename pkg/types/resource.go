package types

// DefaultResourceBaseURL is the public CDN serving the compressed catalogue
// dumps. Overridable through configuration for mirrors and tests.
const DefaultResourceBaseURL = "https://cdn.rebrickable.com/media/downloads/"

// Resource describes one downloadable catalogue dump: the table it loads,
// the compressed file name relative to the base URL, and a human-readable
// size estimate for display.
type Resource struct {
	Table        string `json:"table"`
	FileName     string `json:"file_name"`
	URL          string `json:"url"`
	SizeEstimate string `json:"size_estimate"`
}

// requiredFiles lists the eight dumps a complete catalogue load needs, in
// load order: parts before inventory_parts so category counters can resolve.
var requiredFiles = []struct {
	table    string
	file     string
	estimate string
}{
	{TableParts, "parts.csv.gz", "~60 MB"},
	{TablePartCategories, "part_categories.csv.gz", "~1 KB"},
	{TableColors, "colors.csv.gz", "~10 KB"},
	{TableSets, "sets.csv.gz", "~15 MB"},
	{TableInventories, "inventories.csv.gz", "~5 MB"},
	{TableInventoryParts, "inventory_parts.csv.gz", "~250 MB"},
	{TableMinifigs, "minifigs.csv.gz", "~2 MB"},
	{TableInventoryMinifigs, "inventory_minifigs.csv.gz", "~1 MB"},
}

// RequiredResources returns the full set of resource descriptors resolved
// against baseURL. An empty baseURL selects DefaultResourceBaseURL.
func RequiredResources(baseURL string) []Resource {
	if baseURL == "" {
		baseURL = DefaultResourceBaseURL
	}
	out := make([]Resource, 0, len(requiredFiles))
	for _, f := range requiredFiles {
		out = append(out, Resource{
			Table:        f.table,
			FileName:     f.file,
			URL:          baseURL + f.file,
			SizeEstimate: f.estimate,
		})
	}
	return out
}

// ResourceForTable returns the descriptor for one table, or false when the
// table has no downloadable dump.
func ResourceForTable(baseURL, table string) (Resource, bool) {
	for _, r := range RequiredResources(baseURL) {
		if r.Table == table {
			return r, true
		}
	}
	return Resource{}, false
}
