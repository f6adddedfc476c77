package userstate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// simpleHash is a 32-bit string hash over the canonical state string. It is
// a cache fingerprint, not a cryptographic digest: collisions only cost a
// stale analysis being trusted, never corruption.
func simpleHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	return h
}

// InventoryHash fingerprints the loose-part inventory. Entries are sorted
// after rendering, so two inventories with the same content hash the same
// regardless of slice order.
func InventoryHash(inventory []types.UserInventoryItem) int32 {
	entries := make([]string, 0, len(inventory))
	for _, item := range inventory {
		entries = append(entries, fmt.Sprintf("%s_%d_%d", item.PartNum, item.ColorID, item.Quantity))
	}
	sort.Strings(entries)
	return simpleHash(strings.Join(entries, "|"))
}

// SetsHash fingerprints the tracked sets and their per-part owned counts.
// Part order within a set is preserved; set order is not.
func SetsHash(sets []types.UserSet) int32 {
	entries := make([]string, 0, len(sets))
	for _, set := range sets {
		parts := make([]string, 0, len(set.Parts))
		for _, p := range set.Parts {
			parts = append(parts, fmt.Sprintf("%s_%d_%d", p.PartNum, p.ColorID, p.QuantityOwned))
		}
		entries = append(entries, set.Number+"_"+strings.Join(parts, ","))
	}
	sort.Strings(entries)
	return simpleHash(strings.Join(entries, "|"))
}
