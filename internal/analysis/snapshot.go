// Package analysis computes rarity classification and possible-set
// matching over a catalogue snapshot and the user's owned parts. Both
// computations are pure functions re-runnable from scratch on a cache
// miss; the engine runs them on a worker goroutine driven by envelopes.
package analysis

import (
	"context"
	"sort"

	"github.com/jfexwana/lego-manager/internal/catalog"
	"github.com/jfexwana/lego-manager/pkg/types"
)

// PartColorKey identifies a part/color combination.
type PartColorKey struct {
	PartNum string
	ColorID int
}

// Snapshot is the grouped view of the catalogue both analyses consume. It
// is built in a single streaming pass over inventory_parts so reference
// datasets of millions of rows are never materialized twice.
type Snapshot struct {
	// PartRefs maps each part/color to the distinct inventory ids
	// referencing it, ascending.
	PartRefs map[PartColorKey][]int
	// InventoryPairs maps each inventory id to its distinct part/color
	// pairs.
	InventoryPairs map[int][]PartColorKey
	// InventoryIDs is the ascending list of inventory ids with parts,
	// fixing the iteration (and therefore tie-break) order.
	InventoryIDs []int
	// InventoryToSet resolves inventory ids to catalogue set numbers.
	InventoryToSet map[int]string
}

// BuildSnapshot streams the join table once and loads the inventory→set
// mapping. Inventories sharing a set number all map to it; reverse lookups
// elsewhere take the first (lowest-id) match.
func BuildSnapshot(ctx context.Context, store *catalog.Store) (*Snapshot, error) {
	partRefs := make(map[PartColorKey]map[int]struct{})
	invPairs := make(map[int]map[PartColorKey]struct{})

	err := store.ForEachInventoryPart(ctx, func(ip types.InventoryPart) error {
		key := PartColorKey{PartNum: ip.PartNum, ColorID: ip.ColorID}

		refs, ok := partRefs[key]
		if !ok {
			refs = make(map[int]struct{})
			partRefs[key] = refs
		}
		refs[ip.InventoryID] = struct{}{}

		pairs, ok := invPairs[ip.InventoryID]
		if !ok {
			pairs = make(map[PartColorKey]struct{})
			invPairs[ip.InventoryID] = pairs
		}
		pairs[key] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		PartRefs:       make(map[PartColorKey][]int, len(partRefs)),
		InventoryPairs: make(map[int][]PartColorKey, len(invPairs)),
		InventoryIDs:   make([]int, 0, len(invPairs)),
		InventoryToSet: make(map[int]string),
	}

	for key, refs := range partRefs {
		ids := make([]int, 0, len(refs))
		for id := range refs {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		snap.PartRefs[key] = ids
	}

	for id, pairs := range invPairs {
		keys := make([]PartColorKey, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		snap.InventoryPairs[id] = keys
		snap.InventoryIDs = append(snap.InventoryIDs, id)
	}
	sort.Ints(snap.InventoryIDs)

	inventories, err := store.AllInventories(ctx)
	if err != nil {
		return nil, err
	}
	for _, inv := range inventories {
		snap.InventoryToSet[inv.ID] = inv.SetNum
	}

	return snap, nil
}

// SetNumForInventory resolves an inventory id to its set number.
func (s *Snapshot) SetNumForInventory(id int) (string, bool) {
	num, ok := s.InventoryToSet[id]
	return num, ok && num != ""
}

// InventoryForSetNum is the reverse lookup: the first (lowest-id)
// inventory recorded for a set number. Not unique when a set has several
// inventory versions.
func (s *Snapshot) InventoryForSetNum(setNum string) (int, bool) {
	best := -1
	for id, num := range s.InventoryToSet {
		if num == setNum && (best == -1 || id < best) {
			best = id
		}
	}
	return best, best != -1
}
