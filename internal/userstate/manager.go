package userstate

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// ColorLookup resolves a color name to its catalogue record. The catalogue
// store satisfies it; migration is its only consumer.
type ColorLookup interface {
	ColorByName(ctx context.Context, name string) (types.Color, error)
}

// Manager owns the in-memory unified document and mediates every mutation
// to it. Mutations are serialized behind one mutex; there are never
// concurrent writers to the document. Any mutation touching inventory or
// set ownership clears the stored analysis hashes, so a later cache read is
// guaranteed to see the change.
type Manager struct {
	mu     sync.Mutex
	docs   *DocStore
	colors ColorLookup
	log    zerolog.Logger

	doc *types.UnifiedDocument
}

// NewManager wires a manager over the document store. colors may be nil
// when no catalogue is available; migration then falls back to the
// reserved color id for unresolvable names.
func NewManager(docs *DocStore, colors ColorLookup, logger zerolog.Logger) *Manager {
	return &Manager{docs: docs, colors: colors, log: logger}
}

// Load reads the persisted document into memory. A missing document or one
// tagged with an older version is rebuilt from legacy fragments and saved
// back under the current version.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok, err := m.docs.LoadDocument()
	if err != nil {
		return err
	}
	if ok && doc.Version == types.DocumentVersion {
		m.doc = doc
		return nil
	}

	frags, err := m.docs.LoadLegacyFragments()
	if err != nil {
		return err
	}
	m.log.Info().Bool("had_document", ok).Msg("migrating user state to unified document")
	m.doc = m.migrateFromLegacy(ctx, frags)
	if err := m.saveLocked(); err != nil {
		return err
	}
	return m.docs.ClearLegacyFragments()
}

// Save persists the full document as a single replace, refreshing its
// timestamp.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	m.doc.Timestamp = time.Now().UTC()
	return m.docs.SaveDocument(m.doc)
}

// Document returns a deep copy of the current document for display and
// export. Callers never see the live pointer.
func (m *Manager) Document() types.UnifiedDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyDocument(m.doc)
}

func copyDocument(doc *types.UnifiedDocument) types.UnifiedDocument {
	out := *doc
	out.Inventory = append([]types.UserInventoryItem(nil), doc.Inventory...)
	out.Sets = make([]types.UserSet, len(doc.Sets))
	for i, s := range doc.Sets {
		s.Parts = append([]types.UserSetPart(nil), s.Parts...)
		out.Sets[i] = s
	}
	out.AnalysisCache.RareParts = append([]types.RarePart(nil), doc.AnalysisCache.RareParts...)
	out.AnalysisCache.PossibleSets = append([]types.PossibleSet(nil), doc.AnalysisCache.PossibleSets...)
	return out
}

// Inventory returns a copy of the owned loose-part list.
func (m *Manager) Inventory() []types.UserInventoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.UserInventoryItem(nil), m.doc.Inventory...)
}

func (m *Manager) findInventory(partNum string, colorID int) int {
	for i, item := range m.doc.Inventory {
		if item.PartNum == partNum && item.ColorID == colorID {
			return i
		}
	}
	return -1
}

// UpdateInventory upserts one owned part/color row. quantity <= 0 removes
// the row; either way the analysis cache is invalidated.
func (m *Manager) UpdateInventory(partNum string, colorID int, colorName string, quantity int, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if category == "" {
		category = "Unknown"
	}
	idx := m.findInventory(partNum, colorID)
	switch {
	case quantity <= 0:
		if idx >= 0 {
			m.doc.Inventory = append(m.doc.Inventory[:idx], m.doc.Inventory[idx+1:]...)
		}
	case idx >= 0:
		m.doc.Inventory[idx].Quantity = quantity
		m.doc.Inventory[idx].Category = category
	default:
		m.doc.Inventory = append(m.doc.Inventory, types.UserInventoryItem{
			PartNum:   partNum,
			ColorID:   colorID,
			ColorName: colorName,
			Quantity:  quantity,
			Category:  category,
		})
	}

	m.invalidateCacheLocked()
	return m.saveLocked()
}

// InventoryQuantity returns the owned quantity for a part/color, zero when
// the row does not exist.
func (m *Manager) InventoryQuantity(partNum string, colorID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := m.findInventory(partNum, colorID); idx >= 0 {
		return m.doc.Inventory[idx].Quantity
	}
	return 0
}

// Sets returns a copy of the tracked sets.
func (m *Manager) Sets() []types.UserSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.UserSet, len(m.doc.Sets))
	for i, s := range m.doc.Sets {
		s.Parts = append([]types.UserSetPart(nil), s.Parts...)
		out[i] = s
	}
	return out
}

func (m *Manager) findSet(number string) int {
	for i, s := range m.doc.Sets {
		if s.Number == number {
			return i
		}
	}
	return -1
}

// UpdateSet creates or renames a tracked set. A nil parts slice leaves an
// existing set's parts untouched.
func (m *Manager) UpdateSet(number, name string, parts []types.UserSetPart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.findSet(number); idx >= 0 {
		m.doc.Sets[idx].Name = name
		if parts != nil {
			m.doc.Sets[idx].Parts = parts
		}
	} else {
		if parts == nil {
			parts = []types.UserSetPart{}
		}
		m.doc.Sets = append(m.doc.Sets, types.UserSet{Number: number, Name: name, Parts: parts})
	}
	return m.saveLocked()
}

// UpdateSetPartOwned sets the owned quantity of one part requirement,
// clamped to zero from below, and invalidates the analysis cache.
func (m *Manager) UpdateSetPartOwned(setNumber, partNum string, colorID, quantityOwned int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.findSet(setNumber)
	if idx < 0 {
		return types.ErrSetNotFound
	}
	set := &m.doc.Sets[idx]
	for i := range set.Parts {
		p := &set.Parts[i]
		if p.PartNum == partNum && p.ColorID == colorID {
			p.QuantityOwned = max(0, quantityOwned)
			m.invalidateCacheLocked()
			return m.saveLocked()
		}
	}
	return types.ErrPartNotInSet
}

// RemoveSet drops a tracked set. Removing an unknown set is a no-op.
func (m *Manager) RemoveSet(number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.findSet(number)
	if idx < 0 {
		return nil
	}
	m.doc.Sets = append(m.doc.Sets[:idx], m.doc.Sets[idx+1:]...)
	m.invalidateCacheLocked()
	return m.saveLocked()
}

// TransferToSet moves quantity pieces of a part/color from the loose
// inventory into a tracked set's owned count, clamped to the set's
// requirement. Every precondition is checked before anything is touched;
// a failed transfer leaves both the inventory and the set unchanged.
func (m *Manager) TransferToSet(partNum string, colorID int, setNumber string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	invIdx := m.findInventory(partNum, colorID)
	if invIdx < 0 {
		return types.ErrItemNotFound
	}
	if m.doc.Inventory[invIdx].Quantity < quantity {
		return types.ErrInsufficientQuantity
	}
	setIdx := m.findSet(setNumber)
	if setIdx < 0 {
		return types.ErrSetNotFound
	}
	set := &m.doc.Sets[setIdx]
	partIdx := -1
	for i, p := range set.Parts {
		if p.PartNum == partNum && p.ColorID == colorID {
			partIdx = i
			break
		}
	}
	if partIdx < 0 {
		return types.ErrPartNotInSet
	}

	m.doc.Inventory[invIdx].Quantity -= quantity
	if m.doc.Inventory[invIdx].Quantity <= 0 {
		m.doc.Inventory = append(m.doc.Inventory[:invIdx], m.doc.Inventory[invIdx+1:]...)
	}
	part := &set.Parts[partIdx]
	part.QuantityOwned = min(part.QuantityRequired, part.QuantityOwned+quantity)

	m.invalidateCacheLocked()
	return m.saveLocked()
}

// SetPreferences replaces the stored user preferences.
func (m *Manager) SetPreferences(prefs types.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.User.Preferences = prefs
	return m.saveLocked()
}

// Preferences returns the stored user preferences.
func (m *Manager) Preferences() types.Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.User.Preferences
}

// Stats summarizes the document for display.
func (m *Manager) Stats() types.UserStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := types.UserStats{
		InventoryCount: len(m.doc.Inventory),
		SetsCount:      len(m.doc.Sets),
	}
	for _, item := range m.doc.Inventory {
		stats.TotalInventoryPieces += item.Quantity
	}
	for _, set := range m.doc.Sets {
		if set.Complete() {
			stats.CompletedSets++
		}
	}
	return stats
}

// SaveAnalysisCache stores fresh analysis results together with the hashes
// of the state they were computed from.
func (m *Manager) SaveAnalysisCache(rareParts []types.RarePart, possibleSets []types.PossibleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	invHash := InventoryHash(m.doc.Inventory)
	setsHash := SetsHash(m.doc.Sets)
	m.doc.AnalysisCache = types.AnalysisCache{
		RareParts:         rareParts,
		PossibleSets:      possibleSets,
		LastInventoryHash: &invHash,
		LastSetsHash:      &setsHash,
		Timestamp:         time.Now().UnixMilli(),
	}
	return m.saveLocked()
}

// AnalysisCache returns a copy of the stored cache regardless of validity.
func (m *Manager) AnalysisCache() types.AnalysisCache {
	m.mu.Lock()
	defer m.mu.Unlock()
	cache := m.doc.AnalysisCache
	cache.RareParts = append([]types.RarePart(nil), cache.RareParts...)
	cache.PossibleSets = append([]types.PossibleSet(nil), cache.PossibleSets...)
	return cache
}

// IsCacheValid recomputes both content hashes and compares them to the
// stored ones. Cleared hashes always read as invalid.
func (m *Manager) IsCacheValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cache := m.doc.AnalysisCache
	if cache.LastInventoryHash == nil || cache.LastSetsHash == nil {
		return false
	}
	return *cache.LastInventoryHash == InventoryHash(m.doc.Inventory) &&
		*cache.LastSetsHash == SetsHash(m.doc.Sets)
}

// InvalidateCache clears the stored hashes so the next cache read forces a
// recompute. The cached results are kept; only their authority is revoked.
func (m *Manager) InvalidateCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidateCacheLocked()
	return m.saveLocked()
}

func (m *Manager) invalidateCacheLocked() {
	m.doc.AnalysisCache.LastInventoryHash = nil
	m.doc.AnalysisCache.LastSetsHash = nil
}
