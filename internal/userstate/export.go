package userstate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// ExportPayload is the backup/restore format. A current-version export
// carries the unified document; payloads produced by old installations
// carry legacy fragments instead, and import routes those through the
// regular migration path.
type ExportPayload struct {
	UnifiedData     *types.UnifiedDocument `json:"unified_data,omitempty"`
	LegacyInventory []LegacyInventoryItem  `json:"legacy_inventory,omitempty"`
	LegacySets      []LegacySet            `json:"legacy_sets,omitempty"`
	ExportDate      time.Time              `json:"export_date"`
}

// Export snapshots the current document into a payload.
func (m *Manager) Export() ExportPayload {
	doc := m.Document()
	return ExportPayload{
		UnifiedData: &doc,
		ExportDate:  time.Now().UTC(),
	}
}

// ExportJSON renders the export payload with indentation, matching the
// hand-editable backup files users already have.
func (m *Manager) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(m.Export(), "", "  ")
}

// Import replaces the current document from a payload. A unified block at
// the current version is applied directly; anything else is treated as
// legacy fragments and migrated. A payload carrying neither is rejected
// without touching state.
func (m *Manager) Import(ctx context.Context, payload ExportPayload) error {
	if payload.UnifiedData != nil && payload.UnifiedData.Version == types.DocumentVersion {
		m.mu.Lock()
		defer m.mu.Unlock()
		doc := copyDocument(payload.UnifiedData)
		m.doc = &doc
		return m.saveLocked()
	}

	if len(payload.LegacyInventory) == 0 && len(payload.LegacySets) == 0 {
		return types.ErrInvalidImport
	}

	frags := LegacyFragments{
		Inventory: payload.LegacyInventory,
		Sets:      payload.LegacySets,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = m.migrateFromLegacy(ctx, frags)
	return m.saveLocked()
}

// ImportJSON decodes a backup file and imports it. Undecodable input is an
// invalid-import error, not a storage error.
func (m *Manager) ImportJSON(ctx context.Context, data []byte) error {
	var payload ExportPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return types.ErrInvalidImport
	}
	return m.Import(ctx, payload)
}
