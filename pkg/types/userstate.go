package types

import "time"

// DocumentVersion tags the current unified document layout. Any loaded
// document carrying a different version is routed through legacy migration.
const DocumentVersion = "2.0"

// UnifiedDocument is the single persisted blob holding all user-owned state
// and the analysis cache.
type UnifiedDocument struct {
	Version       string              `json:"version"`
	Timestamp     time.Time           `json:"timestamp"`
	User          UserInfo            `json:"user"`
	Inventory     []UserInventoryItem `json:"inventory"`
	Sets          []UserSet           `json:"sets"`
	AnalysisCache AnalysisCache       `json:"analysisCache"`
}

// UserInfo carries user-scoped settings inside the unified document.
type UserInfo struct {
	Preferences Preferences `json:"preferences"`
}

// Preferences are the persisted user preferences.
type Preferences struct {
	Theme    string `json:"theme"`
	AutoSave bool   `json:"autoSave"`
	APIKey   string `json:"apiKey"`
}

// UserInventoryItem is one owned part/color row. Quantity is always
// positive; a row reaching zero is removed rather than stored.
type UserInventoryItem struct {
	PartNum   string `json:"part_num"`
	ColorID   int    `json:"color_id"`
	ColorName string `json:"color_name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
}

// UserSet is a partially built set tracked by the user.
type UserSet struct {
	Number string        `json:"number"`
	Name   string        `json:"name"`
	Parts  []UserSetPart `json:"parts"`
}

// UserSetPart tracks ownership of one part/color requirement within a set.
// QuantityOwned stays within [0, QuantityRequired].
type UserSetPart struct {
	PartNum          string `json:"part_num"`
	ColorID          int    `json:"color_id"`
	QuantityRequired int    `json:"quantity"`
	QuantityOwned    int    `json:"quantity_owned"`
}

// Complete reports whether every part of the set is fully owned.
func (s UserSet) Complete() bool {
	for _, p := range s.Parts {
		if p.QuantityOwned < p.QuantityRequired {
			return false
		}
	}
	return true
}

// AnalysisCache holds the last analysis results together with the content
// hashes of the inventory and set state they were computed from. The cache
// is authoritative only while both stored hashes equal freshly recomputed
// ones; nil hashes mean invalidated.
type AnalysisCache struct {
	RareParts         []RarePart    `json:"rareParts"`
	PossibleSets      []PossibleSet `json:"possibleSets"`
	LastInventoryHash *int32        `json:"lastInventoryHash"`
	LastSetsHash      *int32        `json:"lastSetsHash"`
	Timestamp         int64         `json:"timestamp"`
}

// RarePart is an owned part/color referenced by at most the rarity
// threshold of distinct catalogue inventories.
type RarePart struct {
	PartNum     string `json:"part_num"`
	ColorID     int    `json:"color_id"`
	SetCount    int    `json:"count"`
	Inventories []int  `json:"inventories,omitempty"`
}

// PossibleSet is a catalogue inventory whose owned-part overlap meets its
// size-tiered threshold.
type PossibleSet struct {
	InventoryID     int     `json:"inventory_id"`
	SetNum          string  `json:"set_num"`
	MatchCount      int     `json:"matchCount"`
	TotalParts      int     `json:"totalParts"`
	MatchPercentage float64 `json:"matchPercentage"`
}

// UserStats summarizes the unified document for display.
type UserStats struct {
	InventoryCount       int `json:"inventoryCount"`
	TotalInventoryPieces int `json:"totalInventoryPieces"`
	SetsCount            int `json:"setsCount"`
	CompletedSets        int `json:"completedSets"`
}

// NewUnifiedDocument returns an empty document at the current version.
func NewUnifiedDocument() *UnifiedDocument {
	return &UnifiedDocument{
		Version:   DocumentVersion,
		Timestamp: time.Now().UTC(),
		User: UserInfo{
			Preferences: Preferences{Theme: "light", AutoSave: true},
		},
		Inventory: []UserInventoryItem{},
		Sets:      []UserSet{},
	}
}
