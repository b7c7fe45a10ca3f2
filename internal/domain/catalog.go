package domain

import "time"

// CatalogEntry is a single purchasable product from the remote menu
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Price  `json:"price"`
}

// CatalogSnapshot is an immutable copy of the menu at a point in time.
// Entries keep the order of the remote document.
type CatalogSnapshot struct {
	Entries   []CatalogEntry `json:"entries"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// NewCatalogSnapshot copies entries so later changes to the source slice
// never leak into the snapshot.
func NewCatalogSnapshot(entries []CatalogEntry, fetchedAt time.Time) *CatalogSnapshot {
	copied := make([]CatalogEntry, len(entries))
	copy(copied, entries)
	return &CatalogSnapshot{Entries: copied, FetchedAt: fetchedAt}
}

// Len returns the number of entries; safe on a nil snapshot
func (s *CatalogSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// MatchResult pairs a catalog entry with its similarity score (0-100)
type MatchResult struct {
	Entry CatalogEntry `json:"entry"`
	Score int          `json:"score"`
}
