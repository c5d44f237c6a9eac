// internal/types/gold.go
package types

import (
	"encoding/json"
	"time"
)

// RawGoldRecord is one entry exactly as the Albion Data API returns it.
// Upstream data is noisy, so both fields stay untyped until parsing.
type RawGoldRecord struct {
	Price     json.Number `json:"price"`
	Timestamp string      `json:"timestamp"`
}

// PriceRecord is a validated gold price at one point in time.
type PriceRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Price     int       `json:"price"`
}

// ResolvedHistory is what the history resolver settled on: the date it
// actually found data for (which may be earlier than the one requested)
// plus every record the API returned for that window.
type ResolvedHistory struct {
	EffectiveDate time.Time     `json:"effective_date"`
	Records       []PriceRecord `json:"records"`
	DaysBack      int           `json:"days_back"`
}

// Limited reports whether the window came back with fewer than the full
// seven days of data. Display concern only, never an error.
func (h *ResolvedHistory) Limited() bool {
	return len(h.Records) < 7
}

// Latest returns the newest record of the window. Records are kept sorted
// ascending, so this is the last element. Callers must not invoke it on an
// empty history; the resolver never produces one.
func (h *ResolvedHistory) Latest() PriceRecord {
	return h.Records[len(h.Records)-1]
}
