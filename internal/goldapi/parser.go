// internal/goldapi/parser.go
package goldapi

import (
	"sort"
	"time"

	"albion-gold-bot/internal/types"
)

// Timestamp layout of the upstream records: UTC, second precision, no offset.
const recordTimeLayout = "2006-01-02T15:04:05"

// ParseRecords validates raw API entries and returns them sorted ascending
// by timestamp. Entries with a missing field, an unparsable timestamp or a
// negative price are dropped without error: upstream data is noisy and a
// partial window beats no window. Duplicate timestamps are kept.
func ParseRecords(raw []types.RawGoldRecord) []types.PriceRecord {
	records := make([]types.PriceRecord, 0, len(raw))

	for _, entry := range raw {
		if entry.Timestamp == "" || entry.Price == "" {
			continue
		}

		ts, err := time.ParseInLocation(recordTimeLayout, entry.Timestamp, time.UTC)
		if err != nil {
			continue
		}

		price, err := entry.Price.Int64()
		if err != nil || price < 0 {
			continue
		}

		records = append(records, types.PriceRecord{
			Timestamp: ts,
			Price:     int(price),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records
}
