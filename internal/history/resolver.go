// internal/history/resolver.go
package history

import (
	"context"
	"fmt"
	"time"

	"albion-gold-bot/internal/goldapi"
	"albion-gold-bot/internal/types"
	"albion-gold-bot/pkg/logger"
)

// windowDays is the trailing range requested per attempt: the current date
// plus the six days before it.
const windowDays = 7

// DefaultMaxFallbackDays bounds the backward scan: two weeks of misses means
// the upstream outage is long enough that stale data would mislead.
const DefaultMaxFallbackDays = 14

// RangeFetcher is the slice of the gold API client the resolver needs.
type RangeFetcher interface {
	Range(ctx context.Context, start, end time.Time) ([]types.RawGoldRecord, error)
}

// Resolver finds the nearest date with available history. Upstream has gaps
// (market downtime, API maintenance), so instead of failing on a miss it
// walks backward one day at a time until some trailing 7-day window returns
// data, and reports which date it actually settled on.
type Resolver struct {
	client          RangeFetcher
	maxFallbackDays int
}

func NewResolver(client RangeFetcher, maxFallbackDays int) *Resolver {
	return &Resolver{
		client:          client,
		maxFallbackDays: maxFallbackDays,
	}
}

// Resolve searches backward from target. Attempt daysBack=0 queries the
// window [target-6d, target]; each following attempt shifts the whole window
// one day earlier, up to maxFallbackDays inclusive. The first window with a
// non-empty, parseable response wins. Forward movement never happens here:
// callers re-invoke with a shifted target instead.
func (r *Resolver) Resolve(ctx context.Context, target time.Time) (*types.ResolvedHistory, error) {
	for daysBack := 0; daysBack <= r.maxFallbackDays; daysBack++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		currentDate := target.AddDate(0, 0, -daysBack)
		startDate := currentDate.AddDate(0, 0, -(windowDays - 1))

		raw, err := r.client.Range(ctx, startDate, currentDate)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// A failed window is treated like an empty one: the next
			// attempt asks for a different range, never the same one.
			logger.Debug("history: window [%s..%s] failed: %v",
				startDate.Format("2006-01-02"), currentDate.Format("2006-01-02"), err)
			continue
		}
		if len(raw) == 0 {
			continue
		}

		records := goldapi.ParseRecords(raw)
		if len(records) == 0 {
			// Non-empty response, zero usable records. Counts as a miss.
			logger.Warn("history: window ending %s contained only malformed records",
				currentDate.Format("2006-01-02"))
			continue
		}

		if daysBack > 0 {
			logger.Info("📉 History: tanggal %s kosong, mundur %d hari ke %s",
				target.Format("2006-01-02"), daysBack, currentDate.Format("2006-01-02"))
		}

		return &types.ResolvedHistory{
			EffectiveDate: currentDate,
			Records:       records,
			DaysBack:      daysBack,
		}, nil
	}

	return nil, fmt.Errorf("%w (%d hari terakhir)", types.ErrNoData, r.maxFallbackDays)
}
