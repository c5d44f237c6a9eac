// internal/navigation/state.go
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"albion-gold-bot/internal/chart"
	"albion-gold-bot/internal/types"
	"albion-gold-bot/pkg/logger"
)

// Action is one of the three history navigation buttons.
type Action string

const (
	ActionPrev  Action = "prev"  // ⬅️ one day earlier
	ActionToday Action = "today" // ⏺️ back to now
	ActionNext  Action = "next"  // ➡️ one day later
)

// ErrNoEntry marks a navigation event against a message this process never
// rendered (or an unknown button). Callers treat it as a no-op.
var ErrNoEntry = errors.New("pesan tidak dikenal")

// ErrTooOld marks a backward step past the history horizon.
var ErrTooOld = errors.New("data historis di luar jangkauan")

// Entry is the state behind one rendered history message.
type Entry struct {
	Date    time.Time           `json:"date"`
	Records []types.PriceRecord `json:"records"`
}

// Resolver finds history for a target date, falling back to earlier days.
type Resolver interface {
	Resolve(ctx context.Context, target time.Time) (*types.ResolvedHistory, error)
}

// ChartRenderer draws the record window as a PNG.
type ChartRenderer interface {
	Render(records []types.PriceRecord) (*chart.Result, error)
}

// HistoryUpdater swaps the chart and caption of an existing history message.
// Implemented by the Telegram delivery layer.
type HistoryUpdater interface {
	UpdateHistoryMessage(ctx context.Context, chatID, messageID int64, hist *types.ResolvedHistory, png []byte) error
}

// Store mirrors entries outside the process so buttons on messages rendered
// before a restart still work. Optional.
type Store interface {
	SaveEntry(ctx context.Context, messageID int64, entry Entry) error
	GetEntry(ctx context.Context, messageID int64) (*Entry, error)
}

// Registry maps rendered history messages to their navigation state.
// Entries are overwritten on every step and never deleted: volume is tiny
// and a restart clears them anyway.
type Registry struct {
	mu      sync.RWMutex
	entries map[int64]Entry

	resolver Resolver
	renderer ChartRenderer
	updater  HistoryUpdater
	store    Store

	maxHistoryDays int
	now            func() time.Time
}

// NewRegistry builds the registry. maxHistoryDays bounds how far back ⬅️
// steps may travel from today; zero or negative disables the bound.
func NewRegistry(resolver Resolver, renderer ChartRenderer, updater HistoryUpdater, store Store, maxHistoryDays int) *Registry {
	return &Registry{
		entries:        make(map[int64]Entry),
		resolver:       resolver,
		renderer:       renderer,
		updater:        updater,
		store:          store,
		maxHistoryDays: maxHistoryDays,
		now:            time.Now,
	}
}

// SetClock overrides "now" for the ⏺️ action. Test hook.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

// Remember registers the state behind a freshly rendered history message.
func (r *Registry) Remember(ctx context.Context, messageID int64, hist *types.ResolvedHistory) {
	entry := Entry{Date: hist.EffectiveDate, Records: hist.Records}

	r.mu.Lock()
	r.entries[messageID] = entry
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveEntry(ctx, messageID, entry); err != nil {
			logger.Warn("navigation: gagal mirror entry %d: %v", messageID, err)
		}
	}
}

// Entry returns the stored state for messageID, consulting the store mirror
// when memory misses.
func (r *Registry) Entry(ctx context.Context, messageID int64) (*Entry, bool) {
	r.mu.RLock()
	entry, ok := r.entries[messageID]
	r.mu.RUnlock()
	if ok {
		return &entry, true
	}

	if r.store != nil {
		stored, err := r.store.GetEntry(ctx, messageID)
		if err == nil && stored != nil {
			r.mu.Lock()
			r.entries[messageID] = *stored
			r.mu.Unlock()
			return stored, true
		}
	}
	return nil, false
}

// OnNavigate handles one button press on a history message. An unknown
// message or action is ErrNoEntry. When the shifted date resolves, the
// message is re-rendered and the entry replaced; when it does not, the
// stored entry stays untouched and the resolver error comes back so the
// delivery layer can dismiss the interaction.
func (r *Registry) OnNavigate(ctx context.Context, chatID, messageID int64, action Action) error {
	entry, ok := r.Entry(ctx, messageID)
	if !ok {
		return ErrNoEntry
	}

	var target time.Time
	switch action {
	case ActionPrev:
		target = entry.Date.AddDate(0, 0, -1)
		if r.maxHistoryDays > 0 {
			horizon := r.now().AddDate(0, 0, -r.maxHistoryDays)
			if target.Before(horizon) {
				return ErrTooOld
			}
		}
	case ActionNext:
		target = entry.Date.AddDate(0, 0, 1)
	case ActionToday:
		target = r.now()
	default:
		return ErrNoEntry
	}

	hist, err := r.resolver.Resolve(ctx, target)
	if err != nil {
		return err
	}

	result, err := r.renderer.Render(hist.Records)
	if err != nil {
		return fmt.Errorf("navigation render: %w", err)
	}

	if err := r.updater.UpdateHistoryMessage(ctx, chatID, messageID, hist, result.PNG); err != nil {
		return fmt.Errorf("navigation update: %w", err)
	}

	r.Remember(ctx, messageID, hist)
	return nil
}
