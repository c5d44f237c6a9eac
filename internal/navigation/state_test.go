package navigation

import (
	"context"
	"errors"
	"testing"
	"time"

	"albion-gold-bot/internal/chart"
	"albion-gold-bot/internal/types"
)

type fakeResolver struct {
	targets []time.Time
	result  *types.ResolvedHistory
	err     error
}

func (f *fakeResolver) Resolve(ctx context.Context, target time.Time) (*types.ResolvedHistory, error) {
	f.targets = append(f.targets, target)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &types.ResolvedHistory{
		EffectiveDate: target,
		Records: []types.PriceRecord{
			{Timestamp: target, Price: 3000},
			{Timestamp: target.Add(time.Hour), Price: 3100},
		},
	}, nil
}

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) Render(records []types.PriceRecord) (*chart.Result, error) {
	f.calls++
	return &chart.Result{PNG: []byte("png"), Mode: chart.ModeLine}, nil
}

type fakeHistoryUpdater struct {
	calls    int
	lastHist *types.ResolvedHistory
	err      error
}

func (f *fakeHistoryUpdater) UpdateHistoryMessage(ctx context.Context, chatID, messageID int64, hist *types.ResolvedHistory, png []byte) error {
	f.calls++
	f.lastHist = hist
	return f.err
}

func seeded(t *testing.T, resolver *fakeResolver, updater *fakeHistoryUpdater) (*Registry, time.Time) {
	t.Helper()
	reg := NewRegistry(resolver, &fakeRenderer{}, updater, nil, 0)

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	reg.Remember(context.Background(), 555, &types.ResolvedHistory{
		EffectiveDate: date,
		Records:       []types.PriceRecord{{Timestamp: date, Price: 3000}},
	})
	return reg, date
}

func TestNavigatePrev(t *testing.T) {
	resolver := &fakeResolver{}
	updater := &fakeHistoryUpdater{}
	reg, date := seeded(t, resolver, updater)

	if err := reg.OnNavigate(context.Background(), 1, 555, ActionPrev); err != nil {
		t.Fatalf("OnNavigate: %v", err)
	}

	want := date.AddDate(0, 0, -1)
	if len(resolver.targets) != 1 || !resolver.targets[0].Equal(want) {
		t.Errorf("resolver target: expected %v, got %v", want, resolver.targets)
	}
	if updater.calls != 1 {
		t.Errorf("expected 1 message update, got %d", updater.calls)
	}
}

func TestNavigateNext(t *testing.T) {
	resolver := &fakeResolver{}
	reg, date := seeded(t, resolver, &fakeHistoryUpdater{})

	if err := reg.OnNavigate(context.Background(), 1, 555, ActionNext); err != nil {
		t.Fatal(err)
	}
	if want := date.AddDate(0, 0, 1); !resolver.targets[0].Equal(want) {
		t.Errorf("resolver target: expected %v, got %v", want, resolver.targets[0])
	}
}

func TestNavigateTodayUsesClock(t *testing.T) {
	resolver := &fakeResolver{}
	reg, _ := seeded(t, resolver, &fakeHistoryUpdater{})

	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	if err := reg.OnNavigate(context.Background(), 1, 555, ActionToday); err != nil {
		t.Fatal(err)
	}
	if !resolver.targets[0].Equal(now) {
		t.Errorf("today should resolve against the clock, got %v", resolver.targets[0])
	}
}

func TestNavigateUnknownMessageIsNoop(t *testing.T) {
	resolver := &fakeResolver{}
	updater := &fakeHistoryUpdater{}
	reg, _ := seeded(t, resolver, updater)

	err := reg.OnNavigate(context.Background(), 1, 999, ActionPrev)
	if !errors.Is(err, ErrNoEntry) {
		t.Fatalf("expected ErrNoEntry, got %v", err)
	}
	if len(resolver.targets) != 0 || updater.calls != 0 {
		t.Error("unknown message must not trigger any work")
	}
}

func TestNavigateUnknownActionIsNoop(t *testing.T) {
	reg, _ := seeded(t, &fakeResolver{}, &fakeHistoryUpdater{})
	if err := reg.OnNavigate(context.Background(), 1, 555, Action("🎉")); !errors.Is(err, ErrNoEntry) {
		t.Errorf("expected ErrNoEntry for unknown action, got %v", err)
	}
}

func TestNavigateFailedResolveKeepsEntry(t *testing.T) {
	resolver := &fakeResolver{err: types.ErrNoData}
	updater := &fakeHistoryUpdater{}
	reg, date := seeded(t, resolver, updater)

	err := reg.OnNavigate(context.Background(), 1, 555, ActionPrev)
	if !errors.Is(err, types.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if updater.calls != 0 {
		t.Error("failed resolve must not touch the message")
	}

	entry, ok := reg.Entry(context.Background(), 555)
	if !ok || !entry.Date.Equal(date) {
		t.Errorf("entry must stay unchanged, got %+v", entry)
	}
}

func TestNavigateReplacesEntry(t *testing.T) {
	resolver := &fakeResolver{}
	reg, date := seeded(t, resolver, &fakeHistoryUpdater{})

	if err := reg.OnNavigate(context.Background(), 1, 555, ActionPrev); err != nil {
		t.Fatal(err)
	}

	entry, ok := reg.Entry(context.Background(), 555)
	if !ok {
		t.Fatal("entry disappeared")
	}
	if want := date.AddDate(0, 0, -1); !entry.Date.Equal(want) {
		t.Errorf("entry date: expected %v, got %v", want, entry.Date)
	}
	if len(entry.Records) != 2 {
		t.Errorf("entry records not replaced: %d", len(entry.Records))
	}
}

func TestNavigatePrevPastHorizon(t *testing.T) {
	resolver := &fakeResolver{}
	updater := &fakeHistoryUpdater{}
	reg := NewRegistry(resolver, &fakeRenderer{}, updater, nil, 30)

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	// Entry already sits on the horizon; one more step back must refuse.
	reg.Remember(context.Background(), 555, &types.ResolvedHistory{
		EffectiveDate: now.AddDate(0, 0, -30),
		Records:       []types.PriceRecord{{Timestamp: now, Price: 3000}},
	})

	err := reg.OnNavigate(context.Background(), 1, 555, ActionPrev)
	if !errors.Is(err, ErrTooOld) {
		t.Fatalf("expected ErrTooOld, got %v", err)
	}
	if len(resolver.targets) != 0 || updater.calls != 0 {
		t.Error("horizon refusal must not trigger any work")
	}
}

type fakeNavStore struct {
	entries map[int64]Entry
}

func (f *fakeNavStore) SaveEntry(ctx context.Context, messageID int64, entry Entry) error {
	f.entries[messageID] = entry
	return nil
}

func (f *fakeNavStore) GetEntry(ctx context.Context, messageID int64) (*Entry, error) {
	if e, ok := f.entries[messageID]; ok {
		return &e, nil
	}
	return nil, nil
}

func TestEntryFallsBackToStore(t *testing.T) {
	store := &fakeNavStore{entries: map[int64]Entry{
		777: {Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
	reg := NewRegistry(&fakeResolver{}, &fakeRenderer{}, &fakeHistoryUpdater{}, store, 0)

	entry, ok := reg.Entry(context.Background(), 777)
	if !ok {
		t.Fatal("expected entry from store")
	}
	if entry.Date.Day() != 1 {
		t.Errorf("wrong entry: %+v", entry)
	}
}
