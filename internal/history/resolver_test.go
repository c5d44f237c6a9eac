package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"albion-gold-bot/internal/types"
)

// fakeRange scripts the API answer per attempt and counts calls.
type fakeRange struct {
	calls   int
	windows []window
	handler func(call int, start, end time.Time) ([]types.RawGoldRecord, error)
}

type window struct {
	start, end time.Time
}

func (f *fakeRange) Range(_ context.Context, start, end time.Time) ([]types.RawGoldRecord, error) {
	call := f.calls
	f.calls++
	f.windows = append(f.windows, window{start, end})
	return f.handler(call, start, end)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func someRecords() []types.RawGoldRecord {
	return []types.RawGoldRecord{
		{Price: "3000", Timestamp: "2024-01-01T12:00:00"},
		{Price: "3100", Timestamp: "2024-01-02T12:00:00"},
	}
}

func TestResolveImmediateHit(t *testing.T) {
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		return someRecords(), nil
	}}

	target := day(2024, 1, 10)
	got, err := NewResolver(fake, 14).Resolve(context.Background(), target)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.EffectiveDate.Equal(target) {
		t.Errorf("effective date: expected %v, got %v", target, got.EffectiveDate)
	}
	if got.DaysBack != 0 {
		t.Errorf("daysBack: expected 0, got %d", got.DaysBack)
	}
	if fake.calls != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", fake.calls)
	}

	// First window must be the trailing 7 days: [target-6d, target].
	w := fake.windows[0]
	if !w.start.Equal(target.AddDate(0, 0, -6)) || !w.end.Equal(target) {
		t.Errorf("window: [%v .. %v]", w.start, w.end)
	}
}

func TestResolveFallsBackThreeDays(t *testing.T) {
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		if call < 3 {
			return []types.RawGoldRecord{}, nil
		}
		return someRecords(), nil
	}}

	target := day(2024, 1, 10)
	got, err := NewResolver(fake, 14).Resolve(context.Background(), target)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := target.AddDate(0, 0, -3)
	if !got.EffectiveDate.Equal(want) {
		t.Errorf("effective date: expected %v, got %v", want, got.EffectiveDate)
	}
	if got.DaysBack != 3 {
		t.Errorf("daysBack: expected 3, got %d", got.DaysBack)
	}
}

func TestResolveSixDayGapScenario(t *testing.T) {
	// Empty for daysBack 0..5, data at daysBack=6.
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		if call <= 5 {
			return nil, nil
		}
		return someRecords(), nil
	}}

	target := day(2024, 3, 20)
	got, err := NewResolver(fake, 14).Resolve(context.Background(), target)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := target.AddDate(0, 0, -6); !got.EffectiveDate.Equal(want) {
		t.Errorf("effective date: expected %v, got %v", want, got.EffectiveDate)
	}
	if fake.calls != 7 {
		t.Errorf("expected 7 fetches, got %d", fake.calls)
	}
}

func TestResolveExhaustsBudget(t *testing.T) {
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		return []types.RawGoldRecord{}, nil
	}}

	const maxFallback = 14
	_, err := NewResolver(fake, maxFallback).Resolve(context.Background(), day(2024, 1, 10))
	if !errors.Is(err, types.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	// Inclusive bound: 0..maxFallback is maxFallback+1 attempts.
	if fake.calls != maxFallback+1 {
		t.Errorf("expected %d attempts, got %d", maxFallback+1, fake.calls)
	}
}

func TestResolveSkipsFailedWindows(t *testing.T) {
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		if call == 0 {
			return nil, types.ErrNetwork
		}
		return someRecords(), nil
	}}

	got, err := NewResolver(fake, 14).Resolve(context.Background(), day(2024, 1, 10))
	if err != nil {
		t.Fatalf("a failed window should shift the range, not abort: %v", err)
	}
	if got.DaysBack != 1 {
		t.Errorf("daysBack: expected 1, got %d", got.DaysBack)
	}
}

func TestResolveSkipsAllMalformedWindow(t *testing.T) {
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		if call == 0 {
			// Non-empty response but nothing parseable.
			return []types.RawGoldRecord{{Price: "x", Timestamp: "y"}}, nil
		}
		return someRecords(), nil
	}}

	got, err := NewResolver(fake, 14).Resolve(context.Background(), day(2024, 1, 10))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.DaysBack != 1 {
		t.Errorf("daysBack: expected 1, got %d", got.DaysBack)
	}
}

func TestResolveHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		cancel()
		return nil, ctx.Err()
	}}

	_, err := NewResolver(fake, 14).Resolve(ctx, day(2024, 1, 10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResolveLimitedFlag(t *testing.T) {
	fake := &fakeRange{handler: func(call int, start, end time.Time) ([]types.RawGoldRecord, error) {
		return []types.RawGoldRecord{{Price: "3000", Timestamp: "2024-01-01T12:00:00"}}, nil
	}}

	got, err := NewResolver(fake, 14).Resolve(context.Background(), day(2024, 1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Limited() {
		t.Error("a single-record window must report limited data")
	}
}
