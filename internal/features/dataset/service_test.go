package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	mu       sync.Mutex
	requests []Request
	fail     map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, req Request) (Dataset, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err, ok := f.fail[req.StartDate]; ok {
		return nil, err
	}
	ds := Dataset{}
	for _, name := range req.QueryNames {
		ds[name] = NewResults(&Results{TotalRecordCount: floatPtr(float64(len(req.StartDate)))})
	}
	return ds, nil
}

func TestPeriodPrevious(t *testing.T) {
	p := Period{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	prev := p.Previous()

	if want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC); !prev.End.Equal(want) {
		t.Errorf("previous end = %v, want %v", prev.End, want)
	}
	if want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC); !prev.Start.Equal(want) {
		t.Errorf("previous start = %v, want %v", prev.Start, want)
	}
	if got := p.OffsetDays(); got != 29 {
		t.Errorf("OffsetDays() = %d, want 29", got)
	}
}

func TestFetchPeriodsJoinsBothPeriods(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewDatasetService(fetcher, zap.NewNop())
	period := Period{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	got := svc.FetchPeriods(context.Background(), period, []string{"q1", "q2"})

	if len(fetcher.requests) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(fetcher.requests))
	}
	for _, name := range []string{"q1", "q2"} {
		if _, state := got.Current.Lookup(name); state != StateReady {
			t.Errorf("current %s state = %s", name, state)
		}
		if _, state := got.Previous.Lookup(name); state != StateReady {
			t.Errorf("previous %s state = %s", name, state)
		}
	}
}

func TestFetchPeriodsFoldsFailuresIntoDataset(t *testing.T) {
	period := Period{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	prevStart := period.Previous().Start.Format(time.DateOnly)
	fetcher := &fakeFetcher{fail: map[string]error{prevStart: errors.New("connection refused")}}
	svc := NewDatasetService(fetcher, zap.NewNop())

	got := svc.FetchPeriods(context.Background(), period, []string{"q1"})

	if _, state := got.Current.Lookup("q1"); state != StateReady {
		t.Errorf("current q1 state = %s, want ready", state)
	}
	res, state := got.Previous.Lookup("q1")
	if state != StateError {
		t.Fatalf("previous q1 state = %s, want error", state)
	}
	if res.ErrorMessage != "connection refused" {
		t.Errorf("error message = %q", res.ErrorMessage)
	}
}

func TestFetchPeriodsWithoutQueries(t *testing.T) {
	fetcher := &fakeFetcher{}
	got := NewDatasetService(fetcher, zap.NewNop()).FetchPeriods(context.Background(), Period{}, nil)
	if len(fetcher.requests) != 0 {
		t.Errorf("expected no fetch, got %d", len(fetcher.requests))
	}
	if got.Current == nil || got.Previous == nil {
		t.Errorf("expected empty, non-nil datasets")
	}
}
