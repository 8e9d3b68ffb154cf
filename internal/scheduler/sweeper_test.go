package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

type agedPingStore struct {
	nopPingStore
	mu   sync.Mutex
	rows []time.Time
}

func (s *agedPingStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []time.Time
	var deleted int64
	for _, created := range s.rows {
		if created.Before(cutoff) {
			deleted++
		} else {
			kept = append(kept, created)
		}
	}
	s.rows = kept
	return deleted, nil
}

func (s *agedPingStore) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type agedHTTPStore struct {
	nopHTTPStore
	mu      sync.Mutex
	cutoffs []time.Time
}

func (s *agedHTTPStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	return 0, nil
}

func TestSweeperDeletesOnlyExpiredRows(t *testing.T) {
	now := time.Now().UTC()
	pingStore := &agedPingStore{
		rows: []time.Time{
			now.Add(-24 * time.Hour),     // 1 день, остается
			now.Add(-8 * 24 * time.Hour), // 8 дней, удаляется
		},
	}
	httpStore := &agedHTTPStore{}

	w := NewSweeper(pingStore, httpStore, 7, time.Hour, nil)
	w.sweep(context.Background())

	if pingStore.remaining() != 1 {
		t.Fatalf("want 1 surviving row, got %d", pingStore.remaining())
	}
	if !pingStore.rows[0].Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("the 1-day-old row must survive a 7-day retention sweep")
	}

	if len(httpStore.cutoffs) != 1 {
		t.Fatalf("http table must be swept too, got %d calls", len(httpStore.cutoffs))
	}
	wantCutoff := now.Add(-7 * 24 * time.Hour)
	if diff := httpStore.cutoffs[0].Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff must be retention window ago, got %v", httpStore.cutoffs[0])
	}
}

func TestSweeperRunSweepsAtStartup(t *testing.T) {
	pingStore := &agedPingStore{rows: []time.Time{time.Now().UTC().Add(-30 * 24 * time.Hour)}}
	httpStore := &agedHTTPStore{}

	w := NewSweeper(pingStore, httpStore, 7, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for pingStore.remaining() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if pingStore.remaining() != 0 {
		t.Errorf("sweeper must run once immediately at startup")
	}
}
