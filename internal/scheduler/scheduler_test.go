package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"GeoWatch/internal/checker"
	"GeoWatch/internal/config"
	"GeoWatch/internal/globalping"
	"GeoWatch/internal/models"
)

type blockingAPI struct {
	calls   atomic.Int32
	release chan struct{}
	groups  sync.Map
}

func (f *blockingAPI) CreateMeasurement(ctx context.Context, req globalping.MeasurementRequest, _ string) (string, error) {
	f.calls.Add(1)
	f.groups.Store(len(req.Locations), true)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "meas-1", nil
}

func (f *blockingAPI) AwaitMeasurement(context.Context, string) (*globalping.Measurement, error) {
	return &globalping.Measurement{ID: "meas-1", Status: globalping.StatusFinished}, nil
}

type nopPingStore struct{}

func (nopPingStore) Insert(context.Context, *models.PingLog) error { return nil }
func (nopPingStore) ListSince(context.Context, string, string) ([]*models.PingLog, error) {
	return nil, nil
}
func (nopPingStore) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

type nopHTTPStore struct{}

func (nopHTTPStore) Insert(context.Context, *models.HTTPLog) error { return nil }
func (nopHTTPStore) ListSince(context.Context, string, string) ([]*models.HTTPLog, error) {
	return nil, nil
}
func (nopHTTPStore) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func testConfig(groups ...config.GroupConfig) *config.Config {
	return &config.Config{
		Targets: []config.TargetConfig{
			{Domain: "site.example.com", APIKeyEnv: "KEY", APIKey: "secret"},
		},
		Groups: groups,
	}
}

func TestSchedulerSkipsOverlappingCycles(t *testing.T) {
	api := &blockingAPI{release: make(chan struct{})}
	service := checker.NewService(api, nopPingStore{}, nopHTTPStore{}, nil, nil, nil)

	group := config.GroupConfig{
		Name:      "2min",
		Period:    time.Hour,
		Check:     models.CheckTypeHTTP,
		Locations: []models.Location{{Country: "RU", City: "Moscow"}},
	}
	s := New(service, testConfig(group), nil)

	ctx := context.Background()
	s.fire(ctx, group)

	// Даем первому циклу встать на блокировку подачи
	deadline := time.Now().Add(time.Second)
	for api.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// Повторное срабатывание той же пары пропускается, а не дублируется
	s.fire(ctx, group)
	if got := api.calls.Load(); got != 1 {
		t.Errorf("overlapping fire must be skipped: want 1 submit, got %d", got)
	}

	close(api.release)
	s.wg.Wait()

	// После завершения цикла пара снова свободна
	s.fire(ctx, group)
	s.wg.Wait()
	if got := api.calls.Load(); got != 2 {
		t.Errorf("released pair must accept the next cycle: want 2 submits, got %d", got)
	}
}

func TestSchedulerColdStartRunsFastestGroup(t *testing.T) {
	api := &blockingAPI{}
	service := checker.NewService(api, nopPingStore{}, nopHTTPStore{}, nil, nil, nil)

	fast := config.GroupConfig{
		Name:      "fast",
		Period:    time.Hour,
		Check:     models.CheckTypeHTTP,
		Locations: []models.Location{{Country: "RU", City: "Moscow"}},
	}
	slow := config.GroupConfig{
		Name:   "slow",
		Period: 2 * time.Hour,
		Check:  models.CheckTypeHTTP,
		Locations: []models.Location{
			{Country: "LV", City: "Riga"},
			{Country: "EE", City: "Tallinn"},
		},
	}
	s := New(service, testConfig(slow, fast), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for api.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if got := api.calls.Load(); got != 1 {
		t.Errorf("cold start must run exactly the fastest group once per target, got %d submits", got)
	}
	if _, ok := api.groups.Load(1); !ok {
		t.Errorf("cold start ran the wrong group")
	}
}
