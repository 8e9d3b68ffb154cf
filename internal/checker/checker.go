package checker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"GeoWatch/internal/config"
	"GeoWatch/internal/globalping"
	"GeoWatch/internal/models"
	"GeoWatch/internal/pubsub"
	"GeoWatch/internal/stats"
	"GeoWatch/internal/storage"
)

// Outcome типизированный исход цикла. Планировщик его логирует, но каденс
// таймеров от исхода не меняется.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
	OutcomeFailed   Outcome = "failed"
)

// MeasurementAPI то, что циклу нужно от клиента провайдера
type MeasurementAPI interface {
	CreateMeasurement(ctx context.Context, req globalping.MeasurementRequest, apiKey string) (string, error)
	AwaitMeasurement(ctx context.Context, id string) (*globalping.Measurement, error)
}

type Service struct {
	client    MeasurementAPI
	pingStore storage.PingLogStore
	httpStore storage.HTTPLogStore
	broker    pubsub.Broker
	tracker   *stats.Tracker
	logger    *slog.Logger
}

func NewService(
	client MeasurementAPI,
	pingStore storage.PingLogStore,
	httpStore storage.HTTPLogStore,
	broker pubsub.Broker,
	tracker *stats.Tracker,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:    client,
		pingStore: pingStore,
		httpStore: httpStore,
		broker:    broker,
		tracker:   tracker,
		logger:    logger,
	}
}

// RunCycle один цикл проверки (цель, группа): submit -> poll -> reconcile ->
// persist. Любой отказ превращается в строки-неудачи, цикл всегда доходит
// до записи и никогда не роняет планировщик.
func (s *Service) RunCycle(ctx context.Context, cycleID string, target config.TargetConfig, group config.GroupConfig) Outcome {
	log := s.logger.With(
		"cycle_id", cycleID,
		"domain", target.Domain,
		"group", group.Name,
		"check", group.Check,
	)

	log.Info("starting check cycle", "locations", len(group.Locations))

	req := buildRequest(target.Domain, group)

	measurementID, err := s.client.CreateMeasurement(ctx, req, target.APIKey)
	if err != nil {
		marker := models.ProbeIDFailed
		if errors.Is(err, globalping.ErrRateLimited) {
			marker = models.ProbeIDAPILimit
			log.Warn("measurement submission rate limited")
		} else {
			log.Error("failed to create measurement", "error", err)
		}

		s.persistFailures(ctx, cycleID, marker, target.Domain, group, log)
		return OutcomeFailed
	}

	measurement, err := s.client.AwaitMeasurement(ctx, measurementID)
	if err != nil {
		if errors.Is(err, globalping.ErrPollTimeout) {
			log.Error("measurement did not complete in time", "measurement_id", measurementID)
		} else {
			log.Error("failed to await measurement", "measurement_id", measurementID, "error", err)
		}

		s.persistFailures(ctx, cycleID, models.ProbeIDFailed, target.Domain, group, log)
		return OutcomeFailed
	}

	switch group.Check {
	case models.CheckTypePing:
		rows := ReconcilePing(measurementID, target.Domain, group.Locations, measurement.Results)
		return s.persistPing(ctx, cycleID, rows, group, log)
	default:
		rows := ReconcileHTTP(measurementID, target.Domain, group.Locations, measurement.Results)
		return s.persistHTTP(ctx, cycleID, rows, group, log)
	}
}

func buildRequest(domain string, group config.GroupConfig) globalping.MeasurementRequest {
	locations := make([]globalping.RequestLocation, 0, len(group.Locations))
	for _, loc := range group.Locations {
		locations = append(locations, globalping.RequestLocation{
			Country: loc.Country,
			City:    loc.City,
			Limit:   1,
		})
	}

	req := globalping.MeasurementRequest{
		Target:    domain,
		Locations: locations,
		Type:      string(group.Check),
	}

	if group.Check == models.CheckTypeHTTP {
		req.MeasurementOptions = &globalping.MeasurementOptions{Protocol: "HTTPS"}
	}

	return req
}

// persistFailures путь полной неудачи цикла: подача отклонена или опрос не
// завершился. Каждая запрошенная локация все равно получает свою строку.
func (s *Service) persistFailures(ctx context.Context, cycleID, marker, domain string, group config.GroupConfig, log *slog.Logger) {
	switch group.Check {
	case models.CheckTypePing:
		s.persistPing(ctx, cycleID, PingFailureRows(marker, domain, group.Locations), group, log)
	default:
		var statusCode *int
		if marker == models.ProbeIDAPILimit {
			code := 429
			statusCode = &code
		}
		s.persistHTTP(ctx, cycleID, HTTPFailureRows(marker, domain, group.Locations, statusCode), group, log)
	}
}

func (s *Service) persistPing(ctx context.Context, cycleID string, rows []*models.PingLog, group config.GroupConfig, log *slog.Logger) Outcome {
	inserted := 0
	failures := 0

	for _, row := range rows {
		if !row.Success() {
			failures++
		}
		if err := s.pingStore.Insert(ctx, row); err != nil {
			log.Error("failed to insert ping log",
				"country", row.Country,
				"city", row.City,
				"error", err,
			)
			continue
		}
		inserted++
		if s.tracker != nil {
			s.tracker.RecordPing(row)
		}
	}

	s.notify(ctx, cycleID, models.CheckTypePing, rows[0].Domain, group.Name, inserted, failures, log)
	return outcomeFor(len(rows), inserted, failures, log)
}

func (s *Service) persistHTTP(ctx context.Context, cycleID string, rows []*models.HTTPLog, group config.GroupConfig, log *slog.Logger) Outcome {
	inserted := 0
	failures := 0

	for _, row := range rows {
		if !row.Success() {
			failures++
		}
		if err := s.httpStore.Insert(ctx, row); err != nil {
			log.Error("failed to insert http log",
				"country", row.Country,
				"city", row.City,
				"error", err,
			)
			continue
		}
		inserted++
		if s.tracker != nil {
			s.tracker.RecordHTTP(row)
		}
	}

	s.notify(ctx, cycleID, models.CheckTypeHTTP, rows[0].Domain, group.Name, inserted, failures, log)
	return outcomeFor(len(rows), inserted, failures, log)
}

func (s *Service) notify(ctx context.Context, cycleID string, check models.CheckType, domain, groupName string, inserted, failures int, log *slog.Logger) {
	if s.broker == nil || inserted == 0 {
		return
	}

	event := pubsub.Event{
		CycleID:   cycleID,
		Check:     check,
		Domain:    domain,
		Group:     groupName,
		Rows:      inserted,
		Failures:  failures,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.broker.Publish(ctx, event); err != nil {
		log.Warn("failed to publish write notification", "error", err)
	}
}

func outcomeFor(requested, inserted, failures int, log *slog.Logger) Outcome {
	outcome := OutcomeOK
	switch {
	case failures == requested || inserted == 0:
		outcome = OutcomeFailed
	case failures > 0 || inserted < requested:
		outcome = OutcomeDegraded
	}

	log.Info("check cycle completed",
		"outcome", outcome,
		"requested", requested,
		"inserted", inserted,
		"failures", failures,
	)

	return outcome
}
