package globalping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.globalping.io/v1"

type Config struct {
	BaseURL         string
	PollInterval    time.Duration
	PollTimeout     time.Duration
	SubmitPerMinute int
	RequestTimeout  time.Duration
}

// Client клиент Globalping API: создание измерения и опрос до готовности
type Client struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.SubmitPerMinute == 0 {
		cfg.SubmitPerMinute = 30
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(float64(cfg.SubmitPerMinute)/60.0), 1),
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
		logger:       logger,
	}
}

// CreateMeasurement отправляет измерение и возвращает его id.
// 429 от провайдера превращается в ErrRateLimited, остальные не-2xx в обычную ошибку.
func (c *Client) CreateMeasurement(ctx context.Context, req MeasurementRequest, apiKey string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal measurement request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/measurements", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create measurement request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("failed to create measurement: %d %s, body: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), string(errBody))
	}

	var created CreateMeasurementResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}

	if created.ID == "" {
		return "", fmt.Errorf("create measurement response has empty id")
	}

	c.logger.Debug("measurement created",
		"measurement_id", created.ID,
		"target", req.Target,
		"type", req.Type,
		"locations", len(req.Locations),
	)

	return created.ID, nil
}

// AwaitMeasurement опрашивает измерение каждые pollInterval, пока оно не
// перейдет в finished или не истечет pollTimeout (тогда ErrPollTimeout).
// 5xx считается временным сбоем и повторяется внутри бюджета, 4xx жесткий отказ.
func (c *Client) AwaitMeasurement(ctx context.Context, id string) (*Measurement, error) {
	deadline := time.Now().Add(c.pollTimeout)

	for time.Now().Before(deadline) {
		measurement, retry, err := c.fetchMeasurement(ctx, id)
		if err != nil {
			if retry {
				c.logger.Warn("transient error fetching measurement, retrying",
					"measurement_id", id,
					"error", err,
				)
			} else {
				return nil, err
			}
		} else if measurement.Status == StatusFinished {
			return measurement, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return nil, fmt.Errorf("measurement %s: %w", id, ErrPollTimeout)
}

func (c *Client) fetchMeasurement(ctx context.Context, id string) (*Measurement, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/measurements/"+id, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("fetch measurement %s failed: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("fetch measurement %s: server error %d", id, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, fmt.Errorf("measurement %s: %w", id, ErrMeasurementNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("fetch measurement %s: unexpected status %d", id, resp.StatusCode)
	}

	var measurement Measurement
	if err := json.NewDecoder(resp.Body).Decode(&measurement); err != nil {
		return nil, false, fmt.Errorf("failed to decode measurement %s: %w", id, err)
	}

	return &measurement, false, nil
}
