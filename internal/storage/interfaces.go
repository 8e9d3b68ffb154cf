package storage

import (
	"context"
	"time"

	"GeoWatch/internal/models"
)

// PingLogStore интерфейс для таблицы ping_logs
type PingLogStore interface {
	Insert(ctx context.Context, row *models.PingLog) error
	ListSince(ctx context.Context, interval string, domain string) ([]*models.PingLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// HTTPLogStore интерфейс для таблицы http_logs
type HTTPLogStore interface {
	Insert(ctx context.Context, row *models.HTTPLog) error
	ListSince(ctx context.Context, interval string, domain string) ([]*models.HTTPLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
