package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"GeoWatch/internal/config"
)

func NewPostgres(ctx context.Context, cfg *config.DatabaseConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDSN())
	if err != nil {
		log.Error("Failed to open connection to postgres")
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		log.Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	log.Info("Successfully connected to postgres database")
	return pool, nil
}

// Bootstrap создает таблицы журналов, если их еще нет
func Bootstrap(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ping_logs (
			id SERIAL PRIMARY KEY,
			probe_id VARCHAR(255),
			domain VARCHAR(255),
			country VARCHAR(2),
			city VARCHAR(255),
			asn INT,
			network VARCHAR(255),
			packets_sent INT,
			packets_received INT,
			packet_loss FLOAT,
			rtt_min FLOAT,
			rtt_max FLOAT,
			rtt_avg FLOAT,
			rtt_mdev FLOAT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS http_logs (
			id SERIAL PRIMARY KEY,
			probe_id VARCHAR(255),
			domain VARCHAR(255),
			country VARCHAR(2),
			city VARCHAR(255),
			asn INT,
			network VARCHAR(255),
			status_code INT,
			total_time FLOAT,
			download_time FLOAT,
			first_byte_time FLOAT,
			dns_time FLOAT,
			tls_time FLOAT,
			tcp_time FLOAT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ping_logs_created_at ON ping_logs (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_http_logs_created_at ON http_logs (created_at)`,
	}

	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to bootstrap log tables: %w", err)
		}
	}

	log.Info("Log tables created or already exist")
	return nil
}
