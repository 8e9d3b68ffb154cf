package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"GeoWatch/internal/models"
)

type pingLogStore struct {
	pool *pgxpool.Pool
}

func NewPingLogStore(pool *pgxpool.Pool) PingLogStore {
	return &pingLogStore{pool: pool}
}

// Insert добавляет одну строку; журнал append-only, обновлений не бывает
func (s *pingLogStore) Insert(ctx context.Context, row *models.PingLog) error {
	query := `
		INSERT INTO ping_logs (probe_id, domain, country, city, asn, network,
			packets_sent, packets_received, packet_loss, rtt_min, rtt_max, rtt_avg, rtt_mdev, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		row.ProbeID,
		row.Domain,
		row.Country,
		row.City,
		row.ASN,
		row.Network,
		row.PacketsSent,
		row.PacketsReceived,
		row.PacketLoss,
		row.RTTMin,
		row.RTTMax,
		row.RTTAvg,
		row.RTTMdev,
		row.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert ping log: %w", err)
	}

	return nil
}

func (s *pingLogStore) ListSince(ctx context.Context, interval string, domain string) ([]*models.PingLog, error) {
	query := `
		SELECT id, probe_id, domain, country, city, asn, network,
			packets_sent, packets_received, packet_loss, rtt_min, rtt_max, rtt_avg, rtt_mdev, created_at
		FROM ping_logs
		WHERE created_at >= NOW() - $1::interval
	`
	args := []any{interval}

	if domain != "" {
		query += ` AND domain = $2`
		args = append(args, domain)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ping logs: %w", err)
	}
	defer rows.Close()

	return s.scanRows(rows)
}

func (s *pingLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM ping_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old ping logs: %w", err)
	}

	return result.RowsAffected(), nil
}

func (s *pingLogStore) scanRows(rows pgx.Rows) ([]*models.PingLog, error) {
	var logs []*models.PingLog

	for rows.Next() {
		var row models.PingLog
		err := rows.Scan(
			&row.ID,
			&row.ProbeID,
			&row.Domain,
			&row.Country,
			&row.City,
			&row.ASN,
			&row.Network,
			&row.PacketsSent,
			&row.PacketsReceived,
			&row.PacketLoss,
			&row.RTTMin,
			&row.RTTMax,
			&row.RTTAvg,
			&row.RTTMdev,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ping log row: %w", err)
		}
		logs = append(logs, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ping log rows: %w", err)
	}

	return logs, nil
}
