package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"GeoWatch/internal/models"
)

type httpLogStore struct {
	pool *pgxpool.Pool
}

func NewHTTPLogStore(pool *pgxpool.Pool) HTTPLogStore {
	return &httpLogStore{pool: pool}
}

func (s *httpLogStore) Insert(ctx context.Context, row *models.HTTPLog) error {
	query := `
		INSERT INTO http_logs (probe_id, domain, country, city, asn, network,
			status_code, total_time, download_time, first_byte_time, dns_time, tls_time, tcp_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		row.ProbeID,
		row.Domain,
		row.Country,
		row.City,
		row.ASN,
		row.Network,
		row.StatusCode,
		row.TotalTime,
		row.DownloadTime,
		row.FirstByteTime,
		row.DNSTime,
		row.TLSTime,
		row.TCPTime,
		row.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert http log: %w", err)
	}

	return nil
}

func (s *httpLogStore) ListSince(ctx context.Context, interval string, domain string) ([]*models.HTTPLog, error) {
	query := `
		SELECT id, probe_id, domain, country, city, asn, network,
			status_code, total_time, download_time, first_byte_time, dns_time, tls_time, tcp_time, created_at
		FROM http_logs
		WHERE created_at >= NOW() - $1::interval AND city IS NOT NULL
	`
	args := []any{interval}

	if domain != "" {
		query += ` AND domain = $2`
		args = append(args, domain)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query http logs: %w", err)
	}
	defer rows.Close()

	return s.scanRows(rows)
}

func (s *httpLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM http_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old http logs: %w", err)
	}

	return result.RowsAffected(), nil
}

func (s *httpLogStore) scanRows(rows pgx.Rows) ([]*models.HTTPLog, error) {
	var logs []*models.HTTPLog

	for rows.Next() {
		var row models.HTTPLog
		err := rows.Scan(
			&row.ID,
			&row.ProbeID,
			&row.Domain,
			&row.Country,
			&row.City,
			&row.ASN,
			&row.Network,
			&row.StatusCode,
			&row.TotalTime,
			&row.DownloadTime,
			&row.FirstByteTime,
			&row.DNSTime,
			&row.TLSTime,
			&row.TCPTime,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan http log row: %w", err)
		}
		logs = append(logs, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating http log rows: %w", err)
	}

	return logs, nil
}
