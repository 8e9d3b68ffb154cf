package checker

import (
	"time"

	"GeoWatch/internal/globalping"
	"GeoWatch/internal/models"
)

// Ping-неудача пишется как полностью потерянный обмен (3/0/100),
// а не как пустые поля. У http наоборот: все метрики null.
const (
	failurePacketsSent = 3
	failurePacketLoss  = 100
)

func locationKey(city, country string) string {
	return city + "-" + country
}

func resultsByLocation(results []globalping.ProbeMeasurement) map[string]globalping.ProbeMeasurement {
	byLocation := make(map[string]globalping.ProbeMeasurement, len(results))
	for _, r := range results {
		byLocation[locationKey(r.Probe.City, r.Probe.Country)] = r
	}
	return byLocation
}

// ReconcilePing сводит результаты ping-измерения к ровно одной строке на
// каждую запрошенную локацию, в исходном порядке запроса. Локация без
// результата или с незавершенным результатом получает строку-неудачу.
func ReconcilePing(measurementID, domain string, requested []models.Location, results []globalping.ProbeMeasurement) []*models.PingLog {
	byLocation := resultsByLocation(results)
	now := time.Now().UTC()

	rows := make([]*models.PingLog, 0, len(requested))
	for _, loc := range requested {
		r, ok := byLocation[locationKey(loc.City, loc.Country)]
		if !ok || r.Result.Status != globalping.StatusFinished || r.Result.Stats == nil {
			rows = append(rows, pingFailureRow(measurementID, domain, loc, now))
			continue
		}

		stats := r.Result.Stats
		mdev := stats.Mdev
		if mdev == nil {
			zero := 0.0
			mdev = &zero
		}

		asn := r.Probe.ASN
		network := r.Probe.Network
		rows = append(rows, &models.PingLog{
			ProbeID:         measurementID,
			Domain:          domain,
			Country:         r.Probe.Country,
			City:            r.Probe.City,
			ASN:             &asn,
			Network:         &network,
			PacketsSent:     stats.Total,
			PacketsReceived: stats.Rcv,
			PacketLoss:      stats.Loss,
			RTTMin:          stats.Min,
			RTTMax:          stats.Max,
			RTTAvg:          stats.Avg,
			RTTMdev:         mdev,
			CreatedAt:       now,
		})
	}

	return rows
}

// ReconcileHTTP аналог для http-измерения: statusCode и шесть фаз тайминга,
// отсутствующая фаза остается null, строка при этом не бракуется.
func ReconcileHTTP(measurementID, domain string, requested []models.Location, results []globalping.ProbeMeasurement) []*models.HTTPLog {
	byLocation := resultsByLocation(results)
	now := time.Now().UTC()

	rows := make([]*models.HTTPLog, 0, len(requested))
	for _, loc := range requested {
		r, ok := byLocation[locationKey(loc.City, loc.Country)]
		if !ok || r.Result.Status != globalping.StatusFinished {
			rows = append(rows, httpFailureRow(measurementID, domain, loc, nil, now))
			continue
		}

		asn := r.Probe.ASN
		network := r.Probe.Network
		row := &models.HTTPLog{
			ProbeID:    measurementID,
			Domain:     domain,
			Country:    r.Probe.Country,
			City:       r.Probe.City,
			ASN:        &asn,
			Network:    &network,
			StatusCode: r.Result.StatusCode,
			CreatedAt:  now,
		}

		if t := r.Result.Timings; t != nil {
			row.TotalTime = t.Total
			row.DownloadTime = t.Download
			row.FirstByteTime = t.FirstByte
			row.DNSTime = t.DNS
			row.TLSTime = t.TLS
			row.TCPTime = t.TCP
		}

		rows = append(rows, row)
	}

	return rows
}

// PingFailureRows строки-неудачи для всего цикла: подача или опрос измерения
// не состоялись, настоящего id нет, вместо него маркер ("failed", "api_limit").
func PingFailureRows(marker, domain string, requested []models.Location) []*models.PingLog {
	now := time.Now().UTC()
	rows := make([]*models.PingLog, 0, len(requested))
	for _, loc := range requested {
		rows = append(rows, pingFailureRow(marker, domain, loc, now))
	}
	return rows
}

// HTTPFailureRows то же для http. Строки rate-limit дополнительно несут
// status_code=429, прочие неудачи оставляют его null.
func HTTPFailureRows(marker, domain string, requested []models.Location, statusCode *int) []*models.HTTPLog {
	now := time.Now().UTC()
	rows := make([]*models.HTTPLog, 0, len(requested))
	for _, loc := range requested {
		rows = append(rows, httpFailureRow(marker, domain, loc, statusCode, now))
	}
	return rows
}

func pingFailureRow(probeID, domain string, loc models.Location, at time.Time) *models.PingLog {
	return &models.PingLog{
		ProbeID:         probeID,
		Domain:          domain,
		Country:         loc.Country,
		City:            loc.City,
		PacketsSent:     failurePacketsSent,
		PacketsReceived: 0,
		PacketLoss:      failurePacketLoss,
		CreatedAt:       at,
	}
}

func httpFailureRow(probeID, domain string, loc models.Location, statusCode *int, at time.Time) *models.HTTPLog {
	return &models.HTTPLog{
		ProbeID:    probeID,
		Domain:     domain,
		Country:    loc.Country,
		City:       loc.City,
		StatusCode: statusCode,
		CreatedAt:  at,
	}
}
