package models

import "time"

type CheckType string

const (
	CheckTypePing CheckType = "ping"
	CheckTypeHTTP CheckType = "http"
)

// Маркеры probe_id для строк, у которых нет настоящего измерения
const (
	ProbeIDFailed   = "failed"
	ProbeIDAPILimit = "api_limit"
)

// Location точка проверки (страна + город), из которой работает проба
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// PingLog одна строка таблицы ping_logs: результат одной пробы за один цикл
type PingLog struct {
	ID              int64     `json:"id"`
	ProbeID         string    `json:"probe_id"`
	Domain          string    `json:"domain"`
	Country         string    `json:"country"`
	City            string    `json:"city"`
	ASN             *int      `json:"asn"`
	Network         *string   `json:"network"`
	PacketsSent     int       `json:"packets_sent"`
	PacketsReceived int       `json:"packets_received"`
	PacketLoss      float64   `json:"packet_loss"`
	RTTMin          *float64  `json:"rtt_min"`
	RTTMax          *float64  `json:"rtt_max"`
	RTTAvg          *float64  `json:"rtt_avg"`
	RTTMdev         *float64  `json:"rtt_mdev"`
	CreatedAt       time.Time `json:"created_at"`
}

// HTTPLog одна строка таблицы http_logs.
// Все метрики nullable: у строки-неудачи они остаются пустыми.
type HTTPLog struct {
	ID            int64     `json:"id"`
	ProbeID       string    `json:"probe_id"`
	Domain        string    `json:"domain"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	ASN           *int      `json:"asn"`
	Network       *string   `json:"network"`
	StatusCode    *int      `json:"status_code"`
	TotalTime     *float64  `json:"total_time"`
	DownloadTime  *float64  `json:"download_time"`
	FirstByteTime *float64  `json:"first_byte_time"`
	DNSTime       *float64  `json:"dns_time"`
	TLSTime       *float64  `json:"tls_time"`
	TCPTime       *float64  `json:"tcp_time"`
	CreatedAt     time.Time `json:"created_at"`
}

// Success сообщает, дошла ли проба: для ping это потеря меньше 100%
func (l *PingLog) Success() bool {
	return l.PacketsReceived > 0 && l.PacketLoss < 100
}

func (l *HTTPLog) Success() bool {
	return l.StatusCode != nil && l.ProbeID != ProbeIDFailed && l.ProbeID != ProbeIDAPILimit
}
