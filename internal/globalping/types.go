package globalping

// Типы повторяют проводной формат Globalping API v1.
// Метрики указателями: провайдер опускает фазы, которых не было.

type MeasurementRequest struct {
	Target             string              `json:"target"`
	Locations          []RequestLocation   `json:"locations"`
	Type               string              `json:"type"`
	MeasurementOptions *MeasurementOptions `json:"measurementOptions,omitempty"`
}

type RequestLocation struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Limit   int    `json:"limit"`
}

type MeasurementOptions struct {
	Protocol string `json:"protocol,omitempty"`
}

type CreateMeasurementResponse struct {
	ID string `json:"id"`
}

const (
	StatusInProgress = "in-progress"
	StatusFinished   = "finished"
)

type Measurement struct {
	ID      string             `json:"id"`
	Status  string             `json:"status"`
	Results []ProbeMeasurement `json:"results"`
}

type ProbeMeasurement struct {
	Probe  Probe       `json:"probe"`
	Result ProbeResult `json:"result"`
}

type Probe struct {
	Country string `json:"country"`
	City    string `json:"city"`
	ASN     int    `json:"asn"`
	Network string `json:"network"`
}

type ProbeResult struct {
	Status     string       `json:"status"`
	StatusCode *int         `json:"statusCode,omitempty"`
	Timings    *HTTPTimings `json:"timings,omitempty"`
	Stats      *PingStats   `json:"stats,omitempty"`
}

type HTTPTimings struct {
	Total     *float64 `json:"total"`
	Download  *float64 `json:"download"`
	FirstByte *float64 `json:"firstByte"`
	DNS       *float64 `json:"dns"`
	TLS       *float64 `json:"tls"`
	TCP       *float64 `json:"tcp"`
}

type PingStats struct {
	Total int      `json:"total"`
	Rcv   int      `json:"rcv"`
	Loss  float64  `json:"loss"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
	Mdev  *float64 `json:"mdev"`
}
