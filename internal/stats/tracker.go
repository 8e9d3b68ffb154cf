package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/VividCortex/ewma"

	"GeoWatch/internal/models"
)

// Tracker держит скользящие средние по каждой (домен, страна, город):
// задержку и долю успешных проверок. Снимок идет в статусную полосу дашборда.
type Tracker struct {
	mu      sync.Mutex
	entries map[statusKey]*entry
}

type statusKey struct {
	Domain  string
	Country string
	City    string
}

type entry struct {
	latency      ewma.MovingAverage
	availability ewma.MovingAverage
	samples      int
	lastSeen     time.Time
}

// StatusEntry снимок одной локации
type StatusEntry struct {
	Domain       string    `json:"domain"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	AvgLatency   float64   `json:"avg_latency"`
	Availability float64   `json:"availability"`
	Samples      int       `json:"samples"`
	LastSeen     time.Time `json:"last_seen"`
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[statusKey]*entry)}
}

func (t *Tracker) RecordHTTP(row *models.HTTPLog) {
	var latency *float64
	if row.Success() {
		latency = row.TotalTime
	}
	t.record(statusKey{row.Domain, row.Country, row.City}, row.Success(), latency, row.CreatedAt)
}

func (t *Tracker) RecordPing(row *models.PingLog) {
	var latency *float64
	if row.Success() {
		latency = row.RTTAvg
	}
	t.record(statusKey{row.Domain, row.Country, row.City}, row.Success(), latency, row.CreatedAt)
}

func (t *Tracker) record(key statusKey, success bool, latency *float64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		e = &entry{
			latency:      ewma.NewMovingAverage(),
			availability: ewma.NewMovingAverage(),
		}
		t.entries[key] = e
	}

	if success {
		e.availability.Add(1)
	} else {
		e.availability.Add(0)
	}
	if latency != nil {
		e.latency.Add(*latency)
	}

	e.samples++
	if at.After(e.lastSeen) {
		e.lastSeen = at
	}
}

// Snapshot возвращает текущее состояние, отсортированное по домену и локации
func (t *Tracker) Snapshot() []StatusEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]StatusEntry, 0, len(t.entries))
	for key, e := range t.entries {
		out = append(out, StatusEntry{
			Domain:       key.Domain,
			Country:      key.Country,
			City:         key.City,
			AvgLatency:   e.latency.Value(),
			Availability: e.availability.Value(),
			Samples:      e.samples,
			LastSeen:     e.lastSeen,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return out[i].Domain < out[j].Domain
		}
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].City < out[j].City
	})

	return out
}
