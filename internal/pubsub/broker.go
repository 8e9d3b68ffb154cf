package pubsub

import (
	"context"
	"time"

	"GeoWatch/internal/models"
)

// Event уведомление о записанной пачке строк одного цикла проверки.
// Подписчики не держат ссылок внутрь планировщика: только этот снимок.
type Event struct {
	CycleID   string           `json:"cycle_id"`
	Check     models.CheckType `json:"check"`
	Domain    string           `json:"domain"`
	Group     string           `json:"group"`
	Rows      int              `json:"rows"`
	Failures  int              `json:"failures"`
	CreatedAt time.Time        `json:"created_at"`
}

// Broker интерфейс для рассылки уведомлений о записях
type Broker interface {
	Publish(ctx context.Context, event Event) error
	Subscribe() (<-chan Event, func())
	Close() error
}
