package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"GeoWatch/internal/config"
)

const updatesChannel = "geowatch:updates"

// redisBroker рассылает события через Redis Pub/Sub: несколько экземпляров
// дашборда видят записи друг друга
type redisBroker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisBroker(cfg *config.RedisConfig, log *slog.Logger) (Broker, error) {
	client := redis.NewClient(cfg.GetRedisOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Connected to Redis")
	return &redisBroker{client: client, logger: log}, nil
}

func (b *redisBroker) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.client.Publish(ctx, updatesChannel, data).Err()
}

func (b *redisBroker) Subscribe() (<-chan Event, func()) {
	sub := b.client.Subscribe(context.Background(), updatesChannel)
	events := make(chan Event, subscriberBuffer)

	go func() {
		defer close(events)
		for msg := range sub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("failed to unmarshal pubsub event", "error", err)
				continue
			}

			select {
			case events <- event:
			default:
				b.logger.Debug("subscriber channel full, dropping event")
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}

	return events, cancel
}

func (b *redisBroker) Close() error {
	return b.client.Close()
}
