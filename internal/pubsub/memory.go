package pubsub

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// memoryBroker реестр каналов подписчиков внутри процесса.
// Отправка неблокирующая: отставший подписчик теряет события, а не
// тормозит путь записи.
type memoryBroker struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	nextID      int
	closed      bool
	logger      *slog.Logger
}

func NewMemoryBroker(logger *slog.Logger) Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &memoryBroker{
		subscribers: make(map[int]chan Event),
		logger:      logger,
	}
}

func (b *memoryBroker) Publish(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Debug("subscriber channel full, dropping event", "subscriber", id)
		}
	}

	return nil
}

func (b *memoryBroker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
	}

	return ch, cancel
}

func (b *memoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}

	return nil
}
