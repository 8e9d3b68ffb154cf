package dependencies

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"GeoWatch/internal/checker"
	"GeoWatch/internal/config"
	"GeoWatch/internal/globalping"
	"GeoWatch/internal/pubsub"
	"GeoWatch/internal/scheduler"
	"GeoWatch/internal/stats"
	"GeoWatch/internal/storage"
)

// Container контейнер зависимостей
type Container struct {
	// Config
	Config *config.Config

	// Logger
	Logger *slog.Logger

	// Storage
	PingStore storage.PingLogStore
	HTTPStore storage.HTTPLogStore

	// Components
	Broker    pubsub.Broker
	Tracker   *stats.Tracker
	Checker   *checker.Service
	Scheduler *scheduler.Scheduler
	Sweeper   *scheduler.Sweeper

	// Database connections
	DB *pgxpool.Pool
}

// NewContainer создает и инициализирует контейнер зависимостей
func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: log,
	}

	// Инициализация зависимостей
	if err := container.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := container.initBroker(); err != nil {
		return nil, err
	}

	container.initStorage()
	container.initServices()

	slog.Info("Dependency container initialized successfully")
	return container, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	db, err := storage.NewPostgres(ctx, &c.Config.Database, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := storage.Bootstrap(ctx, db, c.Logger); err != nil {
		return err
	}

	c.DB = db
	return nil
}

func (c *Container) initBroker() error {
	if c.Config.PubSub.Driver == "redis" {
		broker, err := pubsub.NewRedisBroker(&c.Config.Redis, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Broker = broker
		return nil
	}

	c.Broker = pubsub.NewMemoryBroker(c.Logger)
	return nil
}

func (c *Container) initStorage() {
	c.PingStore = storage.NewPingLogStore(c.DB)
	c.HTTPStore = storage.NewHTTPLogStore(c.DB)
}

func (c *Container) initServices() {
	logger := slog.Default()

	c.Tracker = stats.NewTracker()

	client := globalping.NewClient(globalping.Config{
		BaseURL:         c.Config.Globalping.APIURL,
		PollInterval:    c.Config.Globalping.PollInterval,
		PollTimeout:     c.Config.Globalping.PollTimeout,
		SubmitPerMinute: c.Config.Globalping.SubmitPerMinute,
	}, logger.With("service", "globalping"))

	c.Checker = checker.NewService(
		client,
		c.PingStore,
		c.HTTPStore,
		c.Broker,
		c.Tracker,
		logger.With("service", "checker"),
	)

	c.Scheduler = scheduler.New(c.Checker, c.Config, logger.With("service", "scheduler"))

	c.Sweeper = scheduler.NewSweeper(
		c.PingStore,
		c.HTTPStore,
		c.Config.Retention.Days,
		c.Config.Retention.SweepPeriod,
		logger.With("service", "sweeper"),
	)
}

// Close закрывает все соединения
func (c *Container) Close() error {
	var errors []error

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Broker != nil {
		if err := c.Broker.Close(); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errors)
	}

	return nil
}
