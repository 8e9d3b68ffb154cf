package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"GeoWatch/internal/models"
	"GeoWatch/pkg/validator"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Globalping GlobalpingConfig `mapstructure:"globalping"`
	Targets    []TargetConfig   `mapstructure:"targets"`
	Groups     []GroupConfig    `mapstructure:"groups"`
	Retention  RetentionConfig  `mapstructure:"retention"`
	PubSub     PubSubConfig     `mapstructure:"pubsub"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GlobalpingConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	PollTimeout     time.Duration `mapstructure:"poll_timeout"`
	SubmitPerMinute int           `mapstructure:"submit_per_minute"`
}

// TargetConfig проверяемый домен. Ключ API подставляется из окружения
// один раз при старте: отсутствие ключа валит процесс сразу, а не в цикле.
type TargetConfig struct {
	Domain    string `mapstructure:"domain"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"-"`
}

// GroupConfig именованная группа локаций с собственным периодом проверки
type GroupConfig struct {
	Name      string            `mapstructure:"name"`
	Period    time.Duration     `mapstructure:"period"`
	Check     models.CheckType  `mapstructure:"check"`
	Locations []models.Location `mapstructure:"locations"`
}

type RetentionConfig struct {
	Days        int           `mapstructure:"days"`
	SweepPeriod time.Duration `mapstructure:"sweep_period"`
}

type PubSubConfig struct {
	Driver string `mapstructure:"driver"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var errViper viper.ConfigFileNotFoundError
		if errors.As(err, &errViper) {
			slog.Warn("config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config, %w", err)
	}

	if err := ResolveCredentials(&config, os.Getenv); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed, %w", err)
	}

	slog.Info("configuration loaded successfully")
	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "geowatch")
	viper.SetDefault("database.password", "geowatch")
	viper.SetDefault("database.dbname", "geowatch")
	viper.SetDefault("database.sslmode", "disable")

	// redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// globalping defaults
	viper.SetDefault("globalping.api_url", "https://api.globalping.io/v1")
	viper.SetDefault("globalping.poll_interval", "2s")
	viper.SetDefault("globalping.poll_timeout", "30s")
	viper.SetDefault("globalping.submit_per_minute", 30)

	// retention defaults
	viper.SetDefault("retention.days", 7)
	viper.SetDefault("retention.sweep_period", "24h")

	// pubsub defaults
	viper.SetDefault("pubsub.driver", "memory")
}

// ResolveCredentials подставляет ключи API из окружения в типизированную
// конфигурацию целей. Отсутствующий ключ — фатальная ошибка запуска.
func ResolveCredentials(cfg *Config, getenv func(string) string) error {
	for i := range cfg.Targets {
		target := &cfg.Targets[i]
		if target.APIKeyEnv == "" {
			return fmt.Errorf("target %s: api_key_env is required", target.Domain)
		}

		key := getenv(target.APIKeyEnv)
		if key == "" {
			return fmt.Errorf("target %s: environment variable %s is not set", target.Domain, target.APIKeyEnv)
		}

		target.APIKey = key
	}

	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	if cfg.Server.Mode != "debug" && cfg.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode %s", cfg.Server.Mode)
	}

	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}

	if cfg.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if len(cfg.Targets) == 0 {
		return errors.New("at least one target is required")
	}

	for _, target := range cfg.Targets {
		if !validator.ValidateTarget(target.Domain) {
			return fmt.Errorf("invalid target domain %s", target.Domain)
		}
	}

	if len(cfg.Groups) == 0 {
		return errors.New("at least one location group is required")
	}

	for _, group := range cfg.Groups {
		if group.Name == "" {
			return errors.New("location group name is required")
		}
		if group.Period <= 0 {
			return fmt.Errorf("group %s: period must be positive", group.Name)
		}
		if len(group.Locations) == 0 {
			return fmt.Errorf("group %s: at least one location is required", group.Name)
		}
		if !validator.ValidateCheckType(string(group.Check)) {
			return fmt.Errorf("group %s: invalid check type %s", group.Name, group.Check)
		}
	}

	if cfg.Retention.Days <= 0 {
		return fmt.Errorf("retention days must be positive, got %d", cfg.Retention.Days)
	}

	if cfg.PubSub.Driver != "memory" && cfg.PubSub.Driver != "redis" {
		return fmt.Errorf("invalid pubsub driver %s", cfg.PubSub.Driver)
	}

	if cfg.PubSub.Driver == "redis" && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis address is required for redis pubsub")
	}

	return nil
}

// FastestGroup возвращает группу с наименьшим периодом: она прогоняется
// один раз сразу при старте процесса
func (c *Config) FastestGroup() GroupConfig {
	fastest := c.Groups[0]
	for _, group := range c.Groups[1:] {
		if group.Period < fastest.Period {
			fastest = group
		}
	}
	return fastest
}

// возвращает DSN строку для PostgreSQL
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// возвращает настройки для Redis клиента
func (r *RedisConfig) GetRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:            r.Addr,
		Password:        r.Password,
		DB:              r.DB,
		DisableIdentity: true,
	}
}
