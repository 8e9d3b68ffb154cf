package config

import (
	"strings"
	"testing"
	"time"

	"GeoWatch/internal/models"
)

func validTestConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, Mode: "debug"},
		Database: DatabaseConfig{Host: "localhost", DBName: "geowatch"},
		Targets: []TargetConfig{
			{Domain: "site.example.com", APIKeyEnv: "GLOBALPING_API_KEY", APIKey: "secret"},
		},
		Groups: []GroupConfig{
			{
				Name:      "2min",
				Period:    2 * time.Minute,
				Check:     models.CheckTypeHTTP,
				Locations: []models.Location{{Country: "RU", City: "Moscow"}},
			},
		},
		Retention: RetentionConfig{Days: 7, SweepPeriod: 24 * time.Hour},
		PubSub:    PubSubConfig{Driver: "memory"},
	}
}

func TestResolveCredentials(t *testing.T) {
	env := map[string]string{"GLOBALPING_API_KEY": "real-key"}
	getenv := func(key string) string { return env[key] }

	cfg := validTestConfig()
	cfg.Targets[0].APIKey = ""

	if err := ResolveCredentials(cfg, getenv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Targets[0].APIKey != "real-key" {
		t.Errorf("credential not resolved, got %q", cfg.Targets[0].APIKey)
	}
}

func TestResolveCredentialsMissingEnvFailsFast(t *testing.T) {
	getenv := func(string) string { return "" }

	cfg := validTestConfig()
	cfg.Targets[0].APIKey = ""

	err := ResolveCredentials(cfg, getenv)
	if err == nil {
		t.Fatal("missing credential must fail at startup, not at cycle time")
	}
	if !strings.Contains(err.Error(), "GLOBALPING_API_KEY") {
		t.Errorf("error must name the missing variable, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "no targets", mutate: func(c *Config) { c.Targets = nil }, wantErr: true},
		{name: "no groups", mutate: func(c *Config) { c.Groups = nil }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "bad target domain", mutate: func(c *Config) { c.Targets[0].Domain = "http://x" }, wantErr: true},
		{name: "zero period", mutate: func(c *Config) { c.Groups[0].Period = 0 }, wantErr: true},
		{name: "empty group locations", mutate: func(c *Config) { c.Groups[0].Locations = nil }, wantErr: true},
		{name: "unknown check type", mutate: func(c *Config) { c.Groups[0].Check = "traceroute" }, wantErr: true},
		{name: "zero retention", mutate: func(c *Config) { c.Retention.Days = 0 }, wantErr: true},
		{name: "unknown pubsub driver", mutate: func(c *Config) { c.PubSub.Driver = "kafka" }, wantErr: true},
		{name: "redis pubsub without addr", mutate: func(c *Config) {
			c.PubSub.Driver = "redis"
			c.Redis.Addr = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Errorf("want validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestFastestGroup(t *testing.T) {
	cfg := validTestConfig()
	cfg.Groups = []GroupConfig{
		{Name: "6min", Period: 6 * time.Minute},
		{Name: "2min", Period: 2 * time.Minute},
		{Name: "5min", Period: 5 * time.Minute},
	}

	if got := cfg.FastestGroup().Name; got != "2min" {
		t.Errorf("want fastest group 2min, got %s", got)
	}
}
