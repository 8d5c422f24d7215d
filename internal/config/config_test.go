package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/crewboard/internal/adapter"
	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/ranking"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
source:
  base_url: https://api.example.com/
  timeout: 10s
categories:
  - id: 3
    name: Pilots
    enabled: true
  - id: 5
    name: Engineers
    enabled: false
listing:
  strategy: priority
  priority_clients: [2203, 99]
  filters: [boeing, ATR]
  search: captain
  max_age: 48h
polling_interval: 5m
rate_limit:
  min_delay: 1s
retry:
  max_retries: 0
  base_delay: 2s
store:
  path: /tmp/seen.db
logo_cache:
  redis_url: redis://localhost:6379/0
  ttl: 1h
server:
  addr: 127.0.0.1:9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Source.BaseURL)
	}
	if cfg.Source.LogoURL != "https://api.example.com/client_logo" {
		t.Errorf("LogoURL = %q", cfg.Source.LogoURL)
	}
	if cfg.Source.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Source.Timeout)
	}
	if cfg.PollingInterval != 5*time.Minute {
		t.Errorf("PollingInterval = %v, want 5m", cfg.PollingInterval)
	}
	if cfg.Listing.Strategy != ranking.PriorityRanked {
		t.Errorf("Strategy = %q", cfg.Listing.Strategy)
	}
	if got := aircraft.Join(cfg.Listing.Filters); got != "Boeing,ATR" {
		t.Errorf("Filters = %q", got)
	}
	q := cfg.Listing.Query()
	if q.Search != "captain" || len(q.Facets) != 2 {
		t.Errorf("Query() = %+v", q)
	}
	if cfg.Listing.MaxAge != 48*time.Hour {
		t.Errorf("MaxAge = %v", cfg.Listing.MaxAge)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0", cfg.Retry.MaxRetries)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cats := cfg.EnabledCategories(); len(cats) != 1 || cats[0].ID != 3 {
		t.Errorf("EnabledCategories = %+v", cats)
	}
	if c, ok := cfg.Category(5); !ok || c.Name != "Engineers" {
		t.Errorf("Category(5) = %+v, %v", c, ok)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
categories:
  - id: 1
    name: Pilots
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.BaseURL != adapter.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Source.BaseURL)
	}
	if cfg.PollingInterval != 30*time.Minute {
		t.Errorf("PollingInterval = %v", cfg.PollingInterval)
	}
	if cfg.Listing.Strategy != ranking.Default {
		t.Errorf("Strategy = %q", cfg.Listing.Strategy)
	}
	if cfg.Retry.MaxRetries != 2 || cfg.Retry.BaseDelay != 5*time.Second {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q", cfg.Notification.Type)
	}
	if cfg.Store.Path != "crewboard.db" || cfg.Store.Retention != 30*24*time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.LogoCache.RedisURL != "" {
		t.Errorf("LogoCache.RedisURL = %q, want empty", cfg.LogoCache.RedisURL)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CREWBOARD_TEST_REDIS", "redis://cache:6379/1")
	path := writeConfig(t, `
categories:
  - id: 1
    name: Pilots
    enabled: true
logo_cache:
  redis_url: ${CREWBOARD_TEST_REDIS}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogoCache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("RedisURL = %q", cfg.LogoCache.RedisURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "polling_interval: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	const pilots = `
categories:
  - id: 1
    name: Pilots
    enabled: true
`
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero polling interval", pilots + "polling_interval: 0s\n", "polling_interval"},
		{"bad duration", pilots + "polling_interval: soon\n", "polling_interval"},
		{"no enabled categories", "categories:\n  - id: 1\n    name: Pilots\n    enabled: false\n", "at least one category"},
		{"duplicate category", pilots + "  - id: 1\n    name: Again\n    enabled: true\n", "listed twice"},
		{"unknown strategy", pilots + "listing:\n  strategy: random\n", "listing.strategy"},
		{"unknown facet", pilots + "listing:\n  filters: [Cessna]\n", "listing.filters"},
		{"bad schedule", pilots + "schedule: every day\n", "schedule"},
		{"relative base url", pilots + "source:\n  base_url: api.example.com\n", "source.base_url"},
		{"unsupported notifier", pilots + "notification:\n  type: slack\n", "notification.type"},
		{"negative retries", pilots + "retry:\n  max_retries: -1\n", "retry.max_retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load: expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ScheduleSkipsIntervalCheck(t *testing.T) {
	path := writeConfig(t, `
categories:
  - id: 1
    name: Pilots
    enabled: true
polling_interval: 0s
schedule: "*/20 6-22 * * *"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule != "*/20 6-22 * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
}
