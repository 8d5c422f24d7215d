package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/crewboard/internal/adapter"
	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/listing"
	"github.com/amishk599/crewboard/internal/ranking"
	"github.com/amishk599/crewboard/internal/scheduler"
)

// Config is the root configuration for crewboard.
type Config struct {
	Source          SourceConfig
	Categories      []CategoryConfig
	Listing         ListingConfig
	PollingInterval time.Duration
	Schedule        string // cron spec; overrides PollingInterval when set
	Notification    NotificationConfig
	RateLimit       RateLimitConfig
	Retry           RetryConfig
	Store           StoreConfig
	LogoCache       LogoCacheConfig
	Server          ServerConfig
}

// SourceConfig points at the vacancy API.
type SourceConfig struct {
	BaseURL string
	LogoURL string // defaults to BaseURL + "/client_logo"
	Timeout time.Duration
}

// CategoryConfig describes a single job category to poll.
type CategoryConfig struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// ListingConfig holds the default listing query and ranking settings.
type ListingConfig struct {
	Strategy        ranking.StrategyID
	PriorityClients []int
	Filters         []aircraft.Category
	Search          string
	MaxAge          time.Duration // vacancies created earlier are not notified; zero disables
}

// Query returns the listing query described by the config.
func (l ListingConfig) Query() listing.Query {
	return listing.Query{
		Facets:   l.Filters,
		Search:   l.Search,
		Strategy: l.Strategy,
	}
}

// NotificationConfig controls which notifier is used.
type NotificationConfig struct {
	Type string `yaml:"type"` // only "log" is supported
}

// RateLimitConfig controls the minimum gap between requests to the vacancy API.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// RetryConfig controls exponential backoff on transient upstream failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// StoreConfig controls the seen-vacancy database.
type StoreConfig struct {
	Path      string
	Retention time.Duration // seen keys older than this are purged at startup
}

// LogoCacheConfig enables the optional Redis logo cache.
type LogoCacheConfig struct {
	RedisURL string // empty disables caching
	TTL      time.Duration
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string
}

// EnabledCategories returns the enabled categories in config order.
func (c *Config) EnabledCategories() []CategoryConfig {
	var out []CategoryConfig
	for _, cat := range c.Categories {
		if cat.Enabled {
			out = append(out, cat)
		}
	}
	return out
}

// Category looks up a configured category by ID, enabled or not.
func (c *Config) Category(id int) (CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return CategoryConfig{}, false
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Source          rawSourceConfig    `yaml:"source"`
	Categories      []CategoryConfig   `yaml:"categories"`
	Listing         rawListingConfig   `yaml:"listing"`
	PollingInterval string             `yaml:"polling_interval"`
	Schedule        string             `yaml:"schedule"`
	Notification    NotificationConfig `yaml:"notification"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Retry           rawRetryConfig     `yaml:"retry"`
	Store           rawStoreConfig     `yaml:"store"`
	LogoCache       rawLogoCacheConfig `yaml:"logo_cache"`
	Server          ServerConfig       `yaml:"server"`
}

type rawSourceConfig struct {
	BaseURL string `yaml:"base_url"`
	LogoURL string `yaml:"logo_url"`
	Timeout string `yaml:"timeout"`
}

type rawListingConfig struct {
	Strategy        string   `yaml:"strategy"`
	PriorityClients []int    `yaml:"priority_clients"`
	Filters         []string `yaml:"filters"`
	Search          string   `yaml:"search"`
	MaxAge          string   `yaml:"max_age"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawStoreConfig struct {
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

type rawLogoCacheConfig struct {
	RedisURL string `yaml:"redis_url"`
	TTL      string `yaml:"ttl"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromRaw(raw rawConfig) (*Config, error) {
	var err error
	cfg := &Config{
		Categories:   raw.Categories,
		Schedule:     strings.TrimSpace(raw.Schedule),
		Notification: raw.Notification,
		Server:       raw.Server,
	}

	cfg.Source.BaseURL = strings.TrimRight(raw.Source.BaseURL, "/")
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = adapter.DefaultBaseURL
	}
	cfg.Source.LogoURL = raw.Source.LogoURL
	if cfg.Source.LogoURL == "" {
		cfg.Source.LogoURL = cfg.Source.BaseURL + "/client_logo"
	}
	if cfg.Source.Timeout, err = parseDuration("source.timeout", raw.Source.Timeout, 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.PollingInterval, err = parseDuration("polling_interval", raw.PollingInterval, 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.Listing.Strategy, err = ranking.ParseStrategy(raw.Listing.Strategy); err != nil {
		return nil, fmt.Errorf("parse listing.strategy: %w", err)
	}
	if cfg.Listing.Filters, err = aircraft.ParseCategories(strings.Join(raw.Listing.Filters, ",")); err != nil {
		return nil, fmt.Errorf("parse listing.filters: %w", err)
	}
	cfg.Listing.PriorityClients = raw.Listing.PriorityClients
	cfg.Listing.Search = raw.Listing.Search
	if cfg.Listing.MaxAge, err = parseDuration("listing.max_age", raw.Listing.MaxAge, 0); err != nil {
		return nil, err
	}

	if cfg.RateLimit.MinDelay, err = parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, 2*time.Second); err != nil {
		return nil, err
	}

	cfg.Retry.MaxRetries = 2
	if raw.Retry.MaxRetries != nil {
		cfg.Retry.MaxRetries = *raw.Retry.MaxRetries
	}
	if cfg.Retry.BaseDelay, err = parseDuration("retry.base_delay", raw.Retry.BaseDelay, 5*time.Second); err != nil {
		return nil, err
	}

	cfg.Store.Path = raw.Store.Path
	if cfg.Store.Path == "" {
		cfg.Store.Path = "crewboard.db"
	}
	if cfg.Store.Retention, err = parseDuration("store.retention", raw.Store.Retention, 30*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.LogoCache.RedisURL = raw.LogoCache.RedisURL
	if cfg.LogoCache.TTL, err = parseDuration("logo_cache.ttl", raw.LogoCache.TTL, 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// parseDuration parses value, returning def when value is empty.
func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.Schedule != "" {
		if _, err := scheduler.ParseSchedule(cfg.Schedule); err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
	} else if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}

	if u, err := url.Parse(cfg.Source.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source.base_url must be an absolute URL, got %q", cfg.Source.BaseURL)
	}
	if cfg.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %v", cfg.Source.Timeout)
	}

	ids := make(map[int]bool)
	enabled := 0
	for _, c := range cfg.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("category %q: id must be positive", c.Name)
		}
		if ids[c.ID] {
			return fmt.Errorf("category id %d is listed twice", c.ID)
		}
		ids[c.ID] = true
		if c.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one category must be enabled")
	}

	if cfg.Listing.MaxAge < 0 {
		return fmt.Errorf("listing.max_age must not be negative, got %v", cfg.Listing.MaxAge)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.LogoCache.RedisURL != "" && cfg.LogoCache.TTL <= 0 {
		return fmt.Errorf("logo_cache.ttl must be positive when logo_cache.redis_url is set")
	}

	if cfg.Notification.Type != "log" {
		return fmt.Errorf("notification.type %q is not supported (want \"log\")", cfg.Notification.Type)
	}

	return nil
}
