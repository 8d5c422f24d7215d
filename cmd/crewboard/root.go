package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amishk599/crewboard/internal/adapter"
	"github.com/amishk599/crewboard/internal/config"
	"github.com/amishk599/crewboard/internal/listing"
	"github.com/amishk599/crewboard/internal/model"
	"github.com/amishk599/crewboard/internal/notifier"
	"github.com/amishk599/crewboard/internal/poller"
	"github.com/amishk599/crewboard/internal/ranking"
	"github.com/amishk599/crewboard/internal/ratelimit"
	"github.com/amishk599/crewboard/internal/retry"
	"github.com/amishk599/crewboard/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "crewboard",
	Short: "Aviation vacancy board: watch, browse, and serve crew job listings",
	Long:  "Crewboard fetches aviation vacancies by category, classifies them by aircraft type, and lets you watch, browse, or serve the listings.",
	// Default to `watch` so that `crewboard` with no args runs the daemon.
	RunE:         runWatch,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CREWBOARD_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CREWBOARD_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("CREWBOARD_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// setupNotifier returns the notifier selected by notification.type. Config
// validation only admits "log" today.
func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	logger.Debug("using notifier", "type", cfg.Notification.Type)
	return notifier.NewLogNotifier(logger)
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Source.Timeout}
}

func buildPipeline(cfg *config.Config) (*listing.Pipeline, *ranking.Registry) {
	registry := ranking.NewRegistry(ranking.NewPriorityTable(cfg.Listing.PriorityClients...))
	return listing.NewPipeline(registry), registry
}

// fetcherFactory builds category fetchers that share one rate limiter and
// one retry policy, so every category respects the same upstream budget.
type fetcherFactory struct {
	cfg     *config.Config
	client  *http.Client
	limiter *ratelimit.HostRateLimiter
	policy  *retry.Policy
}

func newFetcherFactory(cfg *config.Config, client *http.Client, logger *slog.Logger) *fetcherFactory {
	return &fetcherFactory{
		cfg:     cfg,
		client:  client,
		limiter: ratelimit.NewHostRateLimiter(cfg.RateLimit.MinDelay),
		policy:  retry.NewPolicy(cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger),
	}
}

// category returns the decorated fetcher for cat: retry → rate limit → HTTP.
func (f *fetcherFactory) category(cat config.CategoryConfig) model.JobFetcher {
	a := adapter.NewCategoryAdapter(f.cfg.Source.BaseURL, cat.ID, f.client)
	var fetcher model.JobFetcher = ratelimit.NewRateLimitedFetcher(a, f.limiter, a.Host())
	return retry.NewRetryFetcher(fetcher, f.policy, cat.Name)
}

// logos returns the logo fetcher, fronted by the Redis cache when one is
// configured. The returned func releases the cache connection.
func (f *fetcherFactory) logos(ctx context.Context, logger *slog.Logger) (model.LogoFetcher, func(), error) {
	var fetcher model.LogoFetcher = retry.NewRetryLogoFetcher(adapter.NewLogoAdapter(f.cfg.Source.LogoURL, f.client), f.policy)
	if f.cfg.LogoCache.RedisURL == "" {
		return fetcher, func() {}, nil
	}

	rdb, err := store.NewRedisClient(ctx, f.cfg.LogoCache.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("logo cache: %w", err)
	}
	logger.Info("logo cache enabled", "ttl", f.cfg.LogoCache.TTL.String())
	return store.NewRedisLogoCache(fetcher, rdb, f.cfg.LogoCache.TTL, logger), func() { rdb.Close() }, nil
}

func buildPollers(cfg *config.Config, factory *fetcherFactory, pipeline *listing.Pipeline, jobStore model.JobStore, n model.Notifier, logger *slog.Logger) []*poller.CategoryPoller {
	query := cfg.Listing.Query()
	logger.Info("listing query", "query", query.String(), "max_age", cfg.Listing.MaxAge.String())

	var pollers []*poller.CategoryPoller
	for _, cat := range cfg.EnabledCategories() {
		p := poller.NewCategoryPoller(cat.Name, cat.ID, factory.category(cat), pipeline, query, jobStore, n, cfg.Listing.MaxAge, logger)
		pollers = append(pollers, p)
		logger.Info("registered category", "name", cat.Name, "id", cat.ID)
	}
	return pollers
}

// resolveCategory picks the category named by arg (an ID), or the first
// enabled category when arg is empty.
func resolveCategory(cfg *config.Config, arg string) (config.CategoryConfig, error) {
	if arg == "" {
		return cfg.EnabledCategories()[0], nil
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return config.CategoryConfig{}, fmt.Errorf("invalid category id %q", arg)
	}
	cat, ok := cfg.Category(id)
	if !ok {
		return config.CategoryConfig{}, fmt.Errorf("category %d is not configured", id)
	}
	return cat, nil
}
