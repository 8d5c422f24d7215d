package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/crewboard/internal/model"
	"github.com/amishk599/crewboard/internal/scheduler"
	"github.com/amishk599/crewboard/internal/store"
)

var (
	watchOnce   bool
	watchDryRun bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Start the polling daemon",
	Long:  "Poll every enabled category and notify about new vacancies; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "run a single poll cycle and exit")
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "poll once and notify without writing to the store")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
		"schedule", cfg.Schedule,
		"categories", len(cfg.EnabledCategories()),
		"strategy", cfg.Listing.Strategy,
		"store", cfg.Store.Path,
	)

	var jobStore model.JobStore
	if watchDryRun {
		logger.Info("dry-run mode enabled, no vacancies will be marked as seen")
		jobStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		if err := sqlStore.Cleanup(cfg.Store.Retention); err != nil {
			logger.Warn("store cleanup failed", "error", err)
		}
		jobStore = sqlStore
	}

	factory := newFetcherFactory(cfg, newHTTPClient(cfg), logger)
	pipeline, _ := buildPipeline(cfg)
	n := setupNotifier(cfg, logger)

	pollers := buildPollers(cfg, factory, pipeline, jobStore, n, logger)
	if len(pollers) == 0 {
		logger.Error("no categories to poll")
		os.Exit(1)
	}

	// Seed every category when the store starts empty, not only the first one polled.
	if empty, err := jobStore.IsEmpty(); err == nil && empty {
		for _, p := range pollers {
			p.SetSeeding(true)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchOnce || watchDryRun {
		for _, p := range pollers {
			if err := p.Poll(ctx); err != nil {
				logger.Error("poll failed", "category", p.Name, "error", err)
			}
		}
		logger.Info("single cycle complete")
		return nil
	}

	sched := scheduler.NewScheduler(pollers, cfg.PollingInterval, cfg.Schedule, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
