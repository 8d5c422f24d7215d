package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/crewboard/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the listing API over HTTP",
	Long:  "Starts the JSON API (categories, listings, JobPosting metadata, location parsing); blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := newFetcherFactory(cfg, newHTTPClient(cfg), logger)
	logos, closeLogos, err := factory.logos(ctx, logger)
	if err != nil {
		logger.Error("failed to set up logo lookups", "error", err)
		os.Exit(1)
	}
	defer closeLogos()

	var categories []server.Category
	for _, cat := range cfg.EnabledCategories() {
		categories = append(categories, server.NewCategory(cat.ID, cat.Name, factory.category(cat)))
	}

	pipeline, _ := buildPipeline(cfg)
	srv := server.New(categories, logos, pipeline, logger)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
