package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/crewboard/internal/adapter"
	"github.com/amishk599/crewboard/internal/browse"
	"github.com/amishk599/crewboard/internal/config"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse vacancies interactively (TUI)",
	Long:  "Shows the category picker, then an interactive listing with search, aircraft facets, and sort strategies.",
	RunE:  runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Browse runs a TUI and any log output while the alt-screen is active
	// corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runBrowse(cfg, silentLogger)
	return nil
}

func runBrowse(cfg *config.Config, logger *slog.Logger) {
	categories := cfg.EnabledCategories()
	factory := newFetcherFactory(cfg, newHTTPClient(cfg), logger)
	pipeline, registry := buildPipeline(cfg)

	logos, closeLogos, err := factory.logos(context.Background(), logger)
	if err != nil {
		fmt.Printf("Logo lookups disabled: %v\n", err)
		logos, closeLogos = nil, func() {}
	}
	defer closeLogos()

	query := cfg.Listing.Query()
	for {
		choice, err := browse.RunCategoryPicker(categories)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice < 0 {
			return
		}
		cat := categories[choice]
		fetcher := factory.category(cat)

		snap, err := browse.RunLoader(cat.Name, func(ctx context.Context) (browse.Snapshot, error) {
			jobs, err := fetcher.FetchJobs(ctx)
			if err != nil {
				return browse.Snapshot{}, err
			}
			snap := browse.Snapshot{Jobs: jobs}
			if logos != nil {
				snap.Logos = adapter.ResolveLogos(ctx, logos, adapter.ClientIDs(jobs), logger)
			}
			return snap, nil
		})
		if err != nil {
			fmt.Printf("Error fetching vacancies: %v\n", err)
			continue
		}

		var wantQuit bool
		query, wantQuit, err = browse.RunBrowseTUI(cat.Name, snap, pipeline, query, registry.IDs())
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
		// else: loop → back to picker, keeping the query
	}
}
