package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/crewboard/internal/adapter"
	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/listing"
	"github.com/amishk599/crewboard/internal/location"
	"github.com/amishk599/crewboard/internal/posting"
)

var (
	listSearch   string
	listFilters  string
	listSort     string
	listPostings bool
)

var listCmd = &cobra.Command{
	Use:   "list [category-id]",
	Short: "Fetch one category and print the filtered, sorted listing",
	Long:  "One-shot listing: fetches a category (default: the first enabled one), applies the query, and prints it. Flags override the configured listing query.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "case-insensitive search in title and description")
	listCmd.Flags().StringVar(&listFilters, "filters", "", "comma-separated aircraft facets, e.g. Boeing,ATR")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort strategy: default, newest, priority")
	listCmd.Flags().BoolVar(&listPostings, "postings", false, "print schema.org JobPosting JSON instead of a table")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	cat, err := resolveCategory(cfg, arg)
	if err != nil {
		logger.Error("bad category", "error", err)
		os.Exit(1)
	}

	// Start from the configured query and let explicit flags override it.
	v := cfg.Listing.Query().Values()
	flags := cmd.Flags()
	if flags.Changed("search") {
		v.Set(listing.ParamSearch, listSearch)
	}
	if flags.Changed("filters") {
		v.Set(listing.ParamFilters, listFilters)
	}
	if flags.Changed("sort") {
		v.Set(listing.ParamSort, listSort)
	}
	q, err := listing.ParseQuery(v)
	if err != nil {
		logger.Error("bad query", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	factory := newFetcherFactory(cfg, newHTTPClient(cfg), logger)
	jobs, err := factory.category(cat).FetchJobs(ctx)
	if err != nil {
		logger.Error("fetch failed", "category", cat.Name, "error", err)
		os.Exit(1)
	}

	pipeline, _ := buildPipeline(cfg)
	res, err := pipeline.Apply(jobs, q)
	if err != nil {
		logger.Error("listing unavailable", "category", cat.Name, "error", err)
		os.Exit(1)
	}

	if listPostings {
		logos, closeLogos, err := factory.logos(ctx, logger)
		if err != nil {
			logger.Error("failed to set up logo lookups", "error", err)
			os.Exit(1)
		}
		defer closeLogos()
		byClient := adapter.ResolveLogos(ctx, logos, adapter.ClientIDs(res.Visible), logger)

		postings := make([]posting.JobPosting, len(res.Visible))
		for i, j := range res.Visible {
			postings[i] = posting.Build(j, byClient[j.ClientID])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(postings)
	}

	printListing(cat.Name, len(jobs), res, q.Values())
	return nil
}

func printListing(category string, total int, res listing.Result, v url.Values) {
	fmt.Printf("%-8s %-7s %-7s %-11s %-24s %s\n", "ID", "Type", "Client", "Start", "Location", "Title")
	fmt.Println(strings.Repeat("─", 90))

	for _, j := range res.Visible {
		start := "n/a"
		if j.StartDate != nil {
			start = j.StartDate.Format(time.DateOnly)
		}
		where := "Global"
		if loc := location.Parse(j.Location); loc != nil {
			where = loc.Country
			if loc.Locality != "" {
				where = loc.Locality + ", " + loc.Country
			}
		}
		title := j.Title
		if j.IsOpenApplication() {
			title += " (open application)"
		}
		fmt.Printf("%-8d %-7s %-7d %-11s %-24s %s\n", j.ID, aircraft.Classify(j.Title), j.ClientID, start, truncate(where, 24), title)
	}

	fmt.Printf("\n%s: %d of %d vacancies", category, len(res.Visible), total)
	if qs := v.Encode(); qs != "" {
		fmt.Printf(" (?%s)", qs)
	}
	fmt.Printf("\nFacets: %s\n", aircraft.Join(res.Facets))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
