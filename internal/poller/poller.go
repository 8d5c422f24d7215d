package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/crewboard/internal/listing"
	"github.com/amishk599/crewboard/internal/model"
)

// CategoryPoller owns the full poll pipeline for a single job category:
// fetch → filter/sort → freshness → dedup → notify → mark seen.
type CategoryPoller struct {
	Name       string
	CategoryID int
	fetcher    model.JobFetcher
	pipeline   *listing.Pipeline
	query      listing.Query
	store      model.JobStore
	notifier   model.Notifier
	maxAge     time.Duration // zero disables the freshness check
	seeding    bool
	logger     *slog.Logger
	now        func() time.Time
}

// NewCategoryPoller creates a poller wired with all its dependencies.
func NewCategoryPoller(
	name string,
	categoryID int,
	fetcher model.JobFetcher,
	pipeline *listing.Pipeline,
	query listing.Query,
	store model.JobStore,
	notifier model.Notifier,
	maxAge time.Duration,
	logger *slog.Logger,
) *CategoryPoller {
	return &CategoryPoller{
		Name:       name,
		CategoryID: categoryID,
		fetcher:    fetcher,
		pipeline:   pipeline,
		query:      query,
		store:      store,
		notifier:   notifier,
		maxAge:     maxAge,
		logger:     logger,
		now:        time.Now,
	}
}

// SetSeeding makes the next Poll record vacancies without notifying, even
// when the store already holds keys written by other categories.
func (p *CategoryPoller) SetSeeding(seed bool) {
	p.seeding = seed
}

// Poll runs one poll cycle. On the first run against an empty store every
// visible vacancy is marked seen without notifying.
func (p *CategoryPoller) Poll(ctx context.Context) error {
	jobs, err := p.fetcher.FetchJobs(ctx)
	if err != nil {
		return fmt.Errorf("polling %s: %w", p.Name, err)
	}

	res, err := p.pipeline.Apply(jobs, p.query)
	if err != nil {
		return fmt.Errorf("polling %s: %w", p.Name, err)
	}

	firstRun := p.seeding
	if !firstRun {
		if firstRun, err = p.store.IsEmpty(); err != nil {
			return fmt.Errorf("polling %s: %w", p.Name, err)
		}
	}

	var newJobs []model.Job
	for _, job := range res.Visible {
		if !firstRun && !p.isFresh(job) {
			continue
		}
		seen, err := p.store.HasSeen(p.seenKey(job))
		if err != nil {
			return fmt.Errorf("polling %s: checking seen status: %w", p.Name, err)
		}
		if !seen {
			newJobs = append(newJobs, job)
		}
	}

	if firstRun {
		p.logger.Info("first run, seeding store without notifying",
			"category", p.Name,
			"vacancies", len(newJobs),
		)
	} else if len(newJobs) > 0 {
		if err := p.notifier.Notify(newJobs); err != nil {
			return fmt.Errorf("polling %s: notifying: %w", p.Name, err)
		}
	}

	for _, job := range newJobs {
		if err := p.store.MarkSeen(p.seenKey(job)); err != nil {
			return fmt.Errorf("polling %s: marking seen: %w", p.Name, err)
		}
	}

	p.seeding = false
	p.logger.Info("polled category",
		"category", p.Name,
		"fetched", len(jobs),
		"matched", len(res.Visible),
		"new", len(newJobs),
		"query", p.query.String(),
	)

	return nil
}

// isFresh reports whether job was created within maxAge. Jobs without a
// creation date pass.
func (p *CategoryPoller) isFresh(job model.Job) bool {
	if p.maxAge <= 0 || job.CreatedOn == nil {
		return true
	}
	return p.now().Sub(*job.CreatedOn) <= p.maxAge
}

func (p *CategoryPoller) seenKey(job model.Job) string {
	return fmt.Sprintf("%d:%d", p.CategoryID, job.ID)
}
