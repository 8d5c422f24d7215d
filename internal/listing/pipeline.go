// Package listing turns a raw job collection into the list a visitor sees:
// facet and search filtering followed by the selected sort strategy.
package listing

import (
	"fmt"
	"slices"

	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/filter"
	"github.com/amishk599/crewboard/internal/model"
	"github.com/amishk599/crewboard/internal/ranking"
)

// Query is the visitor's current selection.
type Query struct {
	Facets   []aircraft.Category // empty selects every category
	Search   string              // empty matches every job
	Strategy ranking.StrategyID  // empty selects ranking.Default
}

// Result is the output of one pipeline run.
type Result struct {
	Visible []model.Job         // filtered and sorted
	Facets  []aircraft.Category // categories present in the input, canonical order
}

// Pipeline applies queries to job collections. It holds no per-call state
// and is safe for concurrent use.
type Pipeline struct {
	registry *ranking.Registry
}

// NewPipeline creates a pipeline that resolves sort strategies from registry.
func NewPipeline(registry *ranking.Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Apply filters and sorts jobs according to q. The input slice is never
// modified. A nil collection yields model.ErrNoJobs; duplicate job IDs yield
// an error wrapping model.ErrInvalidJobs.
func (p *Pipeline) Apply(jobs []model.Job, q Query) (Result, error) {
	if jobs == nil {
		return Result{}, model.ErrNoJobs
	}
	if err := checkUniqueIDs(jobs); err != nil {
		return Result{}, err
	}

	id := q.Strategy
	if id == "" {
		id = ranking.Default
	}
	strategy, err := p.registry.Lookup(id)
	if err != nil {
		return Result{}, err
	}

	f := filter.NewFacetAndSearchFilter(q.Facets, q.Search)
	visible := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if f.Match(job) {
			visible = append(visible, job)
		}
	}
	strategy.Sort(visible)

	return Result{
		Visible: visible,
		Facets:  AvailableFacets(jobs),
	}, nil
}

// AvailableFacets returns the distinct categories of jobs in canonical order.
func AvailableFacets(jobs []model.Job) []aircraft.Category {
	present := make(map[aircraft.Category]bool)
	for _, job := range jobs {
		present[aircraft.Classify(job.Title)] = true
	}
	facets := make([]aircraft.Category, 0, len(present))
	for c := range present {
		facets = append(facets, c)
	}
	slices.SortFunc(facets, func(a, b aircraft.Category) int {
		return aircraft.Index(a) - aircraft.Index(b)
	})
	return facets
}

func checkUniqueIDs(jobs []model.Job) error {
	seen := make(map[int]bool, len(jobs))
	for _, job := range jobs {
		if seen[job.ID] {
			return fmt.Errorf("%w: duplicate job ID %d", model.ErrInvalidJobs, job.ID)
		}
		seen[job.ID] = true
	}
	return nil
}
