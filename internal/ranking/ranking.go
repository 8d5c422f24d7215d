// Package ranking holds the sort strategies a job listing can be ordered by.
package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

// StrategyID selects a sort strategy. Values double as their URL/CLI names.
type StrategyID string

const (
	// Default groups jobs by client, newest start first, open applications last.
	Default StrategyID = "default"
	// PriorityRanked puts priority clients first in table order.
	PriorityRanked StrategyID = "priority"
	// Newest lists jobs by creation date, "Open" titles last.
	Newest StrategyID = "newest"
)

// ErrUnknownStrategy is returned for a StrategyID with no registered strategy.
var ErrUnknownStrategy = errors.New("unknown sort strategy")

// ParseStrategy converts a strategy name to a StrategyID. An empty name selects Default.
func ParseStrategy(s string) (StrategyID, error) {
	switch id := StrategyID(strings.ToLower(strings.TrimSpace(s))); id {
	case "":
		return Default, nil
	case Default, PriorityRanked, Newest:
		return id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Strategy orders a job slice in place. Implementations are stable: jobs
// that compare equal keep their relative order.
type Strategy interface {
	Sort(jobs []model.Job)
}

// Comparator is a total order over jobs, in the shape slices.SortStableFunc expects.
type Comparator func(a, b model.Job) int

// Sort stably orders jobs by c.
func (c Comparator) Sort(jobs []model.Job) {
	slices.SortStableFunc(jobs, (func(a, b model.Job) int)(c))
}

// passes applies several stable sorts in sequence; later passes dominate
// earlier ones only where they distinguish jobs.
type passes []Comparator

func (p passes) Sort(jobs []model.Job) {
	for _, c := range p {
		c.Sort(jobs)
	}
}

// Registry maps strategy IDs to strategies. It is immutable after construction.
type Registry struct {
	priority   PriorityTable
	strategies map[StrategyID]Strategy
}

// NewRegistry builds the registry around the given priority table.
func NewRegistry(priority PriorityTable) *Registry {
	return &Registry{
		priority: priority,
		strategies: map[StrategyID]Strategy{
			Default:        passes{ByClientThenStart, OpenApplicationsLast},
			PriorityRanked: ByPriority(priority),
			Newest:         passes{ByCreatedDesc, OpenTitlesLast},
		},
	}
}

// Lookup returns the strategy registered under id.
func (r *Registry) Lookup(id StrategyID) (Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
	}
	return s, nil
}

// Priority returns the table the PriorityRanked strategy ranks by.
func (r *Registry) Priority() PriorityTable {
	return r.priority
}

// IDs returns the registered strategy IDs in a stable order.
func (r *Registry) IDs() []StrategyID {
	ids := make([]StrategyID, 0, len(r.strategies))
	for id := range r.strategies {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ByClientThenStart orders by client ID ascending, then start date newest first.
func ByClientThenStart(a, b model.Job) int {
	if c := cmp.Compare(a.ClientID, b.ClientID); c != 0 {
		return c
	}
	return newestFirst(a.StartDate, b.StartDate)
}

// OpenApplicationsLast moves jobs with an "OR" reference code behind all others.
func OpenApplicationsLast(a, b model.Job) int {
	return compareBool(a.IsOpenApplication(), b.IsOpenApplication())
}

// ByCreatedDesc orders by creation date, newest first.
func ByCreatedDesc(a, b model.Job) int {
	return newestFirst(a.CreatedOn, b.CreatedOn)
}

// OpenTitlesLast moves jobs whose title mentions "Open" behind all others.
func OpenTitlesLast(a, b model.Job) int {
	return compareBool(strings.Contains(a.Title, "Open"), strings.Contains(b.Title, "Open"))
}

// ByPriority ranks jobs of priority clients first, in table order, then all
// other jobs. Ties at either level go to the newest start date.
func ByPriority(table PriorityTable) Comparator {
	return func(a, b model.Job) int {
		ra, aRanked := table.Rank(a.ClientID)
		rb, bRanked := table.Rank(b.ClientID)
		switch {
		case aRanked && !bRanked:
			return -1
		case !aRanked && bRanked:
			return 1
		case aRanked && bRanked && ra != rb:
			return cmp.Compare(ra, rb)
		}
		return newestFirst(a.StartDate, b.StartDate)
	}
}

// newestFirst orders later times first. A nil time counts as the oldest
// possible value, so jobs without a date sort last.
func newestFirst(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
