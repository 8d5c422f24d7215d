package listing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/ranking"
)

// URL query parameters that persist a Query across page loads.
const (
	ParamSearch  = "search"
	ParamFilters = "filters"
	ParamSort    = "sort"
)

// ParseQuery reads a Query from URL query parameters. Missing parameters
// select the defaults; unknown facet or sort names are an error.
func ParseQuery(v url.Values) (Query, error) {
	facets, err := aircraft.ParseCategories(v.Get(ParamFilters))
	if err != nil {
		return Query{}, fmt.Errorf("parse %s: %w", ParamFilters, err)
	}
	strategy, err := ranking.ParseStrategy(v.Get(ParamSort))
	if err != nil {
		return Query{}, fmt.Errorf("parse %s: %w", ParamSort, err)
	}
	return Query{
		Facets:   facets,
		Search:   v.Get(ParamSearch),
		Strategy: strategy,
	}, nil
}

// Values encodes q as URL query parameters, omitting anything at its default.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if len(q.Facets) > 0 {
		v.Set(ParamFilters, aircraft.Join(q.Facets))
	}
	if q.Strategy != "" && q.Strategy != ranking.Default {
		v.Set(ParamSort, string(q.Strategy))
	}
	return v
}

// Toggle returns a copy of q with facet c added to or removed from the selection.
func (q Query) Toggle(c aircraft.Category) Query {
	out := q
	out.Facets = nil
	removed := false
	for _, f := range q.Facets {
		if f == c {
			removed = true
			continue
		}
		out.Facets = append(out.Facets, f)
	}
	if !removed {
		out.Facets = append(out.Facets, c)
	}
	return out
}

// Selected reports whether facet c is part of the selection.
func (q Query) Selected(c aircraft.Category) bool {
	for _, f := range q.Facets {
		if f == c {
			return true
		}
	}
	return false
}

// String renders q for logs, e.g. `search="captain" filters=Boeing sort=default`.
func (q Query) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "search=%q", q.Search)
	if len(q.Facets) > 0 {
		fmt.Fprintf(&b, " filters=%s", aircraft.Join(q.Facets))
	}
	strategy := q.Strategy
	if strategy == "" {
		strategy = ranking.Default
	}
	fmt.Fprintf(&b, " sort=%s", strategy)
	return b.String()
}
