package filter

import (
	"strings"

	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/model"
)

// FacetAndSearchFilter matches jobs whose aircraft category is one of the
// selected facets and whose title or description contains the search term.
// Matching is case-insensitive. An empty facet selection or an empty search
// term is treated as "match all".
type FacetAndSearchFilter struct {
	facets map[aircraft.Category]bool
	search string // lower-cased
}

// NewFacetAndSearchFilter returns a filter that requires both a facet match
// and a search-term match.
func NewFacetAndSearchFilter(facets []aircraft.Category, search string) *FacetAndSearchFilter {
	set := make(map[aircraft.Category]bool, len(facets))
	for _, f := range facets {
		set[f] = true
	}
	return &FacetAndSearchFilter{
		facets: set,
		search: strings.ToLower(search),
	}
}

// Match returns true if the job's classified category is selected and the
// search term occurs in its title or description.
func (f *FacetAndSearchFilter) Match(job model.Job) bool {
	if len(f.facets) > 0 && !f.facets[aircraft.Classify(job.Title)] {
		return false
	}

	if f.search != "" {
		if !strings.Contains(strings.ToLower(job.Title), f.search) &&
			!strings.Contains(strings.ToLower(job.Description), f.search) {
			return false
		}
	}

	return true
}
