// Package aircraft classifies job titles by the aircraft type they mention.
// The rules are a small fixed lookup, first match wins:
//
//	"saab"          -> Saab
//	"atr"           -> ATR
//	B + 3 digits    -> Boeing   (B737, b777; also the word "boeing")
//	A + 3 digits    -> Airbus   (A320, a330; also the word "airbus")
//	anything else   -> Other
package aircraft

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is one aircraft facet. Values double as their URL/CLI names.
type Category string

const (
	Saab   Category = "Saab"
	ATR    Category = "ATR"
	Boeing Category = "Boeing"
	Airbus Category = "Airbus"
	Other  Category = "Other"
)

// all lists every category in canonical display order.
var all = []Category{Saab, ATR, Boeing, Airbus, Other}

var (
	boeingPattern = regexp.MustCompile(`(?i)\bb\d{3}\b|\bboeing\b`)
	airbusPattern = regexp.MustCompile(`(?i)\ba\d{3}\b|\bairbus\b`)
)

// Classify maps a free-text job title to its aircraft category.
func Classify(title string) Category {
	lower := strings.ToLower(title)

	switch {
	case strings.Contains(lower, "saab"):
		return Saab
	case strings.Contains(lower, "atr"):
		return ATR
	case boeingPattern.MatchString(title):
		return Boeing
	case airbusPattern.MatchString(title):
		return Airbus
	default:
		return Other
	}
}

// All returns every category in canonical order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Index returns the canonical position of c, or -1 for an unknown value.
func Index(c Category) int {
	for i, v := range all {
		if v == c {
			return i
		}
	}
	return -1
}

// ParseCategory converts a facet name to a Category, ignoring case.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for _, c := range all {
		if strings.EqualFold(name, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown aircraft category %q", s)
}

// ParseCategories parses a comma-joined facet list such as "Boeing,ATR".
// Empty segments are skipped and duplicates collapse to one entry.
func ParseCategories(s string) ([]Category, error) {
	var out []Category
	seen := make(map[Category]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCategory(part)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Join renders categories as a comma-joined list, the inverse of ParseCategories.
func Join(cats []Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}
