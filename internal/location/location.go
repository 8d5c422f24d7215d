package location

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	trailingParenRegex = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	parenCodeRegex     = regexp.MustCompile(`\(([A-Za-z]{2})\b`)
)

// Location is a structured address derived from a free-text job location.
type Location struct {
	Name     string `json:"name"`               // display name without the trailing parenthetical
	Country  string `json:"country"`            // ISO 3166-1 alpha-2 when inferable, else the original country text
	Locality string `json:"locality,omitempty"` // everything before the country segment; empty when absent
}

// Parse turns a free-text location such as "Vienna, Austria (AT)" into a
// Location. It returns nil when the input is empty or nothing but a
// parenthetical.
func Parse(raw string) *Location {
	if raw == "" {
		return nil
	}

	cleaned := strings.TrimSpace(trailingParenRegex.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return nil
	}

	var override string
	if m := parenCodeRegex.FindStringSubmatch(raw); m != nil {
		override = strings.ToUpper(m[1])
	}

	var parts []string
	for _, p := range strings.Split(cleaned, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	countryPart := cleaned
	var locality string
	if len(parts) > 0 {
		countryPart = parts[len(parts)-1]
		locality = strings.Join(parts[:len(parts)-1], ", ")
	}

	country := override
	if country == "" {
		country = CountryCode(countryPart)
	}

	return &Location{
		Name:     cleaned,
		Country:  country,
		Locality: locality,
	}
}

// CountryCode resolves a country name or code to ISO alpha-2. Known names and
// aliases win, then any two-letter value is uppercased, and anything else is
// returned trimmed but otherwise unchanged.
func CountryCode(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if code, ok := countryCodes[strings.ToLower(trimmed)]; ok {
		return code
	}
	if utf8.RuneCountInString(trimmed) == 2 {
		return strings.ToUpper(trimmed)
	}
	return trimmed
}
