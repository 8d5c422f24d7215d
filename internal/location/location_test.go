package location

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Location
	}{
		{
			name:  "city and country name",
			input: "Vienna, Austria",
			want:  &Location{Name: "Vienna, Austria", Country: "AT", Locality: "Vienna"},
		},
		{
			name:  "parenthetical code overrides and is stripped",
			input: "Dublin, Ireland (IE)",
			want:  &Location{Name: "Dublin, Ireland", Country: "IE", Locality: "Dublin"},
		},
		{
			name:  "alias resolves to ISO code",
			input: "UK",
			want:  &Location{Name: "UK", Country: "GB"},
		},
		{
			name:  "bare two-letter code is uppercased",
			input: "Riga, lv",
			want:  &Location{Name: "Riga, lv", Country: "LV", Locality: "Riga"},
		},
		{
			name:  "unknown country falls back to original text",
			input: "Dublin",
			want:  &Location{Name: "Dublin", Country: "Dublin"},
		},
		{
			name:  "multi-part locality joined with comma",
			input: " Shannon ,  County Clare, ireland ",
			want:  &Location{Name: "Shannon ,  County Clare, ireland", Country: "IE", Locality: "Shannon, County Clare"},
		},
		{
			name:  "override code lower-case in parens",
			input: "Kuala Lumpur (my)",
			want:  &Location{Name: "Kuala Lumpur", Country: "MY"},
		},
		{
			name:  "non-code trailing parenthetical is stripped without override",
			input: "Doha, Qatar (Hamad Intl)",
			want:  &Location{Name: "Doha, Qatar", Country: "QA", Locality: "Doha"},
		},
		{
			name:  "empty segments dropped",
			input: "Oslo,, Norway,",
			want:  &Location{Name: "Oslo,, Norway,", Country: "NO", Locality: "Oslo"},
		},
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "   ", want: nil},
		{name: "parenthetical only", input: "(remote)", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.input)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("Parse(%q) = %+v, want nil", tc.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q) = nil, want %+v", tc.input, *tc.want)
			}
			if *got != *tc.want {
				t.Errorf("Parse(%q)\n got  %+v\n want %+v", tc.input, *got, *tc.want)
			}
		})
	}
}

func TestCountryCode(t *testing.T) {
	tests := map[string]string{
		"usa":            "US",
		"United Kingdom": "GB",
		" germany ":      "DE",
		"de":             "DE",
		"Atlantis":       "Atlantis",
		"":               "",
	}
	for in, want := range tests {
		if got := CountryCode(in); got != want {
			t.Errorf("CountryCode(%q) = %q, want %q", in, got, want)
		}
	}
}
