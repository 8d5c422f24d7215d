package location

// countryCodes maps lower-cased country names and common aliases to ISO 3166-1 alpha-2.
var countryCodes = map[string]string{
	"australia":            "AU",
	"austria":              "AT",
	"belgium":              "BE",
	"bulgaria":             "BG",
	"canada":               "CA",
	"china":                "CN",
	"croatia":              "HR",
	"cyprus":               "CY",
	"czech republic":       "CZ",
	"czechia":              "CZ",
	"denmark":              "DK",
	"estonia":              "EE",
	"finland":              "FI",
	"france":               "FR",
	"germany":              "DE",
	"greece":               "GR",
	"hungary":              "HU",
	"iceland":              "IS",
	"india":                "IN",
	"indonesia":            "ID",
	"ireland":              "IE",
	"italy":                "IT",
	"japan":                "JP",
	"latvia":               "LV",
	"lithuania":            "LT",
	"luxembourg":           "LU",
	"malta":                "MT",
	"malaysia":             "MY",
	"netherlands":          "NL",
	"the netherlands":      "NL",
	"new zealand":          "NZ",
	"norway":               "NO",
	"philippines":          "PH",
	"poland":               "PL",
	"portugal":             "PT",
	"qatar":                "QA",
	"romania":              "RO",
	"saudi arabia":         "SA",
	"singapore":            "SG",
	"slovakia":             "SK",
	"slovenia":             "SI",
	"south africa":         "ZA",
	"spain":                "ES",
	"sweden":               "SE",
	"switzerland":          "CH",
	"thailand":             "TH",
	"turkey":               "TR",
	"uae":                  "AE",
	"united arab emirates": "AE",
	"united kingdom":       "GB",
	"uk":                   "GB",
	"united states":        "US",
	"usa":                  "US",
	"vietnam":              "VN",
}
