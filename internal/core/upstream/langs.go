package upstream

import "strings"

// languageNames maps full language names to the ISO codes the upstream
// endpoint expects.
var languageNames = map[string]string{
	"arabic":     "AR",
	"bulgarian":  "BG",
	"chinese":    "ZH",
	"czech":      "CS",
	"danish":     "DA",
	"dutch":      "NL",
	"english":    "EN",
	"estonian":   "ET",
	"finnish":    "FI",
	"french":     "FR",
	"german":     "DE",
	"greek":      "EL",
	"hungarian":  "HU",
	"indonesian": "ID",
	"italian":    "IT",
	"japanese":   "JA",
	"korean":     "KO",
	"latvian":    "LV",
	"lithuanian": "LT",
	"norwegian":  "NB",
	"polish":     "PL",
	"portuguese": "PT",
	"romanian":   "RO",
	"russian":    "RU",
	"slovak":     "SK",
	"slovenian":  "SL",
	"spanish":    "ES",
	"swedish":    "SV",
	"turkish":    "TR",
	"ukrainian":  "UK",
}

// NormalizeLang converts a caller-supplied language value into the form the
// upstream expects: "auto" stays "auto", known full names map to ISO codes,
// anything else is uppercased verbatim. Empty values fall back to fallback.
// The same normalization is applied to languages reported in responses.
func NormalizeLang(value string, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}

	lower := strings.ToLower(value)
	if lower == "auto" {
		return "auto"
	}
	if code, ok := languageNames[lower]; ok {
		return code
	}
	return strings.ToUpper(value)
}
