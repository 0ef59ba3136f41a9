package generator

import (
	"encoding/json"
	"regexp"
)

// Patterns for pulling JSON out of model responses, which often arrive
// wrapped in markdown fences or trailed by prose.
var (
	jsonBlockPattern     = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	jsonObjectPattern    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON locates a JSON object inside a raw model response and
// unmarshals it into out. It returns false when no parseable object is
// present; callers treat that as an unusable generation, never an error.
func ExtractJSON(content string, out any) bool {
	raw := ""
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		raw = matches[1]
	} else if match := jsonObjectPattern.FindString(content); match != "" {
		raw = match
	}
	if raw == "" {
		return false
	}

	// Models commonly emit trailing commas, which encoding/json rejects.
	raw = trailingCommaPattern.ReplaceAllString(raw, "$1")

	return json.Unmarshal([]byte(raw), out) == nil
}
