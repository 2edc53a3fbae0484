package openai

import "strings"

// sanitizeJSONResponse prepares raw model output for JSON parsing.
// It strips surrounding whitespace and markdown code fences, then repairs the
// most common structural defect seen in practice: a missing opening quote
// before an object key (e.g. `{relevant": true}` or `, flagged": false`).
func sanitizeJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return repairMissingKeyQuotes(s)
}

// repairMissingKeyQuotes inserts a missing opening quote before object keys.
// A key is considered unquoted when, directly after `{` or `,` (and optional
// whitespace), a run of identifier characters is terminated by `":`, meaning
// the closing quote survived but the opening one was dropped.
func repairMissingKeyQuotes(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+8)

	for i := 0; i < len(in); {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		// Skip whitespace after the delimiter.
		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			out = append(out, in[i])
			i++
		}

		if i >= len(in) || in[i] == '"' || !isKeyRune(in[i]) {
			continue
		}

		// Collect the candidate key.
		start := i
		for i < len(in) && isKeyRune(in[i]) {
			i++
		}

		// Only an orphaned `":` marks a dropped opening quote; anything else
		// is copied through untouched.
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, in[start:i]...)
	}

	return string(out)
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}
