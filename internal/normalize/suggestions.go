// Package normalize turns raw generator replies into structured records the
// workflow can store: suggestion lists on the way into review, and HTML on
// the way out of final generation.
package normalize

import (
	"encoding/json"
	"strings"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
)

// ParseSuggestions decodes the generator's reply into suggestion records. The
// reply is expected to be a JSON array of {text, applies_to}, possibly fenced
// in a code block with an optional language tag. A reply that cannot be
// decoded is not an error: the whole text is wrapped as a single suggestion
// applying to every requested student and marked degraded, so callers can
// distinguish fallback output from a real mapping.
func ParseSuggestions(raw string, allStudentNames []string) ([]types.Suggestion, bool) {
	cleaned := stripFence(strings.TrimSpace(raw))

	var decoded []struct {
		Text      string   `json:"text"`
		AppliesTo []string `json:"applies_to"`
	}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		names := make([]string, len(allStudentNames))
		copy(names, allStudentNames)
		return []types.Suggestion{{
			Text:      strings.TrimSpace(raw),
			AppliesTo: names,
			Degraded:  true,
		}}, true
	}

	out := make([]types.Suggestion, 0, len(decoded))
	for _, d := range decoded {
		applies := d.AppliesTo
		if applies == nil {
			applies = []string{}
		}
		out = append(out, types.Suggestion{Text: d.Text, AppliesTo: applies})
	}
	return out, false
}

// stripFence removes a leading code fence and its optional language tag. The
// generator is told to return bare JSON but routinely fences it anyway.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}
