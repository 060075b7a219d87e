package normalize

import (
	"testing"
)

func TestParseSuggestionsBareJSON(t *testing.T) {
	t.Parallel()

	raw := `[{"text":"Add a glossary","applies_to":["Jane Doe"]},{"text":"Chunk the steps","applies_to":["Jane Doe","Mike Kim"]}]`
	got, degraded := ParseSuggestions(raw, []string{"Jane Doe", "Mike Kim"})
	if degraded {
		t.Fatalf("valid JSON should not be degraded")
	}
	if len(got) != 2 {
		t.Fatalf("unexpected count: got=%d want=2", len(got))
	}
	if got[0].Text != "Add a glossary" || len(got[0].AppliesTo) != 1 || got[0].AppliesTo[0] != "Jane Doe" {
		t.Fatalf("unexpected first suggestion: %+v", got[0])
	}
	if got[0].Degraded || got[1].Degraded {
		t.Fatalf("structured suggestions must not carry the degraded flag")
	}
}

func TestParseSuggestionsStripsFence(t *testing.T) {
	t.Parallel()

	raw := "```json\n[{\"text\":\"Provide a template\",\"applies_to\":[\"Mike Kim\"]}]\n```"
	got, degraded := ParseSuggestions(raw, []string{"Mike Kim"})
	if degraded {
		t.Fatalf("fenced JSON should decode cleanly")
	}
	if len(got) != 1 || got[0].Text != "Provide a template" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseSuggestionsFenceWithoutLanguageTag(t *testing.T) {
	t.Parallel()

	raw := "```\n[{\"text\":\"Reduce the problem set\",\"applies_to\":[]}]\n```"
	got, degraded := ParseSuggestions(raw, nil)
	if degraded {
		t.Fatalf("fenced JSON without tag should decode cleanly")
	}
	if len(got) != 1 || got[0].Text != "Reduce the problem set" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseSuggestionsDegradedFallback(t *testing.T) {
	t.Parallel()

	raw := "Here are some ideas:\n1. Break the task into steps.\n2. Add a worked example."
	names := []string{"Jane Doe", "Mike Kim"}
	got, degraded := ParseSuggestions(raw, names)
	if !degraded {
		t.Fatalf("prose reply must be degraded")
	}
	if len(got) != 1 {
		t.Fatalf("fallback must be a single suggestion, got %d", len(got))
	}
	if !got[0].Degraded {
		t.Fatalf("fallback suggestion must carry the degraded flag")
	}
	if got[0].Text != raw {
		t.Fatalf("fallback must preserve the full reply text: %q", got[0].Text)
	}
	if len(got[0].AppliesTo) != 2 || got[0].AppliesTo[0] != "Jane Doe" || got[0].AppliesTo[1] != "Mike Kim" {
		t.Fatalf("fallback must apply to every requested student: %v", got[0].AppliesTo)
	}
}

func TestParseSuggestionsNilAppliesToBecomesEmpty(t *testing.T) {
	t.Parallel()

	raw := `[{"text":"General rewording"}]`
	got, degraded := ParseSuggestions(raw, nil)
	if degraded {
		t.Fatalf("unexpected degraded flag")
	}
	if got[0].AppliesTo == nil {
		t.Fatalf("applies_to must never be nil")
	}
	if len(got[0].AppliesTo) != 0 {
		t.Fatalf("unexpected applies_to: %v", got[0].AppliesTo)
	}
}
