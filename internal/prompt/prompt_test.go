package prompt

import (
	"strings"
	"testing"
)

func TestSuggestionsIncludesMaterialAndProfiles(t *testing.T) {
	t.Parallel()

	profiles := []StudentProfile{
		{Name: "Jane Doe", Accommodations: "Extended time", Needs: "Struggles with multi-step directions"},
		{Name: "Mike Kim"},
	}
	out := Suggestions("Write a class with two methods.", profiles, "")

	if !strings.Contains(out, "ORIGINAL LESSON/ASSIGNMENT:\nWrite a class with two methods.") {
		t.Fatalf("material missing:\n%s", out)
	}
	if !strings.Contains(out, "- Jane Doe\n  Accommodations: Extended time\n  Needs: Struggles with multi-step directions") {
		t.Fatalf("full profile missing:\n%s", out)
	}
	if !strings.Contains(out, "- Mike Kim") {
		t.Fatalf("bare profile missing:\n%s", out)
	}
	if strings.Contains(out, "Mike Kim\n  Accommodations:") {
		t.Fatalf("empty accommodation line rendered:\n%s", out)
	}
	if !strings.Contains(out, "Return ONLY the JSON array, no other text.") {
		t.Fatalf("format instruction missing:\n%s", out)
	}
	if strings.Contains(out, "CURRICULUM STANDARDS ADDRESSED:") {
		t.Fatalf("standards block rendered despite being empty:\n%s", out)
	}
}

func TestSuggestionsIncludesStandardsBlockWhenPresent(t *testing.T) {
	t.Parallel()

	block := "CURRICULUM STANDARDS ADDRESSED:\n\nDomain 1A: Computational Thinking\n  Standard 2: Algorithms\n    - 1A-2-1: Decompose a problem\n"
	out := Suggestions("material", []StudentProfile{{Name: "Jane Doe"}}, block)
	if !strings.Contains(out, block) {
		t.Fatalf("standards block missing:\n%s", out)
	}
}

func TestSuggestionsIsDeterministic(t *testing.T) {
	t.Parallel()

	profiles := []StudentProfile{{Name: "Jane Doe"}}
	a := Suggestions("m", profiles, "")
	b := Suggestions("m", profiles, "")
	if a != b {
		t.Fatalf("prompt must be a pure function of its inputs")
	}
}

func TestFinalContentListsApprovedModifications(t *testing.T) {
	t.Parallel()

	out := FinalContent("The lesson body.", []string{"Add a glossary", "Chunk the steps"})
	if !strings.Contains(out, "ORIGINAL LESSON:\nThe lesson body.") {
		t.Fatalf("material missing:\n%s", out)
	}
	if !strings.Contains(out, "- Add a glossary\n- Chunk the steps") {
		t.Fatalf("approved bullets missing:\n%s", out)
	}
	if !strings.Contains(out, "Do NOT wrap your response in markdown code fences") {
		t.Fatalf("fence instruction missing:\n%s", out)
	}
}
