package curriculum

import (
	"strings"
	"testing"
)

const sampleDoc = `# Computer Science Standards

## Domain 1A: Computational Thinking
### Standard 2: Algorithms
- 1A-2-1: Decompose a problem into smaller subproblems
- 1A-2-2: Express an algorithm using natural language

### Standard 3: Abstraction
- 1A-3-1: Identify common features across problems

## Domain 2B: Programming
### Standard 1: Variables
- 2B-1-1: Declare and use variables of primitive types
`

func TestParseCollectsIndicatorsInDocumentOrder(t *testing.T) {
	t.Parallel()

	got := Parse(sampleDoc)
	if len(got) != 4 {
		t.Fatalf("unexpected indicator count: got=%d want=4", len(got))
	}

	first := got[0]
	if first.Code != "1A-2-1" {
		t.Fatalf("unexpected first code: got=%q", first.Code)
	}
	if first.DomainID != "1A" || first.DomainTitle != "Computational Thinking" {
		t.Fatalf("unexpected domain: got=%q %q", first.DomainID, first.DomainTitle)
	}
	if first.StandardID != "2" || first.StandardTitle != "Algorithms" {
		t.Fatalf("unexpected standard: got=%q %q", first.StandardID, first.StandardTitle)
	}
	if first.Text != "Decompose a problem into smaller subproblems" {
		t.Fatalf("unexpected text: got=%q", first.Text)
	}

	last := got[3]
	if last.Code != "2B-1-1" || last.DomainID != "2B" || last.StandardID != "1" {
		t.Fatalf("unexpected last indicator: %+v", last)
	}
}

func TestParseDropsOrphanIndicators(t *testing.T) {
	t.Parallel()

	doc := `- 1A-1-1: Orphan before any header
## Domain 1A: Things
- 1A-1-2: Orphan before a standard header
### Standard 1: Stuff
- 1A-1-3: Properly enclosed
`
	got := Parse(doc)
	if len(got) != 1 {
		t.Fatalf("unexpected count: got=%d want=1", len(got))
	}
	if got[0].Code != "1A-1-3" {
		t.Fatalf("unexpected survivor: got=%q", got[0].Code)
	}
}

func TestParseNewDomainResetsStandard(t *testing.T) {
	t.Parallel()

	doc := `## Domain 1A: First
### Standard 1: Old
- 1A-1-1: Under old standard
## Domain 2B: Second
- 2B-1-1: No standard seen yet in this domain
`
	got := Parse(doc)
	if len(got) != 1 {
		t.Fatalf("unexpected count: got=%d want=1", len(got))
	}
	if got[0].Code != "1A-1-1" {
		t.Fatalf("unexpected code: got=%q", got[0].Code)
	}
}

func TestParseIgnoresProseAndBlankLines(t *testing.T) {
	t.Parallel()

	doc := `Intro prose that mentions 1A-2-1 inline.

## Domain 1A: Title
### Standard 2: Algorithms

Some explanatory text.

- 1A-2-1: Real indicator
`
	got := Parse(doc)
	if len(got) != 1 || got[0].Code != "1A-2-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestRenderSelectionFiltersAndGroups(t *testing.T) {
	t.Parallel()

	all := Parse(sampleDoc)
	out := RenderSelection(all, []string{"2B-1-1", "1A-2-2", "NOPE-1"})

	if !strings.HasPrefix(out, "CURRICULUM STANDARDS ADDRESSED:\n") {
		t.Fatalf("missing heading: %q", out)
	}
	// Document order wins over selection order.
	iFirst := strings.Index(out, "1A-2-2")
	iSecond := strings.Index(out, "2B-1-1")
	if iFirst < 0 || iSecond < 0 || iFirst > iSecond {
		t.Fatalf("selection not in document order:\n%s", out)
	}
	if strings.Contains(out, "NOPE-1") {
		t.Fatalf("unknown code leaked into output:\n%s", out)
	}
	if !strings.Contains(out, "Domain 1A: Computational Thinking") {
		t.Fatalf("missing domain header:\n%s", out)
	}
	if !strings.Contains(out, "Standard 2: Algorithms") {
		t.Fatalf("missing standard header:\n%s", out)
	}
	if strings.Contains(out, "Standard 3: Abstraction") {
		t.Fatalf("unselected standard rendered:\n%s", out)
	}
}

func TestRenderSelectionEmptyCases(t *testing.T) {
	t.Parallel()

	all := Parse(sampleDoc)
	if out := RenderSelection(all, nil); out != "" {
		t.Fatalf("empty selection should render nothing, got %q", out)
	}
	if out := RenderSelection(all, []string{"ZZ-9-9"}); out != "" {
		t.Fatalf("all-unknown selection should render nothing, got %q", out)
	}
	if out := RenderSelection(nil, []string{"1A-2-1"}); out != "" {
		t.Fatalf("no indicators should render nothing, got %q", out)
	}
}
