package normalize

import (
	"strings"
	"testing"
)

func TestMarkdownToHTMLRendersHeadersAndLists(t *testing.T) {
	t.Parallel()

	out, err := MarkdownToHTML("# Adapted Lesson\n\n- step one\n- step two")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "<h1>Adapted Lesson</h1>") {
		t.Fatalf("missing h1: %q", out)
	}
	if !strings.Contains(out, "<li>step one</li>") {
		t.Fatalf("missing list item: %q", out)
	}
}

func TestMarkdownToHTMLStripsOuterFence(t *testing.T) {
	t.Parallel()

	out, err := MarkdownToHTML("```markdown\n# Title\n\nBody text.\n```")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "<h1>Title</h1>") {
		t.Fatalf("outer fence not stripped: %q", out)
	}
	if strings.Contains(out, "<pre>") {
		t.Fatalf("wrapper rendered as code block: %q", out)
	}
}

func TestMarkdownToHTMLKeepsInnerFences(t *testing.T) {
	t.Parallel()

	out, err := MarkdownToHTML("# Lesson\n\n```python\nprint(\"hi\")\n```\n\nMore text.")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "<pre>") {
		t.Fatalf("inner code block lost: %q", out)
	}
	if !strings.Contains(out, "<h1>Lesson</h1>") {
		t.Fatalf("heading lost: %q", out)
	}
}

func TestMarkdownToHTMLTrailingFenceOnlyIsNotOuter(t *testing.T) {
	t.Parallel()

	// Fence markers not spanning the whole input stay inner content.
	out, err := MarkdownToHTML("Intro.\n\n```\ncode\n```")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "<pre>") {
		t.Fatalf("partial fence should render as code: %q", out)
	}
}

func TestMarkdownToHTMLGFMTable(t *testing.T) {
	t.Parallel()

	out, err := MarkdownToHTML("| a | b |\n| - | - |\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Fatalf("GFM table not rendered: %q", out)
	}
}
