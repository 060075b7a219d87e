package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// MarkdownToHTML renders generator markdown for display. If the entire reply
// is wrapped in one outer code fence (first line and last line are fence
// markers), that wrapper is stripped; fenced blocks inside the content are
// left untouched and render as code.
func MarkdownToHTML(text string) (string, error) {
	stripped := stripOuterFence(strings.TrimSpace(text))

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(stripped), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// stripOuterFence removes a fence wrapping the whole input, and only then.
// Anything short of first-and-last-line fence markers is inner content.
func stripOuterFence(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(first, "```") || last != "```" {
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
