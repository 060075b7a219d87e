package curriculum

import (
	"fmt"
	"os"

	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// Standards holds one parsed standards document. Parsing happens once at
// load; indicators are ephemeral derived records, never persisted.
type Standards struct {
	raw        string
	indicators []Indicator
}

func NewStandards(doc string) *Standards {
	return &Standards{raw: doc, indicators: Parse(doc)}
}

// LoadStandards reads the standards document from path. A missing document is
// not fatal: standards context is an optional enrichment of the prompts.
func LoadStandards(path string, log *logger.Logger) (*Standards, error) {
	if path == "" {
		return NewStandards(""), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards document: %w", err)
	}
	s := NewStandards(string(data))
	log.Info("Loaded curriculum standards", "path", path, "indicators", len(s.indicators))
	return s, nil
}

func (s *Standards) Raw() string { return s.raw }

func (s *Standards) Indicators() []Indicator { return s.indicators }

func (s *Standards) Render(codes []string) string {
	return RenderSelection(s.indicators, codes)
}
