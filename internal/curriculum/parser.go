package curriculum

import (
	"regexp"
	"strings"
)

// Indicator is one leaf curriculum entry, carrying the domain and standard
// headers that enclosed it in the source document.
type Indicator struct {
	DomainID      string `json:"domain_id"`
	DomainTitle   string `json:"domain_title"`
	StandardID    string `json:"standard_id"`
	StandardTitle string `json:"standard_title"`
	Code          string `json:"code"`
	Text          string `json:"text"`
}

var (
	domainRe    = regexp.MustCompile(`^##\s+Domain\s+([A-Za-z0-9]+)\s*:\s*(.+?)\s*$`)
	standardRe  = regexp.MustCompile(`^###\s+Standard\s+([A-Za-z0-9]+)\s*:\s*(.+?)\s*$`)
	indicatorRe = regexp.MustCompile(`^[-*]\s+([A-Za-z0-9]+(?:-[A-Za-z0-9]+)+)\s*:\s*(.+?)\s*$`)
)

// Parse scans the standards document line by line and emits indicators in
// document order. A line is a domain header, a standard header, an indicator
// bullet, or ignored. Indicator bullets appearing before both a domain and a
// standard header have no enclosing taxonomy and are dropped without error.
// The most recently seen headers apply until superseded.
func Parse(doc string) []Indicator {
	var (
		out                       []Indicator
		domainID, domainTitle     string
		standardID, standardTitle string
	)
	for _, line := range strings.Split(doc, "\n") {
		if m := domainRe.FindStringSubmatch(line); m != nil {
			domainID, domainTitle = m[1], m[2]
			// A new domain invalidates the previous standard.
			standardID, standardTitle = "", ""
			continue
		}
		if m := standardRe.FindStringSubmatch(line); m != nil {
			standardID, standardTitle = m[1], m[2]
			continue
		}
		if m := indicatorRe.FindStringSubmatch(line); m != nil {
			if domainID == "" || standardID == "" {
				continue
			}
			out = append(out, Indicator{
				DomainID:      domainID,
				DomainTitle:   domainTitle,
				StandardID:    standardID,
				StandardTitle: standardTitle,
				Code:          m[1],
				Text:          m[2],
			})
		}
	}
	return out
}

// RenderSelection filters the parsed indicators to the requested codes and
// renders the fixed prompt block, grouped domain then standard, preserving
// document order. Unknown codes are silently omitted; an empty selection
// renders nothing at all (no heading).
func RenderSelection(all []Indicator, codes []string) string {
	if len(codes) == 0 {
		return ""
	}
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[strings.TrimSpace(c)] = true
	}

	var selected []Indicator
	for _, ind := range all {
		if wanted[ind.Code] {
			selected = append(selected, ind)
		}
	}
	if len(selected) == 0 {
		return ""
	}

	var (
		b            strings.Builder
		lastDomain   string
		lastStandard string
	)
	b.WriteString("CURRICULUM STANDARDS ADDRESSED:\n")
	for _, ind := range selected {
		if ind.DomainID != lastDomain {
			b.WriteString("\nDomain " + ind.DomainID + ": " + ind.DomainTitle + "\n")
			lastDomain = ind.DomainID
			lastStandard = ""
		}
		if ind.StandardID != lastStandard {
			b.WriteString("  Standard " + ind.StandardID + ": " + ind.StandardTitle + "\n")
			lastStandard = ind.StandardID
		}
		b.WriteString("    - " + ind.Code + ": " + ind.Text + "\n")
	}
	return b.String()
}
