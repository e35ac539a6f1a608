package app

import (
	"strings"

	"clasificador/domain/classification"
	"clasificador/domain/vocabulary"
	"clasificador/internal/textfold"
)

// NarrativeLocator decides which input columns carry the incident narrative.
// Exact aliases are probed first, in order, then any other header whose folded
// text contains a narrative keyword.
type NarrativeLocator struct {
	candidates []string
}

// NewNarrativeLocator resolves candidate columns against the grid headers once
// per batch. A nil or header-less grid still probes the aliases.
func NewNarrativeLocator(headers []string) NarrativeLocator {
	seen := make(map[string]bool)
	var candidates []string
	for _, a := range vocabulary.NarrativeAliases {
		if !seen[a] {
			seen[a] = true
			candidates = append(candidates, a)
		}
	}

	m := textfold.NewMatcher(vocabulary.NarrativeKeywords...)
	for _, h := range headers {
		if seen[h] || !m.Match(h) {
			continue
		}
		seen[h] = true
		candidates = append(candidates, h)
	}
	return NarrativeLocator{candidates: candidates}
}

// Columns returns the probe order.
func (n NarrativeLocator) Columns() []string {
	return append([]string(nil), n.candidates...)
}

// Extract returns the first non-empty trimmed narrative, or "".
func (n NarrativeLocator) Extract(row classification.InputRow) string {
	for _, c := range n.candidates {
		if v := strings.TrimSpace(row[c]); v != "" {
			return v
		}
	}
	return ""
}
