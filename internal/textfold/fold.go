// Package textfold normalizes free text for keyword matching: accents are
// stripped and case is folded, so "Relato Policía" matches "relato policia".
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s without combining marks, case folded and trimmed. Ñ folds to n.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(cases.Fold().String(out))
}

// Matcher holds pre-folded keywords for repeated lookups.
type Matcher struct {
	keywords []string
}

// NewMatcher folds keywords once.
func NewMatcher(keywords ...string) Matcher {
	m := Matcher{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		if f := Fold(k); f != "" {
			m.keywords = append(m.keywords, f)
		}
	}
	return m
}

// MatchFolded reports whether already folded text contains any keyword.
func (m Matcher) MatchFolded(folded string) bool {
	for _, k := range m.keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// Match folds text and checks it against the keywords.
func (m Matcher) Match(text string) bool {
	return m.MatchFolded(Fold(text))
}
