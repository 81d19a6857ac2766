package entity

import "strings"

// DefaultKeywords is used when a policy carries no include terms.
var DefaultKeywords = []string{
	"Data Analyst",
	"Data Scientist",
	"Statistician",
	"Research Analyst",
	"Research Associate",
	"Policy Analyst",
	"Data Engineer",
	"Researcher",
	"Research Scientist",
	"Research Engineer",
	"Data Policy",
	"Statistics",
	"Engineer",
	"Director of Government Client Services",
}

var defaultTerms = normalizeTerms(DefaultKeywords)

// KeywordPolicy is the include/exclude ruleset applied to anchor text.
// Terms are stored lower-cased; matching is case-insensitive substring search.
type KeywordPolicy struct {
	include []string
	exclude []string
}

// NewKeywordPolicy builds a policy from raw terms. Blank terms are ignored and an
// empty include list falls back to DefaultKeywords.
func NewKeywordPolicy(include, exclude []string) KeywordPolicy {
	inc := normalizeTerms(include)
	if len(inc) == 0 {
		inc = defaultTerms
	}
	return KeywordPolicy{include: inc, exclude: normalizeTerms(exclude)}
}

// Include returns the effective include terms.
func (p KeywordPolicy) Include() []string { return append([]string(nil), p.include...) }

// Exclude returns the exclude terms.
func (p KeywordPolicy) Exclude() []string { return append([]string(nil), p.exclude...) }

// Matches reports whether text contains at least one include term and no exclude term.
func (p KeywordPolicy) Matches(text string) bool {
	include := p.include
	if len(include) == 0 {
		include = defaultTerms
	}
	lower := strings.ToLower(text)
	for _, term := range p.exclude {
		if strings.Contains(lower, term) {
			return false
		}
	}
	for _, term := range include {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
