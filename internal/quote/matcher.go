package quote

import (
	"strings"

	"github.com/agext/levenshtein"
)

// MapTableHeaders resolves a raw header row to a mapping from canonical field
// to column index. Each header cell is normalized (lowercased, embedded line
// breaks and runs of whitespace collapsed) and matched against the known
// variant table; among all variants occurring as substrings of a header, the
// longest one decides the field, so more specific labels win. The first header
// mapped to a field keeps it. Empty cells never contribute a mapping.
func MapTableHeaders(headerRow []string) map[Field]int {
	mapping := make(map[Field]int)
	for i, raw := range headerRow {
		header := normalizeLabel(raw)
		if header == "" {
			continue
		}

		var bestField Field
		bestScore := 0
		for _, fv := range fieldVariants {
			for _, variant := range fv.variants {
				if strings.Contains(header, variant) && len(variant) > bestScore {
					bestScore = len(variant)
					bestField = fv.field
				}
			}
		}

		if bestScore > 0 {
			if _, taken := mapping[bestField]; !taken {
				mapping[bestField] = i
			}
		}
	}
	return mapping
}

func normalizeLabel(s string) string {
	return CleanWhitespace(strings.ToLower(s))
}

// MatchStrategy attempts to resolve one column among the observed labels for a
// set of search terms. Strategies are tried in fixed priority order; the first
// hit wins.
type MatchStrategy interface {
	Match(labels []string, terms []string) (int, bool)
}

// exactTermsStrategy requires every search term to occur in the normalized
// label.
type exactTermsStrategy struct{}

func (exactTermsStrategy) Match(labels []string, terms []string) (int, bool) {
	for i, label := range labels {
		n := normalizeLabel(label)
		if n == "" {
			continue
		}
		all := true
		for _, t := range terms {
			if !strings.Contains(n, t) {
				all = false
				break
			}
		}
		if all {
			return i, true
		}
	}
	return 0, false
}

// anyTermStrategy accepts a label containing at least one search term.
type anyTermStrategy struct{}

func (anyTermStrategy) Match(labels []string, terms []string) (int, bool) {
	for i, label := range labels {
		n := normalizeLabel(label)
		if n == "" {
			continue
		}
		for _, t := range terms {
			if strings.Contains(n, t) {
				return i, true
			}
		}
	}
	return 0, false
}

// tokenOverlapStrategy scores each label by how many search terms appear among
// its whitespace-split tokens and keeps the best positive score.
type tokenOverlapStrategy struct{}

func (tokenOverlapStrategy) Match(labels []string, terms []string) (int, bool) {
	best := -1
	bestScore := 0
	for i, label := range labels {
		tokens := strings.Fields(normalizeLabel(label))
		score := 0
		for _, t := range terms {
			for _, tok := range tokens {
				if tok == t {
					score++
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// minSimilarity is the closeness cutoff for the edit-distance fallback; below
// it we return no-match rather than guess.
const minSimilarity = 0.6

// similarityStrategy compares the joined search terms against each label with
// a normalized Levenshtein similarity ratio.
type similarityStrategy struct{}

func (similarityStrategy) Match(labels []string, terms []string) (int, bool) {
	query := strings.Join(terms, " ")
	best := -1
	bestScore := 0.0
	for i, label := range labels {
		n := normalizeLabel(label)
		if n == "" {
			continue
		}
		score := levenshtein.Similarity(query, n, nil)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 || bestScore < minSimilarity {
		return 0, false
	}
	return best, true
}

var columnStrategies = []MatchStrategy{
	exactTermsStrategy{},
	anyTermStrategy{},
	tokenOverlapStrategy{},
	similarityStrategy{},
}

// ResolveColumn finds the observed label best matching the given search terms,
// trying exact containment, partial containment, token-overlap scoring and a
// similarity fallback in that order. Returns (index, true) on a hit and
// (0, false) when no label qualifies. Deterministic for a fixed label order.
func ResolveColumn(labels []string, terms []string) (int, bool) {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	for _, strategy := range columnStrategies {
		if idx, ok := strategy.Match(labels, lowered); ok {
			return idx, true
		}
	}
	return 0, false
}
