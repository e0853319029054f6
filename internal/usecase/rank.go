package usecase

import (
	"sort"
	"strings"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// buildSearchQuery assembles the relevance query from the project's free-text
// fields.
func buildSearchQuery(p domain.ProjectDescription) string {
	return strings.TrimSpace(p.Name + " " + p.Description + " " + p.TargetGroup)
}

// queryTokens splits a query into lowercase words longer than 2 characters.
func queryTokens(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// searchableText combines the fields keyword matching runs over: both
// descriptions plus every past project description.
func searchableText(f domain.Foundation) string {
	parts := make([]string, 0, 2+len(f.PastProjects))
	parts = append(parts, f.LongDescription, f.ShortDescription)
	for _, p := range f.PastProjects {
		if p.Description != "" {
			parts = append(parts, p.Description)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// lexicalRelevance returns the fraction of query tokens present in the
// foundation's searchable text and the raw match count.
func lexicalRelevance(f domain.Foundation, tokens []string) (float64, int) {
	if len(tokens) == 0 {
		return 0, 0
	}
	text := searchableText(f)
	matches := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			matches++
		}
	}
	return float64(matches) / float64(len(tokens)), matches
}

// fallbackRank is the degraded in-memory ranking used when the store has no
// usable text index. Foundations without a single token match are dropped;
// the rest are ordered by relevance, then raw match count, and truncated to
// limit. Pure computation, no I/O. The token-overlap ratio is a weak
// relevance signal kept deliberately simple; the native search is the
// primary path.
func fallbackRank(foundations []domain.Foundation, query string, limit int) []domain.Foundation {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return []domain.Foundation{}
	}

	type scored struct {
		relevance float64
		matches   int
		f         domain.Foundation
	}
	ranked := make([]scored, 0, len(foundations))
	for _, f := range foundations {
		relevance, matches := lexicalRelevance(f, tokens)
		if matches == 0 {
			continue
		}
		ranked = append(ranked, scored{relevance: relevance, matches: matches, f: f})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].relevance != ranked[j].relevance {
			return ranked[i].relevance > ranked[j].relevance
		}
		return ranked[i].matches > ranked[j].matches
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]domain.Foundation, len(ranked))
	for i, r := range ranked {
		out[i] = r.f
	}
	return out
}
