package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

func TestQueryTokens(t *testing.T) {
	t.Parallel()
	tokens := queryTokens("Bildung für ALLE in der Stadt ab 10")
	// Words of one or two characters are dropped.
	assert.Equal(t, []string{"bildung", "für", "alle", "der", "stadt"}, tokens)

	assert.Empty(t, queryTokens("ab zu 12"))
	assert.Empty(t, queryTokens(""))
}

func TestQueryTokens_UmlautsCountAsSingleRunes(t *testing.T) {
	t.Parallel()
	// "öko" is three runes, so it survives the length filter.
	assert.Equal(t, []string{"öko"}, queryTokens("öko ä ü"))
}

func TestLexicalRelevance(t *testing.T) {
	t.Parallel()
	f := domain.Foundation{
		LongDescription:  "Wir fördern Bildung und Jugendarbeit.",
		ShortDescription: "Stiftung für Bildung",
		PastProjects: []domain.PastProject{
			{Description: "Lernwerkstatt für Kinder in Berlin"},
		},
	}

	relevance, matches := lexicalRelevance(f, []string{"bildung", "berlin", "sport"})
	assert.Equal(t, 2, matches)
	assert.InDelta(t, 2.0/3.0, relevance, 1e-9)

	relevance, matches = lexicalRelevance(f, nil)
	assert.Zero(t, matches)
	assert.Zero(t, relevance)
}

func TestFallbackRank_OrdersByRelevanceThenMatches(t *testing.T) {
	t.Parallel()
	strong := domain.Foundation{ID: "strong", LongDescription: "bildung jugendarbeit berlin"}
	weak := domain.Foundation{ID: "weak", LongDescription: "bildung und sonst nichts"}
	unrelated := domain.Foundation{ID: "unrelated", LongDescription: "tierschutz auf dem land"}

	ranked := fallbackRank([]domain.Foundation{unrelated, weak, strong}, "bildung jugendarbeit berlin", 10)
	require.Len(t, ranked, 2, "foundations without any token match are dropped")
	assert.Equal(t, "strong", ranked[0].ID)
	assert.Equal(t, "weak", ranked[1].ID)
}

func TestFallbackRank_TruncatesToLimit(t *testing.T) {
	t.Parallel()
	docs := []domain.Foundation{
		{ID: "a", LongDescription: "bildung eins"},
		{ID: "b", LongDescription: "bildung zwei"},
		{ID: "c", LongDescription: "bildung drei"},
	}
	ranked := fallbackRank(docs, "bildung", 2)
	assert.Len(t, ranked, 2)
}

func TestFallbackRank_StableForEqualScores(t *testing.T) {
	t.Parallel()
	docs := []domain.Foundation{
		{ID: "first", LongDescription: "bildung"},
		{ID: "second", LongDescription: "bildung"},
	}
	ranked := fallbackRank(docs, "bildung", 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
}

func TestFallbackRank_EmptyQuery(t *testing.T) {
	t.Parallel()
	docs := []domain.Foundation{{ID: "a", LongDescription: "bildung"}}
	assert.Empty(t, fallbackRank(docs, "ab", 10))
}

func TestBuildSearchQuery(t *testing.T) {
	t.Parallel()
	p := domain.ProjectDescription{Name: "Lernwerkstatt", Description: "Offene Bildung", TargetGroup: "Kinder"}
	assert.Equal(t, "Lernwerkstatt Offene Bildung Kinder", buildSearchQuery(p))

	empty := domain.ProjectDescription{}
	assert.Equal(t, "", buildSearchQuery(empty))
}
