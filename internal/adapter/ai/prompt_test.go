package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestBuildEvaluationPrompt_ContainsProjectAndCandidates(t *testing.T) {
	t.Parallel()
	project := domain.ProjectDescription{
		Name:               "Lernwerkstatt",
		Description:        "Offene Bildungsangebote",
		TargetGroup:        "Kinder",
		CharitablePurposes: []string{domain.PurposeEducation},
	}
	candidates := []domain.Foundation{
		{
			ID:                   "f1",
			Name:                 "Bildungsstiftung",
			GemeinnuetzigeZwecke: []string{domain.PurposeEducation},
			Foerderbereich:       domain.GeographicArea{Scope: "regional"},
			Foerderhoehe:         domain.FundingAmount{MinAmount: ptr(1000), MaxAmount: ptr(20000)},
			LongDescription:      "Die Stiftung fördert Bildungsprojekte.",
		},
	}

	system, user := BuildEvaluationPrompt(project, candidates)
	assert.Contains(t, system, "Stiftungsanträgen")
	assert.Contains(t, system, "evaluations")

	assert.Contains(t, user, "Name: Lernwerkstatt")
	assert.Contains(t, user, "Zielgruppe: Kinder")
	assert.Contains(t, user, "STIFTUNG 1:")
	assert.Contains(t, user, "ID: f1")
	assert.Contains(t, user, "Förderbereich: regional")
	assert.Contains(t, user, "Förderhöhe: 1000€ - 20000€")
}

func TestFormatCandidates_MissingScopeAndAmounts(t *testing.T) {
	t.Parallel()
	out := formatCandidates([]domain.Foundation{{ID: "f1", Name: "X"}})
	assert.Contains(t, out, "Förderbereich: unbekannt")
	assert.Contains(t, out, "Förderhöhe: 0€ - 0€")
}

func TestFormatCandidates_LimitsPastProjects(t *testing.T) {
	t.Parallel()
	f := domain.Foundation{
		ID:   "f1",
		Name: "X",
		PastProjects: []domain.PastProject{
			{Name: "P1", Description: "eins"},
			{Name: "P2", Description: "zwei"},
			{Name: "P3", Description: "drei"},
			{Name: "P4", Description: "vier"},
		},
	}
	out := formatCandidates([]domain.Foundation{f})
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "P3")
	assert.NotContains(t, out, "P4")
}

func TestExcerpt_TruncatesLongDescriptions(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("ä", 600)
	got := excerpt(long, maxExcerptLen)
	require.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, maxExcerptLen, len([]rune(got))-3)

	short := "kurz"
	assert.Equal(t, "kurz", excerpt(short, maxExcerptLen))
}
