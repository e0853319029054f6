package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestResolveFunding_CategoryDefaults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		in       domain.FundingAmount
		wantMin  float64
		wantMax  float64
		resolved bool
	}{
		{"small", domain.FundingAmount{Category: "small"}, 0, 5000, true},
		{"medium", domain.FundingAmount{Category: "medium"}, 5000, 50000, true},
		{"large", domain.FundingAmount{Category: "large"}, 50000, 200000, true},
		{"german small alias", domain.FundingAmount{Category: "Kleinförderung"}, 0, 5000, true},
		{"german small ascii alias", domain.FundingAmount{Category: "kleinfoerderung"}, 0, 5000, true},
		{"german medium alias", domain.FundingAmount{Category: "Mittelgroße Förderung"}, 5000, 50000, true},
		{"german large alias", domain.FundingAmount{Category: "Großförderung"}, 50000, 200000, true},
		{"unknown category untouched", domain.FundingAmount{Category: "sonstiges"}, 0, 0, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveFunding(tt.in)
			if !tt.resolved {
				assert.Nil(t, got.MinAmount)
				assert.Nil(t, got.MaxAmount)
				return
			}
			require.NotNil(t, got.MinAmount)
			require.NotNil(t, got.MaxAmount)
			assert.Equal(t, tt.wantMin, *got.MinAmount)
			assert.Equal(t, tt.wantMax, *got.MaxAmount)
		})
	}
}

func TestResolveFunding_NeverOverwritesExistingBounds(t *testing.T) {
	t.Parallel()
	in := domain.FundingAmount{Category: "large", MinAmount: ptr(1000), MaxAmount: nil}
	got := resolveFunding(in)
	assert.Equal(t, 1000.0, *got.MinAmount)
	assert.Equal(t, 200000.0, *got.MaxAmount)

	full := domain.FundingAmount{Category: "small", MinAmount: ptr(100), MaxAmount: ptr(900)}
	got = resolveFunding(full)
	assert.Equal(t, 100.0, *got.MinAmount)
	assert.Equal(t, 900.0, *got.MaxAmount)
}

func TestFormatFundingAmount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Bis zu 50.000 €", formatFundingAmount(domain.FundingAmount{MaxAmount: ptr(50000)}))
	assert.Equal(t, "Bis zu 5.000 €", formatFundingAmount(domain.FundingAmount{MaxAmount: ptr(5000)}))
	assert.Equal(t, "Bis zu 200.000 €", formatFundingAmount(domain.FundingAmount{MaxAmount: ptr(200000)}))
	assert.Equal(t, "Bis zu 1.250.000 €", formatFundingAmount(domain.FundingAmount{MaxAmount: ptr(1250000)}))
	assert.Equal(t, "Bis zu 999 €", formatFundingAmount(domain.FundingAmount{MaxAmount: ptr(999)}))
	assert.Equal(t, "Förderhöhe nicht angegeben", formatFundingAmount(domain.FundingAmount{}))
	assert.Equal(t, "Förderhöhe nicht angegeben", formatFundingAmount(domain.FundingAmount{MaxAmount: ptr(0)}))
}

func TestFlattenMatches_PreservesGroupOrder(t *testing.T) {
	t.Parallel()
	ev := domain.FoundationEvaluation{
		Fits:       []string{"fit1", "fit2"},
		Mismatches: []string{"mm1"},
		Questions:  []string{"q1", "q2"},
	}
	items := flattenMatches(ev)
	require.Len(t, items, 5)
	assert.Equal(t, domain.MatchItem{Text: "fit1", Type: domain.MatchFit}, items[0])
	assert.Equal(t, domain.MatchItem{Text: "fit2", Type: domain.MatchFit}, items[1])
	assert.Equal(t, domain.MatchItem{Text: "mm1", Type: domain.MatchMismatch}, items[2])
	assert.Equal(t, domain.MatchItem{Text: "q1", Type: domain.MatchQuestion}, items[3])
	assert.Equal(t, domain.MatchItem{Text: "q2", Type: domain.MatchQuestion}, items[4])
}

func TestBuildScore_DisplayFields(t *testing.T) {
	t.Parallel()
	f := domain.Foundation{
		ID:                   "f1",
		Name:                 "Bildungsstiftung",
		ShortDescription:     "Kurz",
		LongDescription:      "Lang",
		LegalForm:            "rechtsfähige Stiftung",
		GemeinnuetzigeZwecke: []string{domain.PurposeEducation, domain.PurposeArtAndCulture},
		Foerderhoehe:         domain.FundingAmount{Category: "medium"},
		Website:              "https://example.org",
	}
	ev := domain.FoundationEvaluation{FoundationID: "f1", MatchScore: 0.8, Fits: []string{"gut"}}

	sc := buildScore(f, ev)
	assert.Equal(t, domain.PurposeEducation, sc.Purpose)
	assert.Equal(t, "Kurz", sc.Description)
	assert.Equal(t, "Bis zu 50.000 €", sc.FundingAmount)
	assert.Equal(t, 0.8, sc.MatchScore)
	require.NotNil(t, sc.Foerderhoehe.MaxAmount)
	assert.Equal(t, 50000.0, *sc.Foerderhoehe.MaxAmount)
}

func TestBuildScore_NoPurposesFallsBackToGeneric(t *testing.T) {
	t.Parallel()
	sc := buildScore(domain.Foundation{ID: "f1"}, domain.FoundationEvaluation{})
	assert.Equal(t, "Allgemeine Förderung", sc.Purpose)
}

func TestAssembleScores_SortsDescendingAndTruncates(t *testing.T) {
	t.Parallel()
	candidates := []domain.Foundation{
		{ID: "low"}, {ID: "high"}, {ID: "mid"},
	}
	evals := map[string]domain.FoundationEvaluation{
		"low":  {FoundationID: "low", MatchScore: 0.1},
		"high": {FoundationID: "high", MatchScore: 0.9},
		"mid":  {FoundationID: "mid", MatchScore: 0.5},
	}
	scores := assembleScores(candidates, evals, 2)
	require.Len(t, scores, 2)
	assert.Equal(t, "high", scores[0].ID)
	assert.Equal(t, "mid", scores[1].ID)
}

func TestAssembleScores_TiesKeepCandidateOrder(t *testing.T) {
	t.Parallel()
	candidates := []domain.Foundation{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	evals := map[string]domain.FoundationEvaluation{
		"a": {FoundationID: "a", MatchScore: 0.5},
		"b": {FoundationID: "b", MatchScore: 0.5},
		"c": {FoundationID: "c", MatchScore: 0.5},
	}
	scores := assembleScores(candidates, evals, 3)
	require.Len(t, scores, 3)
	assert.Equal(t, "a", scores[0].ID)
	assert.Equal(t, "b", scores[1].ID)
	assert.Equal(t, "c", scores[2].ID)
}

func TestGroupThousands(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1.000", groupThousands(1000))
	assert.Equal(t, "50.000", groupThousands(50000))
	assert.Equal(t, "200.000", groupThousands(200000))
	assert.Equal(t, "1.234.567", groupThousands(1234567))
}
