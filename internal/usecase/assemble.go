package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// Default funding ranges substituted when a bound is missing, keyed by
// category. An unrecognized category leaves the record untouched.
var fundingDefaults = map[string][2]float64{
	domain.FundingSmall:  {0, 5000},
	domain.FundingMedium: {5000, 50000},
	domain.FundingLarge:  {50000, 200000},
}

// fundingCategoryAliases maps the German category spellings found in older
// catalog records onto the canonical categories.
var fundingCategoryAliases = map[string]string{
	"kleinförderung":          domain.FundingSmall,
	"kleinfoerderung":         domain.FundingSmall,
	"mittelgroße förderung":   domain.FundingMedium,
	"mittelgrosse foerderung": domain.FundingMedium,
	"großförderung":           domain.FundingLarge,
	"grossfoerderung":         domain.FundingLarge,
}

// assembleScores merges each candidate with its evaluation, resolves funding
// defaults, sorts by score descending (ties keep candidate order), and
// truncates to limit. Every candidate has an evaluation by the time this
// runs; reconciliation guarantees it.
func assembleScores(candidates []domain.Foundation, evals map[string]domain.FoundationEvaluation, limit int) []domain.FoundationScore {
	scores := make([]domain.FoundationScore, 0, len(candidates))
	for _, c := range candidates {
		scores = append(scores, buildScore(c, evals[c.ID]))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].MatchScore > scores[j].MatchScore
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// buildScore produces the display record for one foundation.
func buildScore(f domain.Foundation, ev domain.FoundationEvaluation) domain.FoundationScore {
	purpose := "Allgemeine Förderung"
	if len(f.GemeinnuetzigeZwecke) > 0 {
		purpose = f.GemeinnuetzigeZwecke[0]
	}

	resolved := resolveFunding(f.Foerderhoehe)

	return domain.FoundationScore{
		ID:                   f.ID,
		Name:                 f.Name,
		Purpose:              purpose,
		Description:          f.ShortDescription,
		FundingAmount:        formatFundingAmount(resolved),
		MatchScore:           ev.MatchScore,
		Matches:              flattenMatches(ev),
		LongDescription:      f.LongDescription,
		LegalForm:            f.LegalForm,
		GemeinnuetzigeZwecke: f.GemeinnuetzigeZwecke,
		Antragsprozess:       f.Antragsprozess,
		Foerderbereich:       f.Foerderbereich,
		Foerderhoehe:         resolved,
		Contact:              f.Contact,
		PastProjects:         f.PastProjects,
		Website:              f.Website,
	}
}

// flattenMatches folds the evaluation lists into one tagged sequence: fits
// first, then mismatches, then questions, input order preserved within each
// group. The presentation layer relies on this ordering.
func flattenMatches(ev domain.FoundationEvaluation) []domain.MatchItem {
	items := make([]domain.MatchItem, 0, len(ev.Fits)+len(ev.Mismatches)+len(ev.Questions))
	for _, t := range ev.Fits {
		items = append(items, domain.MatchItem{Text: t, Type: domain.MatchFit})
	}
	for _, t := range ev.Mismatches {
		items = append(items, domain.MatchItem{Text: t, Type: domain.MatchMismatch})
	}
	for _, t := range ev.Questions {
		items = append(items, domain.MatchItem{Text: t, Type: domain.MatchQuestion})
	}
	return items
}

// resolveFunding fills missing bounds from the category defaults. Existing
// values are never overwritten; only nils are filled.
func resolveFunding(fa domain.FundingAmount) domain.FundingAmount {
	if fa.MinAmount != nil && fa.MaxAmount != nil {
		return fa
	}
	category := strings.ToLower(strings.TrimSpace(fa.Category))
	if canonical, ok := fundingCategoryAliases[category]; ok {
		category = canonical
	}
	def, ok := fundingDefaults[category]
	if !ok {
		return fa
	}
	if fa.MinAmount == nil {
		minAmount := def[0]
		fa.MinAmount = &minAmount
	}
	if fa.MaxAmount == nil {
		maxAmount := def[1]
		fa.MaxAmount = &maxAmount
	}
	return fa
}

// formatFundingAmount renders the resolved maximum as a German display
// string, e.g. "Bis zu 50.000 €".
func formatFundingAmount(fa domain.FundingAmount) string {
	if fa.MaxAmount == nil || *fa.MaxAmount <= 0 {
		return "Förderhöhe nicht angegeben"
	}
	return "Bis zu " + groupThousands(int64(*fa.MaxAmount)) + " €"
}

// groupThousands inserts German dot separators into a non-negative integer.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
