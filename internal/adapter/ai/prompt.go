package ai

import (
	"fmt"
	"strings"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// systemPrompt frames the oracle as a German grant application expert and
// pins the scoring rules. Responses are German.
const systemPrompt = `Du bist ein erfahrener Experte für die Bewertung von Stiftungsanträgen in Deutschland.
Deine Aufgabe ist es, Projekte mit passenden Stiftungen zu matchen und eine detaillierte Bewertung zu erstellen.

RICHTLINIEN:
1. Analysiere die Kompatibilität zwischen Projekt und Stiftung sorgfältig
2. Berücksichtige: gemeinnützige Zwecke, Förderbereich, Förderhöhe, Antragsprozess, vergangene Projekte
3. Vergib Match-Scores zwischen 0.0 (kein Match) und 1.0 (perfekter Match)
4. Identifiziere konkrete Fits (positive Aspekte), Mismatches (Probleme) und Fragen (Unklarheiten)
5. Sei präzise und hilfreich in deinen Bewertungen
6. Antworte auf Deutsch

Antworte AUSSCHLIESSLICH mit einem JSON-Objekt der Form:
{"evaluations": [{"foundation_id": "...", "match_score": 0.0, "fits": [], "mismatches": [], "questions": []}]}
Keine Erklärungen oder Markdown außerhalb des JSON.`

const userPromptTemplate = `Bewerte die folgenden Stiftungen für das folgende Projekt:

PROJEKT:
Name: %s
Beschreibung: %s
Zielgruppe: %s
Gemeinnützige Zwecke: %s

KANDIDATEN-STIFTUNGEN:
%s

AUFGABE:
Bewerte JEDE Stiftung und gib für jede an:
1. foundation_id: Die ID der Stiftung
2. match_score: Ein Score zwischen 0.0 und 1.0 (1.0 = perfekter Match)
3. fits: Liste von positiven Aspekten (warum passt diese Stiftung zum Projekt?)
4. mismatches: Liste von potenziellen Problemen (warum könnte es nicht passen?)
5. questions: Liste von Fragen oder Unklarheiten (was sollte geklärt werden?)

WICHTIG:
- Bewerte ALLE angegebenen Stiftungen
- Sei konkret und spezifisch in deinen Bewertungen
- Der match_score sollte die Gesamtkompatibilität widerspiegeln
- Fits, Mismatches und Questions sollten hilfreiche, konkrete Informationen enthalten`

// maxExcerptLen bounds the description excerpt per candidate so the prompt
// stays within the model context regardless of catalog verbosity.
const maxExcerptLen = 500

// maxPastProjects bounds past projects listed per candidate.
const maxPastProjects = 3

// BuildEvaluationPrompt renders the system and user prompts for one oracle
// call covering all candidates.
func BuildEvaluationPrompt(project domain.ProjectDescription, candidates []domain.Foundation) (string, string) {
	user := fmt.Sprintf(userPromptTemplate,
		project.Name,
		project.Description,
		project.TargetGroup,
		strings.Join(project.CharitablePurposes, ", "),
		formatCandidates(candidates),
	)
	return systemPrompt, user
}

func formatCandidates(candidates []domain.Foundation) string {
	var sb strings.Builder
	for i, f := range candidates {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "STIFTUNG %d:\n", i+1)
		fmt.Fprintf(&sb, "ID: %s\n", f.ID)
		fmt.Fprintf(&sb, "Name: %s\n", f.Name)
		fmt.Fprintf(&sb, "Gemeinnützige Zwecke: %s\n", strings.Join(f.GemeinnuetzigeZwecke, ", "))
		scope := f.Foerderbereich.Scope
		if scope == "" {
			scope = "unbekannt"
		}
		fmt.Fprintf(&sb, "Förderbereich: %s\n", scope)
		fmt.Fprintf(&sb, "Förderhöhe: %s\n", formatRange(f.Foerderhoehe))
		fmt.Fprintf(&sb, "Beschreibung: %s\n", excerpt(f.LongDescription, maxExcerptLen))
		if len(f.PastProjects) > 0 {
			sb.WriteString("Vergangene Projekte:\n")
			for j, p := range f.PastProjects {
				if j >= maxPastProjects {
					break
				}
				fmt.Fprintf(&sb, "- %s: %s\n", p.Name, p.Description)
			}
		}
	}
	return sb.String()
}

func formatRange(fh domain.FundingAmount) string {
	minAmount, maxAmount := 0.0, 0.0
	if fh.MinAmount != nil {
		minAmount = *fh.MinAmount
	}
	if fh.MaxAmount != nil {
		maxAmount = *fh.MaxAmount
	}
	return fmt.Sprintf("%.0f€ - %.0f€", minAmount, maxAmount)
}

// excerpt truncates at a rune boundary and appends an ellipsis marker.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
