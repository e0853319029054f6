package ai

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/foerderkompass/foerderkompass/internal/adapter/ai/tokencount"
	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// ChatClient is the completion boundary the evaluator depends on. Satisfied
// by *Client; tests substitute a fake.
type ChatClient interface {
	ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Evaluator implements domain.FoundationEvaluator with one chat completion
// per call covering every candidate.
type Evaluator struct {
	client    ChatClient
	cleaner   *ResponseCleaner
	model     string
	maxTokens int
}

// NewEvaluator constructs an Evaluator. maxTokens bounds the completion; the
// model name is only used for token accounting.
func NewEvaluator(client ChatClient, model string, maxTokens int) *Evaluator {
	return &Evaluator{
		client:    client,
		cleaner:   NewResponseCleaner(),
		model:     model,
		maxTokens: maxTokens,
	}
}

// oracleResponse is the wire shape the prompt instructs the model to emit.
type oracleResponse struct {
	Evaluations []struct {
		FoundationID string   `json:"foundation_id"`
		MatchScore   float64  `json:"match_score"`
		Fits         []string `json:"fits"`
		Mismatches   []string `json:"mismatches"`
		Questions    []string `json:"questions"`
	} `json:"evaluations"`
}

// Evaluate scores all candidates in a single completion. The returned slice
// carries whatever the model produced; reconciliation against the candidate
// set is the caller's concern.
func (e *Evaluator) Evaluate(ctx domain.Context, project domain.ProjectDescription, candidates []domain.Foundation) ([]domain.FoundationEvaluation, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	system, user := BuildEvaluationPrompt(project, candidates)

	if n, err := tokencount.DefaultCounter.CountChatTokens(system, user, e.model); err == nil {
		slog.Debug("oracle prompt sized",
			slog.Int("prompt_tokens", n),
			slog.Int("candidates", len(candidates)),
			slog.String("model", e.model))
	}

	raw, err := e.client.ChatJSON(ctx, system, user, e.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("op=ai.evaluate: %w", err)
	}

	cleaned, err := e.cleaner.CleanAndValidateJSON(raw)
	if err != nil {
		slog.Warn("oracle response not parseable after cleaning",
			slog.Int("raw_length", len(raw)))
		return nil, fmt.Errorf("op=ai.evaluate: %w: %v", domain.ErrSchemaInvalid, err)
	}

	var resp oracleResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("op=ai.evaluate: %w: %v", domain.ErrSchemaInvalid, err)
	}

	out := make([]domain.FoundationEvaluation, 0, len(resp.Evaluations))
	for _, ev := range resp.Evaluations {
		out = append(out, domain.FoundationEvaluation{
			FoundationID: ev.FoundationID,
			MatchScore:   ev.MatchScore,
			Fits:         ev.Fits,
			Mismatches:   ev.Mismatches,
			Questions:    ev.Questions,
		})
	}
	slog.Info("oracle evaluated candidates",
		slog.Int("candidates", len(candidates)),
		slog.Int("evaluations", len(out)))
	return out, nil
}
