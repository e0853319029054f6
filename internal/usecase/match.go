// Package usecase contains the foundation matching pipeline.
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/foerderkompass/foerderkompass/internal/adapter/observability"
	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// MatchService runs the four-stage matching pipeline: purpose filter,
// relevance ranking, oracle evaluation, result assembly. Stages run
// sequentially; each consumes the previous stage's output.
type MatchService struct {
	Foundations domain.FoundationRepository
	Evaluator   domain.FoundationEvaluator
	Cache       domain.ScoreCache

	// OracleTimeout bounds the single evaluator call per request.
	OracleTimeout time.Duration
}

// NewMatchService constructs a MatchService. cache may be nil.
func NewMatchService(repo domain.FoundationRepository, eval domain.FoundationEvaluator, cache domain.ScoreCache, oracleTimeout time.Duration) MatchService {
	return MatchService{Foundations: repo, Evaluator: eval, Cache: cache, OracleTimeout: oracleTimeout}
}

// Match returns up to limit scored foundations for the project, best first.
//
// Policy choices, applied uniformly:
//   - A candidate the oracle skipped is filled with a neutral default
//     evaluation rather than failing the request (lenient reconciliation).
//   - An oracle invocation failure degrades every candidate to lexical
//     relevance scoring; it never errors and never yields a silent empty list.
//
// An empty purpose-filter or ranking result is a valid zero-match outcome,
// not an error. Catalog store faults are fatal and surfaced.
func (s MatchService) Match(ctx domain.Context, project domain.ProjectDescription, limit int) ([]domain.FoundationScore, error) {
	tracer := otel.Tracer("usecase.match")
	ctx, span := tracer.Start(ctx, "match.Match")
	defer span.End()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidArgument)
	}
	if err := domain.ValidatePurposes(project.CharitablePurposes); err != nil {
		return nil, fmt.Errorf("%w: charitable purposes missing or outside taxonomy", domain.ErrInvalidArgument)
	}

	key := cacheKey(project, limit)
	if s.Cache != nil {
		if scores, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			observability.MatchCacheHit()
			slog.Debug("match served from cache", slog.String("key", key), slog.Int("count", len(scores)))
			return scores, nil
		}
	}

	// Stage 1: purpose filter.
	ids, err := s.Foundations.FilterByPurposes(ctx, project.CharitablePurposes)
	if err != nil {
		return nil, fmt.Errorf("op=match.filter: %w", err)
	}
	if len(ids) == 0 {
		slog.Info("no foundations share the project's purposes", slog.Int("purposes", len(project.CharitablePurposes)))
		return []domain.FoundationScore{}, nil
	}
	slog.Info("purpose filter matched foundations", slog.Int("count", len(ids)))

	// Stage 2: relevance ranking, truncated to 2*limit candidates.
	candidates, err := s.rankCandidates(ctx, ids, project, 2*limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		slog.Info("no candidates left after relevance ranking")
		return []domain.FoundationScore{}, nil
	}
	slog.Info("candidates selected for oracle evaluation", slog.Int("count", len(candidates)))

	// Stage 3: one oracle call for all candidates, bounded by OracleTimeout.
	evals := s.evaluateCandidates(ctx, project, candidates)

	// Stage 4: merge, default funding ranges, sort, truncate.
	scores := assembleScores(candidates, evals, limit)
	for _, sc := range scores {
		observability.ObserveMatchScore(sc.MatchScore)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, scores); err != nil {
			slog.Warn("failed to cache match result", slog.Any("error", err))
		}
	}
	return scores, nil
}

// rankCandidates orders the purpose-filtered set by relevance to the
// project's free text. The store's native ranking is preferred; on error or
// zero hits the in-memory keyword ranking takes over. Only the plain
// document fetch backing the fallback can fail the request.
func (s MatchService) rankCandidates(ctx domain.Context, ids []string, project domain.ProjectDescription, n int) ([]domain.Foundation, error) {
	tracer := otel.Tracer("usecase.match")
	ctx, span := tracer.Start(ctx, "match.rankCandidates")
	defer span.End()

	query := buildSearchQuery(project)

	docs, err := s.Foundations.SearchRelevant(ctx, ids, query, n)
	if err != nil {
		slog.Warn("native text search unavailable, using keyword fallback", slog.Any("error", err))
	} else if len(docs) > 0 {
		slog.Debug("native text search ranked candidates", slog.Int("count", len(docs)))
		return docs, nil
	}

	all, err := s.Foundations.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("op=match.fetch_candidates: %w", err)
	}
	return fallbackRank(all, query, n), nil
}

// evaluateCandidates invokes the oracle once and reconciles its answer so
// that every candidate ends up with exactly one evaluation.
func (s MatchService) evaluateCandidates(ctx domain.Context, project domain.ProjectDescription, candidates []domain.Foundation) map[string]domain.FoundationEvaluation {
	tracer := otel.Tracer("usecase.match")
	octx, span := tracer.Start(ctx, "match.evaluateCandidates")
	defer span.End()

	if s.OracleTimeout > 0 {
		var cancel context.CancelFunc
		octx, cancel = context.WithTimeout(octx, s.OracleTimeout)
		defer cancel()
	}

	evals, err := s.Evaluator.Evaluate(octx, project, candidates)
	if err != nil {
		// Timeouts are treated the same as any other oracle failure.
		slog.Warn("oracle evaluation failed, degrading to lexical scoring", slog.Any("error", err), slog.Int("candidates", len(candidates)))
		observability.OracleFallback()
		return lexicalEvaluations(project, candidates)
	}
	slog.Info("oracle evaluated candidates", slog.Int("returned", len(evals)), slog.Int("sent", len(candidates)))
	return reconcile(candidates, evals)
}

// reconcile maps evaluations by foundation id, drops ids that were never
// sent, clamps scores into [0,1], and fills a neutral default for every
// candidate the oracle skipped.
func reconcile(candidates []domain.Foundation, evals []domain.FoundationEvaluation) map[string]domain.FoundationEvaluation {
	sent := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		sent[c.ID] = struct{}{}
	}

	byID := make(map[string]domain.FoundationEvaluation, len(candidates))
	for _, ev := range evals {
		if _, ok := sent[ev.FoundationID]; !ok {
			slog.Warn("oracle returned evaluation for unknown foundation, dropping", slog.String("foundation_id", ev.FoundationID))
			continue
		}
		ev.MatchScore = clampScore(ev.MatchScore)
		byID[ev.FoundationID] = ev
	}

	for _, c := range candidates {
		if _, ok := byID[c.ID]; ok {
			continue
		}
		slog.Warn("oracle skipped candidate, filling default evaluation", slog.String("foundation_id", c.ID))
		observability.LenientFill()
		byID[c.ID] = defaultEvaluation(c.ID, neutralScore)
	}
	return byID
}

// lexicalEvaluations scores every candidate from keyword overlap alone,
// clearly labeled as a pending detailed assessment.
func lexicalEvaluations(project domain.ProjectDescription, candidates []domain.Foundation) map[string]domain.FoundationEvaluation {
	tokens := queryTokens(buildSearchQuery(project))
	byID := make(map[string]domain.FoundationEvaluation, len(candidates))
	for _, c := range candidates {
		score := neutralScore
		if len(tokens) > 0 {
			relevance, _ := lexicalRelevance(c, tokens)
			score = clampScore(relevance)
		}
		byID[c.ID] = defaultEvaluation(c.ID, score)
	}
	return byID
}

const neutralScore = 0.5

func defaultEvaluation(foundationID string, score float64) domain.FoundationEvaluation {
	return domain.FoundationEvaluation{
		FoundationID: foundationID,
		MatchScore:   score,
		Fits:         []string{"Grundlegende Kompatibilität basierend auf gemeinnützigem Zweck"},
		Mismatches:   []string{},
		Questions:    []string{"Detaillierte Bewertung steht noch aus"},
	}
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}

// cacheKey derives a stable key from the immutable project fields and limit.
func cacheKey(project domain.ProjectDescription, limit int) string {
	b, _ := json.Marshal(struct {
		P domain.ProjectDescription `json:"p"`
		L int                       `json:"l"`
	}{project, limit})
	h := sha256.Sum256(b)
	return "match:" + hex.EncodeToString(h[:])
}
