package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foerderkompass/foerderkompass/internal/config"
	"github.com/foerderkompass/foerderkompass/internal/domain"
	"github.com/foerderkompass/foerderkompass/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg         config.Config
	Match       usecase.MatchService
	Foundations domain.FoundationRepository
	DBCheck     func(ctx context.Context) error
	CacheCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, match usecase.MatchService, foundations domain.FoundationRepository, dbCheck, cacheCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Match: match, Foundations: foundations, DBCheck: dbCheck, CacheCheck: cacheCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// matchRequest is the POST /v1/match body. Purposes are validated against
// the statutory taxonomy inside the pipeline; the struct tags only catch
// shape errors early.
type matchRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=200"`
	Description        string   `json:"description" validate:"required,min=10,max=10000"`
	TargetGroup        string   `json:"target_group" validate:"required,max=1000"`
	CharitablePurposes []string `json:"charitable_purpose" validate:"required,min=1,dive,required"`
}

type matchResponse struct {
	Results []domain.FoundationScore `json:"results"`
	Count   int                      `json:"count"`
}

// MatchHandler scores foundations for a project description. The optional
// limit query parameter is clamped to the configured maximum.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a}}})
			return
		}
		var req matchRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json body: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		limit, err := s.parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			writeError(w, r, err, map[string]any{"max": s.Cfg.MatchLimitMax})
			return
		}

		project := domain.ProjectDescription{
			Name:               req.Name,
			Description:        req.Description,
			TargetGroup:        req.TargetGroup,
			CharitablePurposes: req.CharitablePurposes,
		}
		scores, err := s.Match.Match(r.Context(), project, limit)
		if err != nil {
			LoggerFrom(r).Error("match failed", slog.Any("error", err))
			writeError(w, r, err, nil)
			return
		}
		if scores == nil {
			scores = []domain.FoundationScore{}
		}
		writeJSON(w, http.StatusOK, matchResponse{Results: scores, Count: len(scores)})
	}
}

func (s *Server) parseLimit(raw string) (int, error) {
	if raw == "" {
		return s.Cfg.MatchLimitDefault, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidArgument)
	}
	if limit > s.Cfg.MatchLimitMax {
		return 0, fmt.Errorf("%w: limit exceeds maximum %d", domain.ErrInvalidArgument, s.Cfg.MatchLimitMax)
	}
	return limit, nil
}

type foundationsResponse struct {
	Foundations []domain.Foundation `json:"foundations"`
	Count       int                 `json:"count"`
}

// ListFoundationsHandler returns a page of the catalog ordered by name.
func (s *Server) ListFoundationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset := 0
		if raw := q.Get("offset"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				writeError(w, r, fmt.Errorf("%w: offset must be a non-negative integer", domain.ErrInvalidArgument), nil)
				return
			}
			offset = v
		}
		limit := 50
		if raw := q.Get("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 || v > 200 {
				writeError(w, r, fmt.Errorf("%w: limit must be between 1 and 200", domain.ErrInvalidArgument), nil)
				return
			}
			limit = v
		}
		foundations, err := s.Foundations.List(r.Context(), offset, limit)
		if err != nil {
			LoggerFrom(r).Error("list foundations failed", slog.Any("error", err))
			writeError(w, r, err, nil)
			return
		}
		if foundations == nil {
			foundations = []domain.Foundation{}
		}
		writeJSON(w, http.StatusOK, foundationsResponse{Foundations: foundations, Count: len(foundations)})
	}
}

// GetFoundationHandler returns one foundation by id.
func (s *Server) GetFoundationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id required", domain.ErrInvalidArgument), nil)
			return
		}
		f, err := s.Foundations.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, map[string]string{"id": id})
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// PurposesHandler lists the statutory charitable purpose taxonomy so clients
// can offer a picker instead of free text.
func (s *Server) PurposesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"purposes": domain.CharitablePurposes,
			"count":    len(domain.CharitablePurposes),
		})
	}
}

// ReadyzHandler reports dependency health. The cache is optional; only a
// configured cache contributes to readiness.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type check struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
			Err  string `json:"error,omitempty"`
		}
		checks := []check{}
		allOK := true

		if s.DBCheck != nil {
			c := check{Name: "db", OK: true}
			if err := s.DBCheck(r.Context()); err != nil {
				c.OK = false
				c.Err = err.Error()
				allOK = false
			}
			checks = append(checks, c)
		}
		if s.CacheCheck != nil {
			c := check{Name: "cache", OK: true}
			if err := s.CacheCheck(r.Context()); err != nil {
				c.OK = false
				c.Err = err.Error()
				allOK = false
			}
			checks = append(checks, c)
		}

		status := http.StatusOK
		if !allOK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": allOK, "checks": checks})
	}
}
