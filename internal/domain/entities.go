// Package domain holds the core entities, error taxonomy, and ports of the
// foundation matching service.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrSearchUnavailable  = errors.New("text search unavailable")
	ErrOracleFailure      = errors.New("oracle invocation failed")
	ErrSchemaInvalid      = errors.New("schema invalid")
)

// Funding amount categories used by Foerderhoehe.
const (
	FundingSmall  = "small"
	FundingMedium = "medium"
	FundingLarge  = "large"
)

// RequiredDocument is one document a foundation requires with an application.
type RequiredDocument struct {
	DocumentType string `json:"document_type"`
	Description  string `json:"description"`
	Required     bool   `json:"required"`
}

// ApplicationProcess describes how a foundation accepts applications.
type ApplicationProcess struct {
	DeadlineType      string             `json:"deadline_type"`
	DeadlineDate      *string            `json:"deadline_date,omitempty"`
	RollingInfo       *string            `json:"rolling_info,omitempty"`
	RequiredDocuments []RequiredDocument `json:"required_documents,omitempty"`
	EvaluationProcess string             `json:"evaluation_process"`
	DecisionTimeline  string             `json:"decision_timeline"`
}

// GeographicArea is the geographic funding scope of a foundation.
// Scope is one of local, regional, national, international.
type GeographicArea struct {
	Scope         string   `json:"scope"`
	SpecificAreas []string `json:"specific_areas,omitempty"`
	Restrictions  *string  `json:"restrictions,omitempty"`
}

// FundingAmount is the funding range a foundation offers. MinAmount and
// MaxAmount are nullable; when either is nil a category-keyed default range
// is substituted before display.
type FundingAmount struct {
	Category  string   `json:"category"`
	MinAmount *float64 `json:"min_amount"`
	MaxAmount *float64 `json:"max_amount"`
}

// ContactInfo is how applicants reach a foundation.
type ContactInfo struct {
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
}

// PastProject is a project a foundation has funded before. Description feeds
// the relevance ranking.
type PastProject struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	FundedAmount float64 `json:"funded_amount"`
	Status       string  `json:"status"`
}

// Foundation is a catalog entity. It is created and updated by an offline
// loader and read-only inside the matching pipeline.
type Foundation struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     string             `json:"short_description"`
	LongDescription      string             `json:"long_description"`
	LegalForm            string             `json:"legal_form"`
	GemeinnuetzigeZwecke []string           `json:"gemeinnuetzige_zwecke"`
	PastProjects         []PastProject      `json:"past_projects,omitempty"`
	Antragsprozess       ApplicationProcess `json:"antragsprozess"`
	Foerderbereich       GeographicArea     `json:"foerderbereich"`
	Foerderhoehe         FundingAmount      `json:"foerderhoehe"`
	Contact              ContactInfo        `json:"contact"`
	Website              string             `json:"website"`
}

// ProjectDescription is the user's project intent. Immutable once handed to
// the pipeline.
type ProjectDescription struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	TargetGroup        string   `json:"target_group"`
	CharitablePurposes []string `json:"charitable_purpose"`
}

// FoundationEvaluation is one oracle verdict for one candidate foundation.
// MatchScore is within [0,1] after clamping; the pipeline guarantees exactly
// one evaluation per candidate regardless of what the oracle returned.
type FoundationEvaluation struct {
	FoundationID string   `json:"foundation_id"`
	MatchScore   float64  `json:"match_score"`
	Fits         []string `json:"fits"`
	Mismatches   []string `json:"mismatches"`
	Questions    []string `json:"questions"`
}

// MatchType tags a MatchItem.
type MatchType string

const (
	MatchFit      MatchType = "fit"
	MatchMismatch MatchType = "mismatch"
	MatchQuestion MatchType = "question"
)

// MatchItem is a single flattened analysis item shown to the user.
type MatchItem struct {
	Text string    `json:"text"`
	Type MatchType `json:"type"`
}

// FoundationScore is the pipeline output: a foundation's display fields
// merged with its evaluation. Foerderhoehe carries resolved amounts.
type FoundationScore struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Purpose              string             `json:"purpose"`
	Description          string             `json:"description"`
	FundingAmount        string             `json:"funding_amount"`
	MatchScore           float64            `json:"match_score"`
	Matches              []MatchItem        `json:"matches"`
	LongDescription      string             `json:"long_description"`
	LegalForm            string             `json:"legal_form"`
	GemeinnuetzigeZwecke []string           `json:"gemeinnuetzige_zwecke"`
	Antragsprozess       ApplicationProcess `json:"antragsprozess"`
	Foerderbereich       GeographicArea     `json:"foerderbereich"`
	Foerderhoehe         FundingAmount      `json:"foerderhoehe"`
	Contact              ContactInfo        `json:"contact"`
	PastProjects         []PastProject      `json:"past_projects,omitempty"`
	Website              string             `json:"website"`
}

// FoundationRepository (port) is the catalog store boundary.
//
// SearchRelevant may fail or come back empty when the store has no usable
// text index; callers recover with their own ranking and must not treat that
// as fatal. FilterByPurposes and GetByIDs faults are fatal.
type FoundationRepository interface {
	FilterByPurposes(ctx Context, purposes []string) ([]string, error)
	SearchRelevant(ctx Context, ids []string, query string, limit int) ([]Foundation, error)
	GetByIDs(ctx Context, ids []string) ([]Foundation, error)
	Get(ctx Context, id string) (Foundation, error)
	List(ctx Context, offset, limit int) ([]Foundation, error)
}

// FoundationEvaluator (port) is the model-based scoring oracle. One call
// evaluates all candidates; implementations must not fan out per foundation.
type FoundationEvaluator interface {
	Evaluate(ctx Context, project ProjectDescription, candidates []Foundation) ([]FoundationEvaluation, error)
}

// ScoreCache (port) caches assembled results for identical requests.
type ScoreCache interface {
	Get(ctx Context, key string) ([]FoundationScore, bool, error)
	Set(ctx Context, key string, scores []FoundationScore) error
}

// Context is an alias so the domain does not import adapters' context plumbing.
type Context = context.Context
