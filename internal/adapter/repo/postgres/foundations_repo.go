package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// foundationColumns is the shared select list; scanFoundation mirrors it.
const foundationColumns = `id, name, short_description, long_description, legal_form,
	gemeinnuetzige_zwecke, past_projects, antragsprozess, foerderbereich,
	foerderhoehe, contact, website`

// FoundationRepo reads and writes the foundation catalog using a minimal
// pgx pool. Relevance search uses the stored German tsvector.
type FoundationRepo struct{ Pool PgxPool }

// NewFoundationRepo constructs a FoundationRepo with the given pool.
func NewFoundationRepo(p PgxPool) *FoundationRepo { return &FoundationRepo{Pool: p} }

type scanner interface{ Scan(dest ...any) error }

func scanFoundation(row scanner) (domain.Foundation, error) {
	var f domain.Foundation
	err := row.Scan(
		&f.ID, &f.Name, &f.ShortDescription, &f.LongDescription, &f.LegalForm,
		&f.GemeinnuetzigeZwecke, &f.PastProjects, &f.Antragsprozess,
		&f.Foerderbereich, &f.Foerderhoehe, &f.Contact, &f.Website,
	)
	return f, err
}

func collectFoundations(rows pgx.Rows) ([]domain.Foundation, error) {
	defer rows.Close()
	var out []domain.Foundation
	for rows.Next() {
		f, err := scanFoundation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterByPurposes returns the ids of foundations whose statutory purposes
// overlap the given set. An empty purposes slice matches nothing.
func (r *FoundationRepo) FilterByPurposes(ctx domain.Context, purposes []string) ([]string, error) {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.FilterByPurposes")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "foundations"),
		attribute.Int("purposes.count", len(purposes)),
	)
	if len(purposes) == 0 {
		return nil, nil
	}
	q := `SELECT id FROM foundations WHERE gemeinnuetzige_zwecke && $1`
	rows, err := r.Pool.Query(ctx, q, purposes)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.filter_by_purposes: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("op=foundations.filter_by_purposes: %w: %v", domain.ErrCatalogUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=foundations.filter_by_purposes: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	return ids, nil
}

// SearchRelevant ranks the given foundations against the query using the
// German full-text index and returns at most limit rows, best first.
// Foundations that do not match any query term are not returned; callers
// fall back to their own ranking when the result is empty.
func (r *FoundationRepo) SearchRelevant(ctx domain.Context, ids []string, query string, limit int) ([]domain.Foundation, error) {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.SearchRelevant")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "foundations"),
		attribute.Int("candidates.count", len(ids)),
		attribute.Int("limit", limit),
	)
	if len(ids) == 0 || limit <= 0 {
		return nil, nil
	}
	q := `SELECT ` + foundationColumns + `
		FROM foundations, plainto_tsquery('german', $2) AS query
		WHERE id = ANY($1) AND search_tsv @@ query
		ORDER BY ts_rank(search_tsv, query) DESC, id
		LIMIT $3`
	rows, err := r.Pool.Query(ctx, q, ids, query, limit)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.search_relevant: %w: %v", domain.ErrSearchUnavailable, err)
	}
	out, err := collectFoundations(rows)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.search_relevant: %w: %v", domain.ErrSearchUnavailable, err)
	}
	return out, nil
}

// GetByIDs loads the given foundations in one round trip. Missing ids are
// silently absent from the result.
func (r *FoundationRepo) GetByIDs(ctx domain.Context, ids []string) ([]domain.Foundation, error) {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.GetByIDs")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "foundations"),
		attribute.Int("ids.count", len(ids)),
	)
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + foundationColumns + ` FROM foundations WHERE id = ANY($1)`
	rows, err := r.Pool.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.get_by_ids: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	out, err := collectFoundations(rows)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.get_by_ids: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	return out, nil
}

// Get loads a single foundation by id or returns domain.ErrNotFound.
func (r *FoundationRepo) Get(ctx domain.Context, id string) (domain.Foundation, error) {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "foundations"),
	)
	q := `SELECT ` + foundationColumns + ` FROM foundations WHERE id = $1`
	f, err := scanFoundation(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Foundation{}, fmt.Errorf("op=foundations.get: %w: id=%s", domain.ErrNotFound, id)
		}
		return domain.Foundation{}, fmt.Errorf("op=foundations.get: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	return f, nil
}

// List returns a stable page of the catalog ordered by name.
func (r *FoundationRepo) List(ctx domain.Context, offset, limit int) ([]domain.Foundation, error) {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "foundations"),
		attribute.Int("offset", offset),
		attribute.Int("limit", limit),
	)
	if limit <= 0 {
		return nil, nil
	}
	q := `SELECT ` + foundationColumns + ` FROM foundations ORDER BY name, id OFFSET $1 LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.list: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	out, err := collectFoundations(rows)
	if err != nil {
		return nil, fmt.Errorf("op=foundations.list: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	return out, nil
}

// Upsert inserts or replaces one foundation. Used by the offline seeder;
// the matching pipeline never writes.
func (r *FoundationRepo) Upsert(ctx domain.Context, f domain.Foundation) error {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "foundations"),
	)
	q := `INSERT INTO foundations (id, name, short_description, long_description, legal_form,
			gemeinnuetzige_zwecke, past_projects, antragsprozess, foerderbereich,
			foerderhoehe, contact, website, past_projects_text, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			short_description = EXCLUDED.short_description,
			long_description = EXCLUDED.long_description,
			legal_form = EXCLUDED.legal_form,
			gemeinnuetzige_zwecke = EXCLUDED.gemeinnuetzige_zwecke,
			past_projects = EXCLUDED.past_projects,
			antragsprozess = EXCLUDED.antragsprozess,
			foerderbereich = EXCLUDED.foerderbereich,
			foerderhoehe = EXCLUDED.foerderhoehe,
			contact = EXCLUDED.contact,
			website = EXCLUDED.website,
			past_projects_text = EXCLUDED.past_projects_text,
			updated_at = EXCLUDED.updated_at`
	_, err := r.Pool.Exec(ctx, q,
		f.ID, f.Name, f.ShortDescription, f.LongDescription, f.LegalForm,
		f.GemeinnuetzigeZwecke, f.PastProjects, f.Antragsprozess,
		f.Foerderbereich, f.Foerderhoehe, f.Contact, f.Website,
		pastProjectsText(f.PastProjects), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=foundations.upsert: %w", err)
	}
	return nil
}

// pastProjectsText flattens past-project descriptions for the stored
// tsvector, so native relevance search sees the same text as the keyword
// fallback.
func pastProjectsText(projects []domain.PastProject) string {
	parts := make([]string, 0, len(projects))
	for _, p := range projects {
		if p.Description != "" {
			parts = append(parts, p.Description)
		}
	}
	return strings.Join(parts, " ")
}

// Count returns the catalog size. Used by the readiness probe.
func (r *FoundationRepo) Count(ctx domain.Context) (int64, error) {
	tracer := otel.Tracer("repo.foundations")
	ctx, span := tracer.Start(ctx, "foundations.Count")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "COUNT"),
		attribute.String("db.sql.table", "foundations"),
	)
	row := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM foundations`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=foundations.count: %w", err)
	}
	return count, nil
}
