package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the foundations table and its indexes. The tsvector
// column is generated from the German-language display fields plus the
// past-project text denormalized at upsert time, so relevance search covers
// everything the keyword fallback does without separate index maintenance.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS foundations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		short_description TEXT NOT NULL DEFAULT '',
		long_description TEXT NOT NULL DEFAULT '',
		legal_form TEXT NOT NULL DEFAULT '',
		gemeinnuetzige_zwecke TEXT[] NOT NULL DEFAULT '{}',
		past_projects JSONB NOT NULL DEFAULT '[]',
		antragsprozess JSONB NOT NULL DEFAULT '{}',
		foerderbereich JSONB NOT NULL DEFAULT '{}',
		foerderhoehe JSONB NOT NULL DEFAULT '{}',
		contact JSONB NOT NULL DEFAULT '{}',
		website TEXT NOT NULL DEFAULT '',
		past_projects_text TEXT NOT NULL DEFAULT '',
		search_tsv tsvector GENERATED ALWAYS AS (
			to_tsvector('german',
				coalesce(name, '') || ' ' ||
				coalesce(short_description, '') || ' ' ||
				coalesce(long_description, '') || ' ' ||
				coalesce(past_projects_text, ''))
		) STORED,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS foundations_zwecke_idx ON foundations USING GIN (gemeinnuetzige_zwecke)`,
	`CREATE INDEX IF NOT EXISTS foundations_search_idx ON foundations USING GIN (search_tsv)`,
}

// EnsureSchema creates the foundations table and indexes if they do not
// exist. Statements are idempotent so repeated startups are safe.
func EnsureSchema(ctx context.Context, pool PgxPool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("op=schema.ensure: %w", err)
		}
	}
	return nil
}
