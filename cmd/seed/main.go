// Command seed loads foundation catalog JSON into Postgres.
//
// The input file holds an array of foundation documents. Existing rows with
// the same id are replaced, so re-running the seeder is safe.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/foerderkompass/foerderkompass/internal/adapter/observability"
	"github.com/foerderkompass/foerderkompass/internal/adapter/repo/postgres"
	"github.com/foerderkompass/foerderkompass/internal/config"
	"github.com/foerderkompass/foerderkompass/internal/domain"
)

func main() {
	var (
		file   = flag.String("file", "foundations.json", "path to the foundation catalog JSON file")
		strict = flag.Bool("strict", false, "fail on the first invalid document instead of skipping it")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	slog.SetDefault(observability.SetupLogger(cfg))

	if err := run(context.Background(), cfg, *file, *strict); err != nil {
		slog.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, file string, strict bool) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("op=seed.read: %w", err)
	}
	var foundations []domain.Foundation
	if err := json.Unmarshal(raw, &foundations); err != nil {
		return fmt.Errorf("op=seed.parse: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("op=seed.connect: %w", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	repo := postgres.NewFoundationRepo(pool)
	seeded, skipped := 0, 0
	for i, f := range foundations {
		if err := validate(&f); err != nil {
			if strict {
				return fmt.Errorf("op=seed.validate: document %d: %w", i, err)
			}
			slog.Warn("skipping invalid foundation document",
				slog.Int("index", i),
				slog.String("name", f.Name),
				slog.Any("error", err))
			skipped++
			continue
		}
		if err := repo.Upsert(ctx, f); err != nil {
			return err
		}
		seeded++
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	slog.Info("seed complete",
		slog.Int("seeded", seeded),
		slog.Int("skipped", skipped),
		slog.Int64("catalog_size", total))
	return nil
}

// validate checks the fields the pipeline depends on and assigns an id to
// documents that arrive without one.
func validate(f *domain.Foundation) error {
	if f.Name == "" {
		return fmt.Errorf("%w: name required", domain.ErrInvalidArgument)
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if len(f.GemeinnuetzigeZwecke) == 0 {
		return fmt.Errorf("%w: gemeinnuetzige_zwecke required", domain.ErrInvalidArgument)
	}
	if err := domain.ValidatePurposes(f.GemeinnuetzigeZwecke); err != nil {
		return err
	}
	return nil
}
