package app

import (
	"context"
	"fmt"
)

// Pinger is the minimal interface for a dependency capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns the db and cache readiness checks. The cache
// check is nil when no cache is configured so it never blocks readiness.
func BuildReadinessChecks(pool Pinger, cache Pinger) (func(ctx context.Context) error, func(ctx context.Context) error) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	var cacheCheck func(ctx context.Context) error
	if cache != nil {
		cacheCheck = func(ctx context.Context) error {
			return cache.Ping(ctx)
		}
	}
	return dbCheck, cacheCheck
}
