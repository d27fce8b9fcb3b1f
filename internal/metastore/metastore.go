// File: internal/metastore/metastore.go
// Purpose: connection pool setup for the analysis_jobs/areas_of_interest
//          schema (spec.md §3 / §6).
// Pattern: data-access
// Dependencies: github.com/jackc/pgx/v5/pgxpool
package metastore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a connection pool configured for the worker's job
// lifecycle traffic: bursty, short CAS updates rather than the high
// sustained throughput cmd/import-elevation tunes for.
type Store struct {
	Pool *pgxpool.Pool
}

// Open parses databaseURL and establishes a pool sized for a single
// worker process.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("metastore: parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("metastore: connect: %w", err)
	}
	return &Store{Pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() { s.Pool.Close() }
