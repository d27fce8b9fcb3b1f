// File: jobs.go
// Purpose: analysis_jobs queries, including the compare-and-set status
//          transitions the job controller's state machine depends on
//          (spec.md §4.9).
// Pattern: data-access
// Dependencies: analysis_jobs, areas_of_interest tables
// Frequency: critical - every job touches these on every transition

package metastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobStatus mirrors the original implementation's JobStatus enum
// (original_source/backend/models/project.py).
type JobStatus string

const (
	StatusPending  JobStatus = "PENDING"
	StatusRunning  JobStatus = "RUNNING"
	StatusComplete JobStatus = "COMPLETE"
	StatusFailed   JobStatus = "FAILED"
)

// Job is one row of analysis_jobs.
type Job struct {
	ID              int64
	ProjectID       int64
	AOIID           int64
	Status          JobStatus
	WeightsJSON     []byte
	ConstraintsJSON []byte
	StartedAt       *time.Time
	CompletedAt     *time.Time
	ResultURL       *string
	ResultTilesURL  *string
	ErrorLog        *string
	StatsJSON       []byte
}

// AOI is one row of areas_of_interest: the polygon is returned as
// GeoJSON text (ST_AsGeoJSON) so callers decode it with internal/geoms
// without a PostGIS driver dependency.
type AOI struct {
	ID        int64
	ProjectID int64
	Name      string
	GeoJSON   string
	AreaKM2   *float64
}

// ErrNotFound is returned when a CAS update affects zero rows: either
// the job does not exist, or another worker already moved it out of
// the expected status (spec.md §4.9's idempotence-under-requeue note).
var ErrNotFound = errors.New("metastore: job not found or status mismatch")

const getJob = `
SELECT id, project_id, aoi_id, status, weights_json, constraints_json,
       started_at, completed_at, result_url, result_tiles_url, error_log, stats_json
FROM analysis_jobs
WHERE id = $1
`

// GetJob fetches a job by id.
func (s *Store) GetJob(ctx context.Context, id int64) (Job, error) {
	var j Job
	var weights, constraints, stats []byte
	err := s.Pool.QueryRow(ctx, getJob, id).Scan(
		&j.ID, &j.ProjectID, &j.AOIID, &j.Status, &weights, &constraints,
		&j.StartedAt, &j.CompletedAt, &j.ResultURL, &j.ResultTilesURL, &j.ErrorLog, &stats,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	j.WeightsJSON, j.ConstraintsJSON, j.StatsJSON = weights, constraints, stats
	return j, nil
}

const getAOI = `
SELECT id, project_id, name, ST_AsGeoJSON(geom), area_km2
FROM areas_of_interest
WHERE id = $1
`

// GetAOI fetches an AOI by id, with its geometry as GeoJSON.
func (s *Store) GetAOI(ctx context.Context, id int64) (AOI, error) {
	var a AOI
	var areaKM2 pgtype.Float8
	err := s.Pool.QueryRow(ctx, getAOI, id).Scan(&a.ID, &a.ProjectID, &a.Name, &a.GeoJSON, &areaKM2)
	if errors.Is(err, pgx.ErrNoRows) {
		return AOI{}, ErrNotFound
	}
	if err != nil {
		return AOI{}, err
	}
	if areaKM2.Valid {
		a.AreaKM2 = &areaKM2.Float64
	}
	return a, nil
}

const transitionToRunning = `
UPDATE analysis_jobs
SET status = 'RUNNING', started_at = now()
WHERE id = $1 AND status = 'PENDING'
`

// TransitionToRunning moves a job PENDING -> RUNNING. Returns
// ErrNotFound if the job was not PENDING (already claimed by another
// worker, or does not exist), so callers must not proceed.
func (s *Store) TransitionToRunning(ctx context.Context, jobID int64) error {
	return casUpdate(ctx, s.Pool, transitionToRunning, jobID)
}

const transitionToComplete = `
UPDATE analysis_jobs
SET status = 'COMPLETE', completed_at = now(),
    result_url = $2, result_tiles_url = $3, stats_json = $4
WHERE id = $1 AND status = 'RUNNING'
`

// TransitionToComplete moves a job RUNNING -> COMPLETE, recording its
// result location and statistics.
func (s *Store) TransitionToComplete(ctx context.Context, jobID int64, resultURL string, resultTilesURL *string, statsJSON []byte) error {
	return casUpdate(ctx, s.Pool, transitionToComplete, jobID, resultURL, resultTilesURL, statsJSON)
}

const transitionToFailed = `
UPDATE analysis_jobs
SET status = 'FAILED', completed_at = now(), error_log = $2
WHERE id = $1 AND status = 'RUNNING'
`

// TransitionToFailed moves a job RUNNING -> FAILED with a human-readable
// error_log entry (spec.md §7: every error path must leave one).
func (s *Store) TransitionToFailed(ctx context.Context, jobID int64, errorLog string) error {
	return casUpdate(ctx, s.Pool, transitionToFailed, jobID, errorLog)
}

// FailPending moves a job PENDING -> FAILED directly, for admission
// failures that never reach RUNNING (spec.md §4.9).
const failPending = `
UPDATE analysis_jobs
SET status = 'FAILED', completed_at = now(), error_log = $2
WHERE id = $1 AND status = 'PENDING'
`

func (s *Store) FailPending(ctx context.Context, jobID int64, errorLog string) error {
	return casUpdate(ctx, s.Pool, failPending, jobID, errorLog)
}

const listStuckRunning = `
SELECT id FROM analysis_jobs
WHERE status = 'RUNNING' AND started_at < now() - $1::interval
`

// ListStuckRunning returns ids of jobs RUNNING for longer than
// hardTimeLimit, for Janitor's sweep.
func (s *Store) ListStuckRunning(ctx context.Context, hardTimeLimit time.Duration) ([]int64, error) {
	rows, err := s.Pool.Query(ctx, listStuckRunning, fmt.Sprintf("%d seconds", int64(hardTimeLimit.Seconds())))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const isCancelled = `SELECT cancel_requested FROM analysis_jobs WHERE id = $1`

// IsCancelled reports a job's cancel_requested flag (spec.md §4.10),
// polled by the pipeline at stage boundaries while RUNNING.
func (s *Store) IsCancelled(ctx context.Context, jobID int64) (bool, error) {
	var cancelled bool
	err := s.Pool.QueryRow(ctx, isCancelled, jobID).Scan(&cancelled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	return cancelled, err
}

const requestCancellation = `
UPDATE analysis_jobs
SET cancel_requested = true
WHERE id = $1 AND status IN ('PENDING', 'RUNNING')
`

// RequestCancellation sets a job's cancel_requested flag (spec.md
// §4.10: "Cancellation (delete of a RUNNING job) sets a cancellation
// flag"). It returns ErrNotFound if the job does not exist or has
// already reached a terminal status.
func (s *Store) RequestCancellation(ctx context.Context, jobID int64) error {
	return casUpdate(ctx, s.Pool, requestCancellation, jobID)
}

const cloneForRetry = `
INSERT INTO analysis_jobs (project_id, aoi_id, weights_json, constraints_json, status)
SELECT project_id, aoi_id, weights_json, constraints_json, 'PENDING'
FROM analysis_jobs
WHERE id = $1 AND status = 'FAILED'
RETURNING id
`

// CloneForRetry implements idempotent replay (spec.md §4.9's "entire
// job re-runs") without a backward status transition: invariant (b)
// forbids moving a FAILED row back to PENDING in place, so replay
// inserts a fresh PENDING row carrying the same project/AOI/weights/
// constraints and returns its id. Returns ErrNotFound if jobID does not
// exist or is not FAILED.
func (s *Store) CloneForRetry(ctx context.Context, jobID int64) (int64, error) {
	var newID int64
	err := s.Pool.QueryRow(ctx, cloneForRetry, jobID).Scan(&newID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func casUpdate(ctx context.Context, pool *pgxpool.Pool, sql string, args ...interface{}) error {
	tag, err := pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
