package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/f4roos41/solarmcda/internal/engerr"
	"github.com/f4roos41/solarmcda/internal/metastore"
	"github.com/f4roos41/solarmcda/internal/raster"
	"github.com/f4roos41/solarmcda/internal/writer"
)

// ResultDeleter removes an already-uploaded result object, for the
// best-effort cleanup spec.md §5 calls for when a job is cancelled
// after its result was written but before the COMPLETE transition.
type ResultDeleter interface {
	Delete(ctx context.Context, bucket, key string) error
}

// Controller drives one job through admission, execution, and its
// final COMPLETE/FAILED transition (spec.md §4.9).
type Controller struct {
	Store         *metastore.Store
	Pipeline      *Pipeline
	Uploader      writer.Uploader
	Deleter       ResultDeleter
	ResultsBucket string
	MaxAOIAreaKM2 float64
	SoftTimeLimit time.Duration
}

// Process runs jobID end to end: admit, execute, persist. It never
// returns an error for a job-level failure (those are recorded as
// FAILED in the database); it only returns an error if the controller
// itself could not even reach a terminal state, e.g. the database
// became unreachable mid-run.
func (c *Controller) Process(ctx context.Context, jobID int64) error {
	attemptID := uuid.NewString()

	j, err := c.Store.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("job: fetch job %d: %w", jobID, err)
	}
	if j.Status != metastore.StatusPending {
		// Already claimed by another worker, or reprocessed after
		// completion (spec.md §4.9's idempotence-under-requeue note).
		slog.Info("job skipped, not pending", "job_id", jobID, "attempt_id", attemptID, "status", j.Status)
		return nil
	}

	aoi, err := c.Store.GetAOI(ctx, j.AOIID)
	if err != nil {
		return c.failPending(ctx, jobID, attemptID, fmt.Errorf("fetch AOI: %w", err))
	}

	admitted, err := Admit(j, aoi, c.MaxAOIAreaKM2)
	if err != nil {
		return c.failPending(ctx, jobID, attemptID, err)
	}

	if err := c.Store.TransitionToRunning(ctx, jobID); err != nil {
		if errors.Is(err, metastore.ErrNotFound) {
			slog.Info("job claimed by another worker", "job_id", jobID, "attempt_id", attemptID)
			return nil
		}
		return fmt.Errorf("job: transition %d to running: %w", jobID, err)
	}

	softLimit := c.SoftTimeLimit
	if softLimit <= 0 {
		softLimit = time.Hour
	}
	runCtx, cancel := context.WithTimeout(ctx, softLimit)
	defer cancel()

	checkCancelled := func(pollCtx context.Context) (bool, error) {
		return c.Store.IsCancelled(pollCtx, jobID)
	}

	result, err := c.Pipeline.Run(runCtx, admitted, checkCancelled)
	if err != nil {
		return c.failRunning(ctx, jobID, attemptID, err)
	}

	// Coarse-grained checkpoint "before the write" (spec.md §4.10).
	if err := checkStage(runCtx, checkCancelled); err != nil {
		return c.failRunning(ctx, jobID, attemptID, err)
	}

	key := fmt.Sprintf("results/mcda_result_%d.tif", jobID)
	if _, err := writer.Write(runCtx, result.Score, result.Grid, c.Uploader, c.ResultsBucket, key); err != nil {
		return c.failRunning(ctx, jobID, attemptID, err)
	}

	// A cancellation observed after the result is already written is
	// handled with a best-effort delete, per spec.md §5.
	if cancelled, cerr := checkCancelled(ctx); cerr == nil && cancelled {
		if c.Deleter != nil {
			if derr := c.Deleter.Delete(ctx, c.ResultsBucket, key); derr != nil {
				slog.Warn("best-effort delete of cancelled job's result failed", "job_id", jobID, "attempt_id", attemptID, "error", derr)
			}
		}
		return c.failRunning(ctx, jobID, attemptID, engerr.Cancelled())
	}

	statsJSON, err := json.Marshal(result.Summary)
	if err != nil {
		return c.failRunning(ctx, jobID, attemptID, engerr.Internal("marshal stats", err))
	}

	resultURL := fmt.Sprintf("s3://%s/%s", c.ResultsBucket, key)
	if err := c.Store.TransitionToComplete(ctx, jobID, resultURL, nil, statsJSON); err != nil {
		return fmt.Errorf("job: transition %d to complete: %w", jobID, err)
	}

	slog.Info("job completed", "job_id", jobID, "attempt_id", attemptID, "valid_pixels", result.Summary.ValidPixels, "mean_suitability", result.Summary.MeanSuitability)
	return nil
}

func (c *Controller) failPending(ctx context.Context, jobID int64, attemptID string, cause error) error {
	slog.Warn("job failed admission", "job_id", jobID, "attempt_id", attemptID, "error", cause)
	if err := c.Store.FailPending(ctx, jobID, cause.Error()); err != nil {
		return fmt.Errorf("job: record admission failure for %d: %w", jobID, err)
	}
	return nil
}

func (c *Controller) failRunning(ctx context.Context, jobID int64, attemptID string, cause error) error {
	slog.Error("job failed during execution", "job_id", jobID, "attempt_id", attemptID, "kind", engerr.KindOf(cause).String(), "error", cause)
	if err := c.Store.TransitionToFailed(ctx, jobID, cause.Error()); err != nil {
		return fmt.Errorf("job: record execution failure for %d: %w", jobID, err)
	}
	return nil
}

// NewPipeline is a convenience constructor tying a fresh raster handle
// cache to an object-store bucket.
func NewPipeline(bucket string) *Pipeline {
	return &Pipeline{Cache: raster.NewCache(), Bucket: bucket}
}
