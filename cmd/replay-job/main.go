// Package main is an operator CLI for re-running or inspecting a
// single analysis job, grounded on the same cobra command shape the
// photo-pipeline tool in the example pack uses for its subcommands.
//
// run and requeue both replay a FAILED job: since a job's status can
// only advance PENDING->RUNNING->(COMPLETE|FAILED) (spec.md §3,
// invariant b forbids a backward transition), replaying one clones it
// into a fresh PENDING row with the same project/AOI/weights/
// constraints (internal/metastore.Store.CloneForRetry) rather than
// resetting the FAILED row in place.
//
// Usage:
//
//	replay-job run <job-id>
//	replay-job status <job-id>
//	replay-job requeue <job-id>
//	replay-job cancel <job-id>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/f4roos41/solarmcda/internal/config"
	"github.com/f4roos41/solarmcda/internal/job"
	"github.com/f4roos41/solarmcda/internal/metastore"
	"github.com/f4roos41/solarmcda/internal/objectstore"
	"github.com/f4roos41/solarmcda/internal/queue"
)

func main() {
	_ = godotenv.Load()
	godal.RegisterAll()

	root := &cobra.Command{
		Use:   "replay-job",
		Short: "Inspect or re-run a single MCDA analysis job",
	}

	root.AddCommand(newRunCmd(), newStatusCmd(), newRequeueCmd(), newCancelCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job-id>",
		Short: "Run a job inline, bypassing the broker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := metastore.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer store.Close()

			objStore, err := objectstore.New(ctx, cfg.AWSRegion)
			if err != nil {
				return fmt.Errorf("connect to object storage: %w", err)
			}

			controller := &job.Controller{
				Store:         store,
				Pipeline:      job.NewPipeline(cfg.DataLakeBucket),
				Uploader:      objStore,
				Deleter:       objStore,
				ResultsBucket: cfg.ResultsBucket,
				MaxAOIAreaKM2: cfg.MaxAOIAreaKM2,
				SoftTimeLimit: cfg.SoftTimeLimit,
			}

			targetID, err := resolveReplayTarget(ctx, store, jobID)
			if err != nil {
				return err
			}

			if err := controller.Process(ctx, targetID); err != nil {
				return fmt.Errorf("process job %d: %w", targetID, err)
			}
			fmt.Printf("job %d processed\n", targetID)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Print a job's current status and stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := metastore.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer store.Close()

			j, err := store.GetJob(ctx, jobID)
			if err != nil {
				return fmt.Errorf("fetch job %d: %w", jobID, err)
			}
			fmt.Printf("job %d: status=%s result_url=%v error_log=%v\n", j.ID, j.Status, derefStr(j.ResultURL), derefStr(j.ErrorLog))
			return nil
		},
	}
}

func newRequeueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requeue <job-id>",
		Short: "Publish a job id back onto the broker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := metastore.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer store.Close()

			targetID, err := resolveReplayTarget(ctx, store, jobID)
			if err != nil {
				return err
			}

			broker, err := queue.New(cfg.BrokerURL, cfg.JobQueueKey, cfg.JobProcessingKey)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer broker.Close()

			if err := broker.Publish(ctx, targetID); err != nil {
				return fmt.Errorf("publish job %d: %w", targetID, err)
			}
			fmt.Printf("job %d requeued\n", targetID)
			return nil
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Request cancellation of a PENDING or RUNNING job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := metastore.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer store.Close()

			if err := store.RequestCancellation(ctx, jobID); err != nil {
				return fmt.Errorf("request cancellation of job %d: %w", jobID, err)
			}
			fmt.Printf("cancellation requested for job %d\n", jobID)
			return nil
		},
	}
}

// resolveReplayTarget returns the job id to actually run or requeue.
// A FAILED job cannot be reset to PENDING in place (spec.md §3
// invariant b), so it is cloned into a fresh PENDING row and the new
// id is returned; any other status is passed through unchanged.
func resolveReplayTarget(ctx context.Context, store *metastore.Store, jobID int64) (int64, error) {
	j, err := store.GetJob(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("fetch job %d: %w", jobID, err)
	}
	if j.Status != metastore.StatusFailed {
		return jobID, nil
	}

	newID, err := store.CloneForRetry(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("clone failed job %d for retry: %w", jobID, err)
	}
	fmt.Printf("job %d was FAILED; cloned as new job %d for replay\n", jobID, newID)
	return newID, nil
}

func parseJobID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid job id %q: %w", s, err)
	}
	return id, nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
