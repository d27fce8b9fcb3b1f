// Package main runs the MCDA analysis worker: a pool of goroutines
// pulling job ids off the Redis broker and driving each one through
// the suitability pipeline.
//
// Usage:
//
//	go run ./cmd/worker
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/f4roos41/solarmcda/internal/config"
	"github.com/f4roos41/solarmcda/internal/job"
	"github.com/f4roos41/solarmcda/internal/metastore"
	"github.com/f4roos41/solarmcda/internal/objectstore"
	"github.com/f4roos41/solarmcda/internal/queue"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	godal.RegisterAll()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := metastore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	broker, err := queue.New(cfg.BrokerURL, cfg.JobQueueKey, cfg.JobProcessingKey)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer broker.Close()

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

	janitor := &job.Janitor{Store: store, HardTimeLimit: cfg.HardTimeLimit, Interval: time.Minute}
	janitor.Start(ctx)
	defer janitor.Stop()

	slog.Info("worker starting", "processes", cfg.WorkerProcesses, "data_lake_bucket", cfg.DataLakeBucket, "results_bucket", cfg.ResultsBucket)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.WorkerProcesses; i++ {
		i := i
		g.Go(func() error {
			return workerLoop(gctx, i, broker, controller)
		})
	}

	if err := g.Wait(); err != nil && gctx.Err() == nil {
		return fmt.Errorf("worker pool: %w", err)
	}
	slog.Info("worker shutting down")
	return nil
}

func workerLoop(ctx context.Context, id int, broker *queue.Binding, controller *job.Controller) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, err := broker.Receive(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("worker receive failed", "worker", id, "error", err)
			continue
		}
		if msg.JobID == 0 {
			continue // timed out, nothing queued
		}

		slog.Info("worker picked up job", "worker", id, "job_id", msg.JobID)
		if err := controller.Process(ctx, msg.JobID); err != nil {
			slog.Error("worker failed to process job", "worker", id, "job_id", msg.JobID, "error", err)
			continue
		}
		if err := broker.Ack(ctx, msg); err != nil {
			slog.Error("worker failed to ack job", "worker", id, "job_id", msg.JobID, "error", err)
		}
	}
}
