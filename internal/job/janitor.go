package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/f4roos41/solarmcda/internal/metastore"
)

// Janitor sweeps for jobs stuck RUNNING past their hard time limit and
// fails them, the same ticker + stop-channel shape the teacher uses for
// its background rollup scheduler. A job's own pipeline enforces the
// soft limit and operator cancellation by checking the run context's
// deadline and the cancel_requested flag at stage boundaries
// (internal/job/pipeline.go's checkStage, invoked from Controller.Process);
// the Janitor is the backstop for a worker process that died outright
// and never got the chance to observe either.
type Janitor struct {
	Store         *metastore.Store
	HardTimeLimit time.Duration
	Interval      time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Start begins the background sweep.
func (j *Janitor) Start(ctx context.Context) {
	if j.stopChan == nil {
		j.stopChan = make(chan struct{})
	}
	j.wg.Add(1)
	go j.worker(ctx)
	slog.Info("job janitor started", "hard_time_limit", j.HardTimeLimit, "interval", j.Interval)
}

// Stop signals the sweep goroutine to exit and waits for it.
func (j *Janitor) Stop() {
	close(j.stopChan)
	j.wg.Wait()
}

func (j *Janitor) worker(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopChan:
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	stuck, err := j.Store.ListStuckRunning(ctx, j.HardTimeLimit)
	if err != nil {
		slog.Error("janitor sweep failed to list stuck jobs", "error", err)
		return
	}
	for _, jobID := range stuck {
		if err := j.Store.TransitionToFailed(ctx, jobID, "hard time limit exceeded"); err != nil {
			slog.Error("janitor failed to fail stuck job", "job_id", jobID, "error", err)
			continue
		}
		slog.Warn("janitor failed stuck job", "job_id", jobID, "hard_time_limit", j.HardTimeLimit)
	}
}
