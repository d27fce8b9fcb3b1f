// File: internal/queue/queue.go
// Purpose: Redis reliable-queue broker binding (spec.md §6): workers
//          pop job messages the same way Celery's default Redis
//          transport does, via BRPOPLPUSH into a processing list.
// Pattern: domain
// Dependencies: github.com/redis/go-redis/v9
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is the broker payload a worker receives for one job.
// {"task": "run_mcda_analysis", "job_id": 42} matches the shape the
// original Celery worker consumed (original_source/backend/workers/tasks.py).
type Message struct {
	Task  string `json:"task"`
	JobID int64  `json:"job_id"`
}

// Binding is a Redis-backed reliable queue: messages move from
// queueKey to processingKey atomically on pop, so a worker that
// crashes mid-job leaves its message recoverable rather than lost.
type Binding struct {
	client        *redis.Client
	queueKey      string
	processingKey string
}

// New connects to brokerURL the same way internal/cache.New connects
// to REDIS_URL: parse, construct, verify with a bounded ping.
func New(brokerURL, queueKey, processingKey string) (*Binding, error) {
	opt, err := redis.ParseURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("queue: parse broker url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("queue: connect to broker: %w", err)
	}

	provider := "Redis"
	if strings.Contains(brokerURL, "upstash.io") {
		provider = "Upstash Redis"
	}
	slog.Info("broker connection established", "provider", provider, "host", opt.Addr)

	return &Binding{client: client, queueKey: queueKey, processingKey: processingKey}, nil
}

// Close releases the Redis connection.
func (b *Binding) Close() error { return b.client.Close() }

// Publish enqueues a job for processing.
func (b *Binding) Publish(ctx context.Context, jobID int64) error {
	raw, err := json.Marshal(Message{Task: "run_mcda_analysis", JobID: jobID})
	if err != nil {
		return fmt.Errorf("queue: marshal message: %w", err)
	}
	if err := b.client.LPush(ctx, b.queueKey, raw).Err(); err != nil {
		return fmt.Errorf("queue: publish: %w", err)
	}
	return nil
}

// Receive blocks up to timeout for the next message, atomically moving
// it into the processing list. A zero-value Message and nil error
// means the wait timed out with nothing to do.
func (b *Binding) Receive(ctx context.Context, timeout time.Duration) (Message, error) {
	raw, err := b.client.BRPopLPush(ctx, b.queueKey, b.processingKey, timeout).Result()
	if err == redis.Nil {
		return Message{}, nil
	}
	if err != nil {
		return Message{}, fmt.Errorf("queue: receive: %w", err)
	}

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		// Malformed payload: drop it from the processing list so it
		// doesn't block forever, and surface the error to the caller.
		b.client.LRem(ctx, b.processingKey, 1, raw)
		return Message{}, fmt.Errorf("queue: decode message: %w", err)
	}
	return msg, nil
}

// Ack removes a successfully processed message from the processing
// list (the BRPOPLPUSH destination acts as the in-flight record).
func (b *Binding) Ack(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("queue: marshal ack: %w", err)
	}
	return b.client.LRem(ctx, b.processingKey, 1, raw).Err()
}
