// Package config loads the engine's process configuration from the
// environment. There is no config file and no flag surface beyond the
// cmd/replay-job operator CLI. Each field of Config except the two queue
// keys is read from an environment variable, and every one but
// DATABASE_URL has a default. HTTP-layer options (API host/port, CORS
// origins), a result backend, and feature flags are not read here; AWS
// credentials come from the SDK's default chain (internal/objectstore).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every recognized runtime option for the worker process.
type Config struct {
	DatabaseURL string
	BrokerURL   string

	AWSRegion        string
	DataLakeBucket   string
	ResultsBucket    string

	MaxAOIAreaKM2            float64
	DefaultRasterResolutionM float64
	WorkerProcesses          int
	SoftTimeLimit            time.Duration
	HardTimeLimit            time.Duration
	MaxConcurrentJobsPerUser int

	JobQueueKey       string
	JobProcessingKey  string
}

// Load reads the environment and fills in defaults. It fails closed on
// DATABASE_URL, the one option without a default.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BrokerURL:   getenvDefault("BROKER_URL", "redis://localhost:6379"),

		AWSRegion:      getenvDefault("AWS_REGION", "us-east-1"),
		DataLakeBucket: getenvDefault("DATA_LAKE_BUCKET", "data-lake"),
		ResultsBucket:  getenvDefault("RESULTS_BUCKET", "results"),

		MaxAOIAreaKM2:            10000,
		DefaultRasterResolutionM: 90,
		WorkerProcesses:          4,
		SoftTimeLimit:            3600 * time.Second,
		HardTimeLimit:            7200 * time.Second,
		MaxConcurrentJobsPerUser: 3,

		JobQueueKey:      "mcda:jobs",
		JobProcessingKey: "mcda:jobs:processing",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL environment variable required")
	}

	if v := os.Getenv("MAX_AOI_AREA_KM2"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: parse MAX_AOI_AREA_KM2: %w", err)
		}
		cfg.MaxAOIAreaKM2 = f
	}

	if v := os.Getenv("DEFAULT_RASTER_RESOLUTION_M"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: parse DEFAULT_RASTER_RESOLUTION_M: %w", err)
		}
		cfg.DefaultRasterResolutionM = f
	}

	if v := os.Getenv("WORKER_PROCESSES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: parse WORKER_PROCESSES: %w", err)
		}
		cfg.WorkerProcesses = n
	}

	if v := os.Getenv("SOFT_TIME_LIMIT_S"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: parse SOFT_TIME_LIMIT_S: %w", err)
		}
		cfg.SoftTimeLimit = time.Duration(n) * time.Second
	}

	if v := os.Getenv("HARD_TIME_LIMIT_S"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: parse HARD_TIME_LIMIT_S: %w", err)
		}
		cfg.HardTimeLimit = time.Duration(n) * time.Second
	}

	if v := os.Getenv("MAX_CONCURRENT_JOBS_PER_USER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: parse MAX_CONCURRENT_JOBS_PER_USER: %w", err)
		}
		cfg.MaxConcurrentJobsPerUser = n
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
