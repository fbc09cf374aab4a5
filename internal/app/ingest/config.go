package ingest

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds ingestion pipeline settings.
type Config struct {
	DumpPath      string `yaml:"dump_path"      env:"INGEST_DUMP_PATH"`
	Workers       int    `yaml:"workers"        env:"INGEST_WORKERS"`
	BatchSize     int    `yaml:"batch_size"     env:"INGEST_BATCH_SIZE"     env-default:"500"`
	QueueSize     int    `yaml:"queue_size"     env:"INGEST_QUEUE_SIZE"`
	ProgressEvery int    `yaml:"progress_every" env:"INGEST_PROGRESS_EVERY"`
	DryRun        bool   `yaml:"dry_run"        env:"INGEST_DRY_RUN"`
}

// Zero is a meaningful queue_size (unbuffered) and progress_every (silent),
// so their defaults are preset before reading instead of tagged.
const (
	defaultQueueSize     = 256
	defaultProgressEvery = 1000000
)

// LoadConfig reads ingestion configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Config{QueueSize: defaultQueueSize, ProgressEvery: defaultProgressEvery}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("ingest config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("ingest config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ingest config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ingest config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges. A zero worker count means one worker per CPU.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("queue_size must be >= 0 (got %d)", c.QueueSize)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be >= 0 (got %d)", c.ProgressEvery)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
