package scheduler

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"
)

// Config is the YAML-serializable configuration for a scheduler run,
// following the teacher's plain-struct-plus-tags convention rather than
// a functional-options constructor, since these values are meant to be
// loaded from disk by a CLI/config collaborator.
type Config struct {
	// Concurrency bounds how many subgraph builds run at once. 0 means
	// unbounded (one goroutine per task).
	Concurrency int `yaml:"concurrency"`

	// MinResolution is the min_res passed to Wrap for every task.
	MinResolution float64 `yaml:"min_resolution"`
}

// DefaultConfig returns the configuration the original build command used.
func DefaultConfig() Config {
	return Config{Concurrency: 0, MinResolution: 0.04}
}

// LoadConfig reads and validates a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scheduler: reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scheduler: parsing config: %w", err)
	}
	if cfg.MinResolution <= 0 {
		return Config{}, fmt.Errorf("scheduler: min_resolution must be > 0")
	}
	return cfg, nil
}

// RunWithConfig is Run, reading Concurrency/MinResolution from cfg and
// applying cfg.MinResolution to every task that didn't already set one.
func RunWithConfig(ctx context.Context, tasks []Task, cfg Config, log logr.Logger) ([]Result, error) {
	for i := range tasks {
		if tasks[i].MinRes == 0 {
			tasks[i].MinRes = cfg.MinResolution
		}
	}
	return Run(ctx, tasks, cfg.Concurrency, log)
}
