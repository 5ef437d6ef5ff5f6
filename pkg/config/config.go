// Package config loads and validates run configuration from YAML files.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/lambo-go/pkg/errors"
)

// RunConfig is the complete configuration for one optimization run.
type RunConfig struct {
	// Run configuration
	Run RunSection `yaml:"run" validate:"required"`

	// Task configuration
	Task TaskSection `yaml:"task,omitempty" validate:"omitempty"`

	// Inner optimizer configuration
	Optimizer OptimizerSection `yaml:"optimizer,omitempty" validate:"omitempty"`

	// Tracking sink configuration
	Tracking TrackingSection `yaml:"tracking,omitempty" validate:"omitempty"`
}

// RunSection holds the outer-loop parameters.
type RunSection struct {
	// Number of outer rounds
	NumRounds int `yaml:"num_rounds" validate:"required,min=1"`

	// Generations per inner optimization call
	NumGenerations int `yaml:"num_generations" validate:"required,min=1"`

	// Contract the active set to its frontier every N rounds; 0 disables
	ConcentrateEvery int `yaml:"concentrate_every" validate:"min=0"`

	// Rank exponent k for weighted draws; 0 means uniform
	ResamplingWeight float64 `yaml:"resampling_weight" validate:"min=0"`

	// Weight-simplex resolution per objective dimension
	SimplexBins int `yaml:"simplex_bins" validate:"min=2"`

	// Seed for all orchestration randomness
	Seed int64 `yaml:"seed"`

	// Inner problem strategy (model_free or model_guided)
	Strategy string `yaml:"strategy" validate:"required,oneof=model_free model_guided"`

	// Prefix for emitted records and log lines
	LogPrefix string `yaml:"log_prefix" validate:"required"`
}

// TaskSection selects and parameterizes the task oracle.
type TaskSection struct {
	// Target motifs, one objective per motif
	Motifs []string `yaml:"motifs" validate:"omitempty,min=1,dive,required"`

	// Residue alphabet
	Alphabet string `yaml:"alphabet"`

	// Feasible sequence length bounds
	MinLen int `yaml:"min_len" validate:"min=0"`
	MaxLen int `yaml:"max_len" validate:"min=0,gtefield=MinLen"`

	// Oracle batch size, also the target active-set size
	BatchSize int `yaml:"batch_size" validate:"min=1"`

	// Optional initial pool file (.csv or .parquet); when empty, seeds come
	// from the seed_sequences list
	PoolPath      string   `yaml:"pool_path,omitempty"`
	SeedSequences []string `yaml:"seed_sequences,omitempty"`
}

// OptimizerSection holds the inner NSGA-II parameters.
type OptimizerSection struct {
	PopulationSize int     `yaml:"population_size" validate:"min=2"`
	CrossoverRate  float64 `yaml:"crossover_rate" validate:"min=0,max=1"`
	MutationRate   float64 `yaml:"mutation_rate" validate:"min=0,max=1"`

	// Max concurrent evaluation batches
	Concurrency int `yaml:"concurrency" validate:"min=0"`

	// Candidates per evaluation batch
	EvalBatchSize int `yaml:"eval_batch_size" validate:"min=0"`
}

// TrackingSection configures record sinks.
type TrackingSection struct {
	// Emit structured log lines for every record
	Console bool `yaml:"console"`

	// SQLite database path; empty disables persistence
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// Default returns a runnable configuration for the built-in benchmark task.
func Default() *RunConfig {
	return &RunConfig{
		Run: RunSection{
			NumRounds:        8,
			NumGenerations:   10,
			ConcentrateEvery: 1,
			ResamplingWeight: 1,
			SimplexBins:      11,
			Strategy:         "model_free",
			LogPrefix:        "lambo",
		},
		Task: TaskSection{
			Motifs:    []string{"AAAAAAAA", "CCCCCCCC"},
			Alphabet:  "ACGT",
			MinLen:    8,
			MaxLen:    8,
			BatchSize: 5,
			SeedSequences: []string{
				"AACCGGTT", "GGTTAACC", "ACACACAC", "TGTGTGTG", "AAAACCCC", "CCCCAAAA",
			},
		},
		Optimizer: OptimizerSection{
			PopulationSize: 16,
			CrossoverRate:  0.8,
			MutationRate:   0.1,
			Concurrency:    4,
			EvalBatchSize:  8,
		},
		Tracking: TrackingSection{Console: true},
	}
}

// LoadFromFile reads a YAML run configuration, overlaying it on the defaults,
// and validates the result.
func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceNotFound, "failed to read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse config file")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration against its struct tags plus the rules the
// tags cannot express.
func Validate(cfg *RunConfig) error {
	if cfg == nil {
		return errors.New(errors.InvalidInput, "config is nil")
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}

	if cfg.Task.PoolPath == "" && len(cfg.Task.SeedSequences) == 0 {
		return errors.New(errors.ValidationFailed,
			"either task.pool_path or task.seed_sequences must provide the initial pool")
	}
	if cfg.Task.Alphabet == "" {
		return errors.New(errors.ValidationFailed, "task.alphabet must not be empty")
	}
	return nil
}
