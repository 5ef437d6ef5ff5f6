package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/lambo-go/pkg/config"
	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/datasets"
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	"github.com/XiaoConstantine/lambo-go/pkg/logging"
	"github.com/XiaoConstantine/lambo-go/pkg/moo"
	"github.com/XiaoConstantine/lambo-go/pkg/optimizers"
	"github.com/XiaoConstantine/lambo-go/pkg/tasks"
	"github.com/XiaoConstantine/lambo-go/pkg/tracking"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an optimization loop from a YAML config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimization(cmd.Context(), configPath, verbose)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML run config (defaults to the built-in benchmark)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runOptimization(ctx context.Context, configPath string, verbose bool) error {
	severity := logging.INFO
	if verbose {
		severity = logging.DEBUG
	}
	logger := logging.NewLogger(logging.Config{
		Severity: severity,
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	})
	logging.SetLogger(logger)

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	task, err := tasks.NewSyntheticTask(tasks.SyntheticConfig{
		Motifs:        cfg.Task.Motifs,
		Alphabet:      []rune(cfg.Task.Alphabet),
		MinLen:        cfg.Task.MinLen,
		MaxLen:        cfg.Task.MaxLen,
		EvalBatchSize: cfg.Task.BatchSize,
	})
	if err != nil {
		return err
	}

	pool, err := loadInitialPool(ctx, cfg, task)
	if err != nil {
		return err
	}
	logger.Info(ctx, "initial pool loaded: %d candidates", pool.Len())

	minimizer := moo.NewNSGAII(moo.Config{
		PopulationSize: cfg.Optimizer.PopulationSize,
		CrossoverRate:  cfg.Optimizer.CrossoverRate,
		MutationRate:   cfg.Optimizer.MutationRate,
		Alphabet:       task.Alphabet(),
		Concurrency:    cfg.Optimizer.Concurrency,
		EvalBatchSize:  cfg.Optimizer.EvalBatchSize,
		Seed:           cfg.Run.Seed,
	}, nil)

	var strategy optimizers.TaskStrategy
	switch cfg.Run.Strategy {
	case "model_guided":
		strategy = optimizers.NewModelGuidedStrategy(task, minimizer)
	default:
		strategy = optimizers.NewModelFreeStrategy(task)
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	opt, err := optimizers.NewSequentialOptimizer(optimizers.SequentialConfig{
		NumRounds:        cfg.Run.NumRounds,
		NumGenerations:   cfg.Run.NumGenerations,
		ConcentrateEvery: cfg.Run.ConcentrateEvery,
		ResamplingWeight: cfg.Run.ResamplingWeight,
		SimplexBins:      cfg.Run.SimplexBins,
		Seed:             cfg.Run.Seed,
		LogPrefix:        cfg.Run.LogPrefix,
	}, task, minimizer, strategy, sink)
	if err != nil {
		return err
	}

	record, err := opt.Optimize(logging.WithRunID(ctx, cfg.Run.LogPrefix), pool)
	if err != nil {
		return err
	}

	fmt.Printf("run %s finished after %d rounds\n", cfg.Run.LogPrefix, record.RoundIdx)
	fmt.Printf("  hypervolume:          %.6f\n", record.Hypervolume)
	fmt.Printf("  hypervolume relative: %.4f\n", record.HypervolumeRelative)
	fmt.Printf("  r2 indicator:         %.6f\n", record.R2)
	fmt.Printf("  hsr indicator:        %.6f\n", record.HSRI)
	fmt.Printf("  oracle evaluations:   %d\n", record.NumEvaluations)
	fmt.Printf("  elapsed:              %.2fs\n", record.ElapsedSeconds)
	return nil
}

// loadInitialPool reads the pool file when one is configured, otherwise
// evaluates the configured seed sequences through the task oracle.
func loadInitialPool(ctx context.Context, cfg *config.RunConfig, task *tasks.SyntheticTask) (*core.Pool, error) {
	if cfg.Task.PoolPath == "" {
		return task.Seeds(ctx, "seed", cfg.Task.SeedSequences)
	}

	switch strings.ToLower(filepath.Ext(cfg.Task.PoolPath)) {
	case ".csv":
		return datasets.LoadPoolFromCSV(ctx, cfg.Task.PoolPath)
	case ".parquet":
		objCols := make([]string, task.ObjectiveDim())
		for i := range objCols {
			objCols[i] = fmt.Sprintf("objective_%d", i)
		}
		return datasets.LoadPoolFromParquet(ctx, cfg.Task.PoolPath, "sequence", objCols)
	default:
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "unsupported pool file extension"),
			errors.Fields{"path": cfg.Task.PoolPath})
	}
}

func buildSink(cfg *config.RunConfig) (tracking.Sink, error) {
	var sinks []tracking.Sink
	if cfg.Tracking.Console {
		sinks = append(sinks, tracking.NewConsoleSink())
	}
	if cfg.Tracking.SQLitePath != "" {
		sqlite, err := tracking.NewSQLiteSink(cfg.Tracking.SQLitePath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sqlite)
	}
	switch len(sinks) {
	case 0:
		return tracking.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return tracking.NewMultiSink(sinks...), nil
	}
}
