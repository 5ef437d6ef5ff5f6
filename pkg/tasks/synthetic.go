// Package tasks provides built-in task oracles. The synthetic benchmark
// exercises the full optimization loop without any external scoring service.
package tasks

import (
	"context"

	"github.com/XiaoConstantine/lambo-go/pkg/core"
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
)

// SyntheticConfig parameterizes the benchmark oracle.
type SyntheticConfig struct {
	// Motifs are the target sequences, one objective per motif. Conflicting
	// motifs give a non-trivial Pareto frontier.
	Motifs []string
	// Alphabet lists the residues feasible sequences may use.
	Alphabet []rune
	// MinLen and MaxLen bound feasible sequence lengths.
	MinLen int
	MaxLen int
	// EvalBatchSize is the preferred oracle batch size.
	EvalBatchSize int
}

// DefaultSyntheticConfig returns a two-objective DNA benchmark whose motifs
// disagree at every position.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Motifs:        []string{"AAAAAAAA", "CCCCCCCC"},
		Alphabet:      []rune("ACGT"),
		MinLen:        8,
		MaxLen:        8,
		EvalBatchSize: 5,
	}
}

// SyntheticTask scores sequences by per-position mismatch against each target
// motif, normalized to [0, 1]. Lower is better. It implements core.Task.
type SyntheticTask struct {
	config   SyntheticConfig
	alphabet map[rune]bool
}

// NewSyntheticTask validates the configuration and builds the oracle.
func NewSyntheticTask(config SyntheticConfig) (*SyntheticTask, error) {
	if len(config.Motifs) == 0 {
		return nil, errors.New(errors.ValidationFailed, "at least one target motif is required")
	}
	if len(config.Alphabet) == 0 {
		return nil, errors.New(errors.ValidationFailed, "alphabet must not be empty")
	}
	if config.MinLen <= 0 || config.MaxLen < config.MinLen {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "invalid sequence length bounds"),
			errors.Fields{"min_len": config.MinLen, "max_len": config.MaxLen})
	}
	if config.EvalBatchSize <= 0 {
		config.EvalBatchSize = 5
	}

	alphabet := make(map[rune]bool, len(config.Alphabet))
	for _, r := range config.Alphabet {
		alphabet[r] = true
	}
	for _, motif := range config.Motifs {
		for _, r := range motif {
			if !alphabet[r] {
				return nil, errors.WithFields(
					errors.New(errors.ValidationFailed, "motif uses a residue outside the alphabet"),
					errors.Fields{"motif": motif, "residue": string(r)})
			}
		}
	}

	return &SyntheticTask{config: config, alphabet: alphabet}, nil
}

// ObjectiveDim returns one objective per target motif.
func (t *SyntheticTask) ObjectiveDim() int {
	return len(t.config.Motifs)
}

// BatchSize returns the preferred oracle batch size.
func (t *SyntheticTask) BatchSize() int {
	return t.config.EvalBatchSize
}

// Alphabet returns the feasible residue set, for wiring into mutation
// operators.
func (t *SyntheticTask) Alphabet() []rune {
	return t.config.Alphabet
}

// IsFeasible checks length bounds and alphabet membership. It never errors;
// the mask alone carries the verdicts.
func (t *SyntheticTask) IsFeasible(ctx context.Context, candidates []*core.Candidate) ([]bool, error) {
	if err := errors.CheckContext(ctx, "feasibility check"); err != nil {
		return nil, err
	}

	mask := make([]bool, len(candidates))
	for i, c := range candidates {
		mask[i] = t.feasible(c.Sequence)
	}
	return mask, nil
}

// Evaluate scores each candidate against every motif. The score per motif is
// the mismatch fraction over the motif's positions, so a perfect match scores
// zero and a fully disjoint sequence scores one.
func (t *SyntheticTask) Evaluate(ctx context.Context, candidates []*core.Candidate) ([][]float64, error) {
	if err := errors.CheckContext(ctx, "oracle evaluation"); err != nil {
		return nil, err
	}

	out := make([][]float64, len(candidates))
	for i, c := range candidates {
		seq := []rune(c.Sequence)
		objs := make([]float64, len(t.config.Motifs))
		for m, motif := range t.config.Motifs {
			objs[m] = mismatchFraction(seq, []rune(motif))
		}
		out[i] = objs
	}
	return out, nil
}

// Seeds evaluates a set of wild-type sequences into an initial labeled pool,
// silently skipping infeasible or duplicate sequences.
func (t *SyntheticTask) Seeds(ctx context.Context, wildName string, sequences []string) (*core.Pool, error) {
	pool := core.NewPool()
	for _, seq := range sequences {
		if !t.feasible(seq) || pool.Contains(seq) {
			continue
		}
		cand := core.NewCandidate(wildName, seq)
		objs, err := t.Evaluate(ctx, []*core.Candidate{cand})
		if err != nil {
			return nil, err
		}
		pool.Append(cand, objs[0])
	}
	return pool, nil
}

func (t *SyntheticTask) feasible(seq string) bool {
	runes := []rune(seq)
	if len(runes) < t.config.MinLen || len(runes) > t.config.MaxLen {
		return false
	}
	for _, r := range runes {
		if !t.alphabet[r] {
			return false
		}
	}
	return true
}

// mismatchFraction counts positions where seq differs from the motif.
// Positions past the end of the shorter string count as mismatches.
func mismatchFraction(seq, motif []rune) float64 {
	mismatches := 0
	for i := range motif {
		if i >= len(seq) || seq[i] != motif[i] {
			mismatches++
		}
	}
	return float64(mismatches) / float64(len(motif))
}
