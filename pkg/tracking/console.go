package tracking

import (
	"context"

	"github.com/XiaoConstantine/lambo-go/pkg/logging"
)

// ConsoleSink writes records as structured log lines through the logging
// package.
type ConsoleSink struct {
	logger *logging.Logger
}

// NewConsoleSink creates a sink over the global logger.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{logger: logging.GetLogger()}
}

func (s *ConsoleSink) LogCandidate(record CandidateRecord) error {
	ctx := logging.WithRoundIdx(context.Background(), record.RoundIdx)
	s.logger.Info(ctx, "%s/candidates id=%s ancestor=%s sequence=%s objectives=%v",
		record.LogPrefix, record.CandidateID, record.AncestorID, record.Sequence, record.Objectives)
	return nil
}

func (s *ConsoleSink) LogRound(record RoundRecord) error {
	ctx := logging.WithRoundIdx(context.Background(), record.RoundIdx)
	s.logger.Info(ctx, "%s/opt_metrics hv=%.6f r2=%.6f hsri=%.6f hv_rel=%.4f evals=%d elapsed=%.2fs",
		record.LogPrefix, record.Hypervolume, record.R2, record.HSRI,
		record.HypervolumeRelative, record.NumEvaluations, record.ElapsedSeconds)
	return nil
}

func (s *ConsoleSink) Close() error { return nil }
