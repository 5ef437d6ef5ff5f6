package core

import (
	"time"
)

// RoundState carries per-run bookkeeping through the outer loop. It is not
// persisted beyond a run.
type RoundState struct {
	RoundIdx    int
	Evaluations int // Cumulative inner-optimizer evaluation count
	StartTime   time.Time
	LogPrefix   string
}

// NewRoundState initializes state for round zero.
func NewRoundState(logPrefix string) *RoundState {
	return &RoundState{
		RoundIdx:  0,
		StartTime: time.Now(),
		LogPrefix: logPrefix,
	}
}

// Elapsed returns seconds since the run started.
func (s *RoundState) Elapsed() float64 {
	return time.Since(s.StartTime).Seconds()
}
