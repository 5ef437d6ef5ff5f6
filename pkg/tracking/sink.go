// Package tracking defines the metrics sink collaborator: structured
// per-candidate and per-round record streams emitted by the round loop. The
// core depends only on the Sink interface, never on a transport.
package tracking

// CandidateRecord describes one accepted candidate in one round.
type CandidateRecord struct {
	LogPrefix   string
	RoundIdx    int
	CandidateID string
	AncestorID  string
	Sequence    string
	Objectives  []float64
}

// RoundRecord describes the convergence state after one round.
type RoundRecord struct {
	LogPrefix           string
	RoundIdx            int
	Hypervolume         float64
	R2                  float64
	HSRI                float64
	HypervolumeRelative float64
	NumEvaluations      int
	ElapsedSeconds      float64
}

// Sink receives the two record streams. Implementations own transport and
// persistence; Close flushes any buffered state.
type Sink interface {
	LogCandidate(record CandidateRecord) error
	LogRound(record RoundRecord) error
	Close() error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) LogCandidate(CandidateRecord) error { return nil }
func (NopSink) LogRound(RoundRecord) error         { return nil }
func (NopSink) Close() error                       { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) LogCandidate(record CandidateRecord) error {
	for _, s := range m.sinks {
		if err := s.LogCandidate(record); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) LogRound(record RoundRecord) error {
	for _, s := range m.sinks {
		if err := s.LogRound(record); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
