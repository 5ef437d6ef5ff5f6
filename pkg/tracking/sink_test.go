package tracking

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	candidates []CandidateRecord
	rounds     []RoundRecord
	closed     bool
}

func (s *recordingSink) LogCandidate(r CandidateRecord) error {
	s.candidates = append(s.candidates, r)
	return nil
}

func (s *recordingSink) LogRound(r RoundRecord) error {
	s.rounds = append(s.rounds, r)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	multi := NewMultiSink(a, b)

	require.NoError(t, multi.LogCandidate(CandidateRecord{CandidateID: "c1"}))
	require.NoError(t, multi.LogRound(RoundRecord{RoundIdx: 3}))
	require.NoError(t, multi.Close())

	assert.Len(t, a.candidates, 1)
	assert.Len(t, b.candidates, 1)
	assert.Equal(t, 3, a.rounds[0].RoundIdx)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNopSink(t *testing.T) {
	var sink NopSink
	assert.NoError(t, sink.LogCandidate(CandidateRecord{}))
	assert.NoError(t, sink.LogRound(RoundRecord{}))
	assert.NoError(t, sink.Close())
}

func TestSQLiteSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	sink, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.LogCandidate(CandidateRecord{
		LogPrefix:   "test",
		RoundIdx:    1,
		CandidateID: "cand-1",
		AncestorID:  "wild-1",
		Sequence:    "ACDEFG",
		Objectives:  []float64{0.25, 0.75},
	}))
	require.NoError(t, sink.LogRound(RoundRecord{
		LogPrefix:           "test",
		RoundIdx:            1,
		Hypervolume:         0.5,
		R2:                  0.1,
		HSRI:                0.3,
		HypervolumeRelative: 1.2,
		NumEvaluations:      160,
		ElapsedSeconds:      2.5,
	}))

	var count int
	row := sink.db.QueryRow("SELECT COUNT(*) FROM candidate_records WHERE round_idx = 1")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)

	var hv float64
	row = sink.db.QueryRow("SELECT hypervolume FROM round_records WHERE round_idx = 1")
	require.NoError(t, row.Scan(&hv))
	assert.Equal(t, 0.5, hv)
}

func TestConsoleSinkDoesNotError(t *testing.T) {
	sink := NewConsoleSink()
	assert.NoError(t, sink.LogCandidate(CandidateRecord{CandidateID: "c1", Objectives: []float64{1}}))
	assert.NoError(t, sink.LogRound(RoundRecord{RoundIdx: 1}))
	assert.NoError(t, sink.Close())
}
