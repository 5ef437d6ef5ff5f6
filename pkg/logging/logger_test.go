package logging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOutput captures log entries for assertions.
type testOutput struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (o *testOutput) Write(e LogEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, e)
	return nil
}

func (o *testOutput) Sync() error  { return nil }
func (o *testOutput) Close() error { return nil }

func (o *testOutput) captured() []LogEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]LogEntry, len(o.entries))
	copy(out, o.entries)
	return out
}

func TestLoggerSeverityFiltering(t *testing.T) {
	out := &testOutput{}
	logger := NewLogger(Config{
		Severity: WARN,
		Outputs:  []Output{out},
	})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	entries := out.captured()
	require.Len(t, entries, 2)
	assert.Equal(t, WARN, entries[0].Severity)
	assert.Equal(t, ERROR, entries[1].Severity)
}

func TestLoggerContextAnnotations(t *testing.T) {
	out := &testOutput{}
	logger := NewLogger(Config{
		Severity: DEBUG,
		Outputs:  []Output{out},
	})

	ctx := WithRunID(context.Background(), "run-42")
	ctx = WithRoundIdx(ctx, 7)
	logger.Info(ctx, "round complete")

	entries := out.captured()
	require.Len(t, entries, 1)
	assert.Equal(t, "run-42", entries[0].RunID)
	assert.Equal(t, 7, entries[0].RoundIdx)
}

func TestLoggerDefaultFields(t *testing.T) {
	out := &testOutput{}
	logger := NewLogger(Config{
		Severity:      DEBUG,
		Outputs:       []Output{out},
		DefaultFields: map[string]interface{}{"component": "optimizer"},
	})

	logger.Info(context.Background(), "hello")

	entries := out.captured()
	require.Len(t, entries, 1)
	assert.Equal(t, "optimizer", entries[0].Fields["component"])
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, DEBUG, ParseSeverity("DEBUG"))
	assert.Equal(t, ERROR, ParseSeverity("ERROR"))
	assert.Equal(t, WARN, ParseSeverity("warn"))
	assert.Equal(t, INFO, ParseSeverity("bogus"))
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", Severity(99).String())
}

func TestGetLoggerReturnsSingleton(t *testing.T) {
	first := GetLogger()
	second := GetLogger()
	assert.Same(t, first, second)
}
