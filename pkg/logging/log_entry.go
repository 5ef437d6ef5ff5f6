package logging

// LogEntry represents a structured log record with fields relevant to optimization runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Optimization-specific fields
	RunID    string // Identifier of the optimization run
	RoundIdx int    // Current round of the outer loop, -1 when outside a round

	// General structured data
	Fields map[string]interface{}
}
