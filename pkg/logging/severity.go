package logging

import (
	"strings"
)

// Severity orders log levels from per-generation chatter (DEBUG) up to
// unrecoverable run failures (FATAL).
type Severity int32

const (
	DEBUG Severity = iota
	INFO
	WARN
	ERROR
	FATAL
)

var severityNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (s Severity) String() string {
	if s < DEBUG || s > FATAL {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// ParseSeverity maps a configuration string to a Severity,
// case-insensitively. Unknown strings map to INFO.
func ParseSeverity(level string) Severity {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}
