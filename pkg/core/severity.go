package core

import "strings"

// Severity indicates the importance of a semantic diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError marks a program the front end must reject.
	SeverityError Severity = iota
	// SeverityWarning marks a suspicious but legal construct.
	SeverityWarning
	// SeverityInfo marks a note, such as an inserted implicit conversion.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
