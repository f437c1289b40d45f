package finding

import "strings"

// Severity is the normalized severity vocabulary accepted by SRM.
// It is a value object; the zero value is not a valid severity.
type Severity string

const (
	SeverityUnspecified Severity = "unspecified"
	SeverityInfo        Severity = "info"
	SeverityLow         Severity = "low"
	SeverityMedium      Severity = "medium"
	SeverityHigh        Severity = "high"
	SeverityCritical    Severity = "critical"
)

// NormalizeSeverity maps a scanner-native severity onto the SRM vocabulary.
// Matching is case-insensitive. The mapping is total: any value it does not
// recognise, including the empty string, becomes SeverityUnspecified.
func NormalizeSeverity(raw string) Severity {
	switch strings.ToLower(raw) {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	case "minimal":
		return SeverityInfo
	default:
		return SeverityUnspecified
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string { return string(s) }

// IsValid returns true if the severity is part of the SRM vocabulary.
func (s Severity) IsValid() bool {
	for _, v := range AllSeverities() {
		if s == v {
			return true
		}
	}
	return false
}

// AllSeverities returns all valid severity values, least severe first.
func AllSeverities() []Severity {
	return []Severity{
		SeverityUnspecified,
		SeverityInfo,
		SeverityLow,
		SeverityMedium,
		SeverityHigh,
		SeverityCritical,
	}
}
