package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected Severity
	}{
		{"low", SeverityLow},
		{"LOW", SeverityLow},
		{"Medium", SeverityMedium},
		{"high", SeverityHigh},
		{"HiGh", SeverityHigh},
		{"critical", SeverityCritical},
		{"CRITICAL", SeverityCritical},
		{"minimal", SeverityInfo},
		{"Minimal", SeverityInfo},
		{"", SeverityUnspecified},
		{"info", SeverityUnspecified},
		{"severe", SeverityUnspecified},
		{" high", SeverityUnspecified}, // no trimming
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSeverity(tt.input))
		})
	}
}

func TestNormalizeSeverity_IsTotal(t *testing.T) {
	inputs := []string{"", "x", "LOW ", "\x00", "минимал", "unspecified", "N/A"}
	for _, in := range inputs {
		assert.True(t, NormalizeSeverity(in).IsValid(), "input %q", in)
	}
}

func TestSeverity_IsValid(t *testing.T) {
	for _, s := range AllSeverities() {
		assert.True(t, s.IsValid())
		assert.Equal(t, string(s), s.String())
	}
	assert.False(t, Severity("").IsValid())
	assert.False(t, Severity("HIGH").IsValid())
}
