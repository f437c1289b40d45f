package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCWEReference(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		hasError bool
	}{
		{"CWE-89", "89", false},
		{"cwe-79", "79", false},
		{" CWE-1021 ", "1021", false},
		{"89", "", true},
		{"CWE-", "", true},
		{"-89", "", true},
		{"CWE-89-1", "", true},
		{"CWE-abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ParseCWEReference(tt.input)
			if tt.hasError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedCWE)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestParseCWEList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty segments dropped", "79,89,,120", []string{"79", "89", "120"}},
		{"single", "22", []string{"22"}},
		{"empty", "", nil},
		{"only commas", ",,", nil},
		{"spaces trimmed", "79, 89 ,", []string{"79", "89"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCWEList(tt.input))
		})
	}
}
