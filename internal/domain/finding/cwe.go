package finding

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCWE is returned when a CWE reference lacks the kind-number shape.
var ErrMalformedCWE = errors.New("malformed CWE reference")

// ParseCWEReference extracts the numeric part of a "CWE-<n>" reference.
// The kind prefix is not checked; the suffix must be all digits.
func ParseCWEReference(ref string) (string, error) {
	kind, num, ok := strings.Cut(strings.TrimSpace(ref), "-")
	if !ok || kind == "" || !isDigits(num) {
		return "", fmt.Errorf("%w: %q", ErrMalformedCWE, ref)
	}
	return num, nil
}

// ParseCWEList splits a comma separated list of bare CWE numbers.
// Blank segments are dropped and order is preserved.
func ParseCWEList(csv string) []string {
	var ids []string
	for _, part := range strings.Split(csv, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
