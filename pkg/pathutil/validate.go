// Package pathutil provides safe path handling for report inputs and outputs.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ValidatePath cleans path and resolves symlinks when it already exists.
// Paths that do not exist yet are returned cleaned so outputs can be created.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return "", ErrNullBytes
	}

	cleaned := filepath.Clean(path)
	if real, err := filepath.EvalSymlinks(cleaned); err == nil {
		return real, nil
	}
	return cleaned, nil
}
