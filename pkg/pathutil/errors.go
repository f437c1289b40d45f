package pathutil

import "errors"

var (
	ErrEmptyPath   = errors.New("path cannot be empty")
	ErrNullBytes   = errors.New("path contains null bytes")
	ErrIsDirectory = errors.New("path is a directory")
)
