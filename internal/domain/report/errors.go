package report

import (
	"errors"
	"fmt"
)

// ErrFindingsNotArray is the reason recorded when the findings path exists
// but does not hold a JSON array.
var ErrFindingsNotArray = errors.New("findings path is not an array")

// MalformedInputError is fatal: the export does not have the expected shape.
// No output is written when it is returned.
type MalformedInputError struct {
	Source string // findings path, e.g. "_items"
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("malformed input at %q: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// FieldExtractionError is non-fatal: a field could not be mapped and was
// left empty.
type FieldExtractionError struct {
	Record int // zero-based index in the findings array
	Field  string
	Err    error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("record %d: field %q: %v", e.Record, e.Field, e.Err)
}

func (e *FieldExtractionError) Unwrap() error { return e.Err }

// ArtifactFetchError is non-fatal: a linked evidence artifact could not be
// retrieved and its data was omitted.
type ArtifactFetchError struct {
	Record   int
	Evidence int
	Relation string
	URL      string
	Err      error
}

func (e *ArtifactFetchError) Error() string {
	return fmt.Sprintf("record %d: evidence %d: %s artifact %s: %v",
		e.Record, e.Evidence, e.Relation, e.URL, e.Err)
}

func (e *ArtifactFetchError) Unwrap() error { return e.Err }

// SerializationError is fatal: the document could not be encoded or written.
// The target file is left untouched.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to serialize report: %v", e.Err)
	}
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// IsFatal reports whether err aborts a conversion.
func IsFatal(err error) bool {
	var malformed *MalformedInputError
	var serialization *SerializationError
	return errors.As(err, &malformed) || errors.As(err, &serialization)
}
