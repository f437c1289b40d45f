// Package loader splits a scanner export into its top-level fields and the
// raw records found at the findings path.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// Document is a parsed export whose records are still undecoded.
type Document struct {
	path    string
	fields  map[string]json.RawMessage
	records []json.RawMessage
}

// Load parses data and resolves the array at path. It fails with a
// *report.MalformedInputError when data is not a JSON object, when path is
// absent or when it does not hold an array.
func Load(data []byte, path string) (*Document, error) {
	if !json.Valid(data) {
		return nil, &report.MalformedInputError{Source: path, Reason: "invalid JSON", Err: syntaxError(data)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, &report.MalformedInputError{Source: path, Reason: "top level is not an object"}
	}

	raw, ok := fields[path]
	if !ok {
		return nil, &report.MalformedInputError{Source: path, Reason: "findings path is absent"}
	}

	var records []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &records) != nil {
		return nil, &report.MalformedInputError{Source: path, Reason: "wrong type", Err: report.ErrFindingsNotArray}
	}

	for i, rec := range records {
		if t := firstByte(rec); t != '{' {
			return nil, &report.MalformedInputError{
				Source: path,
				Reason: fmt.Sprintf("record %d is not an object", i),
			}
		}
	}

	return &Document{path: path, fields: fields, records: records}, nil
}

// Path returns the findings path the document was loaded from.
func (d *Document) Path() string { return d.path }

// Len returns the number of records.
func (d *Document) Len() int { return len(d.records) }

// Field decodes the top-level field key into v. A missing or null field
// leaves v untouched and reports false.
func (d *Document) Field(key string, v any) (bool, error) {
	raw, ok := d.fields[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Record decodes record i into v. Shape errors are reported as a
// *report.MalformedInputError.
func (d *Document) Record(i int, v any) error {
	if err := json.Unmarshal(d.records[i], v); err != nil {
		return &report.MalformedInputError{
			Source: d.path,
			Reason: fmt.Sprintf("record %d has an invalid shape", i),
			Err:    err,
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// syntaxError recovers the decoder's description of invalid input.
func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return nil
}
