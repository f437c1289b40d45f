package ports

import (
	"context"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// SourceID identifies a scanner export format.
type SourceID string

// Supported sources.
const (
	SourcePolarisDAST SourceID = "polaris-dast"
	SourceTortMAST    SourceID = "tort-mast"
)

// String returns the string representation of the source ID.
func (s SourceID) String() string { return string(s) }

// ConvertOptions parameterise one conversion run.
type ConvertOptions struct {
	// RunDate stamps reports whose export carries no date of its own.
	RunDate time.Time

	// ToolName overrides the report tool name. Empty keeps the source default.
	ToolName string
}

// Conversion is the in-memory result of translating one export.
type Conversion struct {
	Source           SourceID
	Report           *report.Report
	DetectionMethods []string
	Diagnostics      report.Diagnostics
}

// FindingCount returns the number of findings in the report.
func (c *Conversion) FindingCount() int {
	if c == nil || c.Report == nil {
		return 0
	}
	return c.Report.FindingCount()
}

// Converter translates a raw scanner export into an SRM report.
// A fatal error (see report.IsFatal) means no report was produced; non-fatal
// problems are returned in Conversion.Diagnostics.
type Converter interface {
	// ID returns the export format this converter understands.
	ID() SourceID

	// Convert parses and normalizes one export.
	Convert(ctx context.Context, data []byte, opts ConvertOptions) (*Conversion, error)
}

// ConverterRegistry looks converters up by source.
type ConverterRegistry interface {
	// Register adds a converter to the registry.
	Register(c Converter)

	// Get returns a converter by ID.
	Get(id SourceID) (Converter, bool)

	// All returns all registered converters.
	All() []Converter
}

// ArtifactFetcher retrieves linked evidence blobs. Implementations return
// the decoded artifact bytes and fail on any non-success response.
type ArtifactFetcher interface {
	FetchArtifact(ctx context.Context, url string) ([]byte, error)
}

// ReportWriter serializes a report to its interchange format.
type ReportWriter interface {
	// Encode renders the complete document.
	Encode(r *report.Report) ([]byte, error)

	// WriteFile renders the document and writes it to path in one step.
	// On failure path is left untouched.
	WriteFile(r *report.Report, path string) error
}
