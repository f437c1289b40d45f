package polaris

import (
	"fmt"
	"net/url"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// FindingType is the origin tag of every DAST finding.
const FindingType = "dynamic"

// Normalizer converts Polaris records to domain findings.
type Normalizer struct {
	toolName string
}

// NewNormalizer creates a normalizer reporting under the default tool name.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithToolName("")
}

// NewNormalizerWithToolName creates a normalizer reporting under toolName.
// An empty name selects the default.
func NewNormalizerWithToolName(toolName string) *Normalizer {
	if toolName == "" {
		toolName = ports.DefaultDASTToolName
	}
	return &Normalizer{toolName: toolName}
}

// ToolName returns the tool name written to findings and the report.
func (n *Normalizer) ToolName() string { return n.toolName }

// Location resolves the url location of a record. The query string is kept
// apart from the path so evidence requests can reuse both.
func (n *Normalizer) Location(rec Record) (finding.Location, error) {
	if rec.Location == "" {
		return finding.NewURLLocation("", ""), nil
	}
	u, err := url.Parse(rec.Location)
	if err != nil {
		return finding.NewURLLocation("", ""), &report.FieldExtractionError{
			Record: rec.Index,
			Field:  "location",
			Err:    fmt.Errorf("invalid URL: %w", err),
		}
	}
	return finding.NewURLLocation(u.EscapedPath(), u.RawQuery), nil
}

// Normalize converts a record into a finding placed at loc.
// A malformed CWE reference drops the cwe and is reported.
func (n *Normalizer) Normalize(rec Record, loc finding.Location) (*finding.Finding, []error) {
	var errs []error

	opts := []finding.FindingOption{
		finding.WithNativeID(rec.Name, rec.ID),
		finding.WithDescription(n.description(rec)),
	}

	if rec.CWE != "" {
		id, err := finding.ParseCWEReference(rec.CWE)
		if err != nil {
			errs = append(errs, &report.FieldExtractionError{Record: rec.Index, Field: "cwe", Err: err})
		} else {
			opts = append(opts, finding.WithCWEs(id))
		}
	}

	f := finding.NewFinding(
		finding.NormalizeSeverity(rec.Severity),
		FindingType,
		finding.Tool{Name: n.toolName, Category: finding.CategorySecurity, Code: rec.Code},
		loc,
		opts...,
	)
	return f, errs
}

// description places the raw Polaris description first, followed by the
// remediation and scoring blocks that are present.
func (n *Normalizer) description(rec Record) string {
	return finding.NewDescriptionBuilder(finding.WithHeadingBreak()).
		Text(rec.Description).
		Section("Remediation", rec.Remediation).
		Section("Overall Score", rec.OverallScore).
		Section("Scores", rec.Scores).
		String()
}
