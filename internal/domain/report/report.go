package report

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
)

// DateLayout is the layout of the report date attribute.
const DateLayout = "2006-01-02"

// Report is the aggregate root of one conversion: the SRM findings document.
// It is built in memory and serialized once.
type Report struct {
	date     string
	tool     string
	findings []*finding.Finding
}

// NewReport creates an empty report. date is written verbatim; use
// FormatDate for run dates.
func NewReport(date, tool string) *Report {
	return &Report{
		date:     date,
		tool:     tool,
		findings: make([]*finding.Finding, 0),
	}
}

// FormatDate renders t in the report date layout.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// Date returns the report date attribute.
func (r *Report) Date() string { return r.date }

// Tool returns the report tool attribute.
func (r *Report) Tool() string { return r.tool }

// Findings returns the findings in input order.
func (r *Report) Findings() []*finding.Finding { return r.findings }

// AddFinding appends a finding.
func (r *Report) AddFinding(f *finding.Finding) {
	r.findings = append(r.findings, f)
}

// FindingCount returns the total number of findings.
func (r *Report) FindingCount() int { return len(r.findings) }

// Summary returns counts by severity.
func (r *Report) Summary() map[finding.Severity]int {
	summary := make(map[finding.Severity]int)
	for _, f := range r.findings {
		summary[f.Severity()]++
	}
	return summary
}

// reportJSON is the JSON summary of a report.
type reportJSON struct {
	Date     string                   `json:"date"`
	Tool     string                   `json:"tool"`
	Count    int                      `json:"count"`
	Summary  map[finding.Severity]int `json:"summary"`
	Findings []*finding.Finding       `json:"findings"`
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		Date:     r.date,
		Tool:     r.tool,
		Count:    len(r.findings),
		Summary:  r.Summary(),
		Findings: r.findings,
	})
}
