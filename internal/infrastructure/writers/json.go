package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/redact"
)

// JSONWriter writes progress and results as JSON lines, for CI consumers.
type JSONWriter struct {
	out      io.Writer
	pretty   bool
	redactor *redact.Redactor
	now      func() time.Time
}

// JSONOption configures the JSON writer.
type JSONOption func(*JSONWriter)

// WithJSONOutput sets the output writer.
func WithJSONOutput(out io.Writer) JSONOption {
	return func(w *JSONWriter) {
		w.out = out
	}
}

// WithPrettyPrint enables pretty-printed JSON.
func WithPrettyPrint(enabled bool) JSONOption {
	return func(w *JSONWriter) {
		w.pretty = enabled
	}
}

// WithJSONRedactor sets the redactor applied to messages.
func WithJSONRedactor(r *redact.Redactor) JSONOption {
	return func(w *JSONWriter) {
		if r != nil {
			w.redactor = r
		}
	}
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(opts ...JSONOption) *JSONWriter {
	w := &JSONWriter{
		out:      os.Stdout,
		pretty:   false,
		redactor: redact.New(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteProgress writes a progress message.
func (w *JSONWriter) WriteProgress(message string) error {
	return w.writeJSON(w.event("progress", message))
}

// WriteDiagnostic writes a non-fatal problem.
func (w *JSONWriter) WriteDiagnostic(err error) error {
	return w.writeJSON(w.event("diagnostic", err.Error()))
}

// WriteError writes an error message.
func (w *JSONWriter) WriteError(err error) error {
	return w.writeJSON(w.event("error", err.Error()))
}

// WriteSummary writes the conversion outcome.
func (w *JSONWriter) WriteSummary(c *ports.Conversion, outputPath string) error {
	if c == nil || c.Report == nil {
		return nil
	}

	summary := c.Report.Summary()
	bySeverity := make(map[string]int, len(summary))
	for sev, n := range summary {
		bySeverity[sev.String()] = n
	}

	diags := c.Diagnostics.Strings()
	for i, d := range diags {
		diags[i] = w.redactor.RedactString(d)
	}

	return w.writeJSON(JSONSummary{
		Type:             "summary",
		Source:           c.Source.String(),
		Tool:             c.Report.Tool(),
		Date:             c.Report.Date(),
		Output:           outputPath,
		TotalCount:       c.Report.FindingCount(),
		BySeverity:       bySeverity,
		DetectionMethods: c.DetectionMethods,
		Diagnostics:      diags,
		FetchFailures:    len(c.Diagnostics.FetchFailures()),
	})
}

// Flush ensures all output is written.
func (w *JSONWriter) Flush() error {
	return nil
}

func (w *JSONWriter) event(kind, message string) JSONEvent {
	return JSONEvent{
		Type:      kind,
		Message:   w.redactor.RedactString(message),
		Timestamp: w.now().UTC(),
	}
}

// writeJSON writes a value as JSON.
func (w *JSONWriter) writeJSON(v interface{}) error {
	var data []byte
	var err error

	if w.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// JSONEvent is a progress, diagnostic or error line.
type JSONEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// JSONSummary is the outcome of one conversion.
type JSONSummary struct {
	Type             string         `json:"type"`
	Source           string         `json:"source"`
	Tool             string         `json:"tool"`
	Date             string         `json:"date"`
	Output           string         `json:"output,omitempty"`
	TotalCount       int            `json:"total_findings"`
	BySeverity       map[string]int `json:"by_severity"`
	DetectionMethods []string       `json:"detection_methods,omitempty"`
	Diagnostics      []string       `json:"diagnostics,omitempty"`
	FetchFailures    int            `json:"fetch_failures"`
}

// Ensure JSONWriter implements the interface.
var _ ports.ProgressWriter = (*JSONWriter)(nil)
