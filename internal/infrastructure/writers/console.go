package writers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/pkg/redact"
)

// ConsoleWriter writes human-readable output to the console.
type ConsoleWriter struct {
	out       io.Writer
	err       io.Writer
	color     bool
	verbosity ports.Verbosity
	redactor  *redact.Redactor

	// Color functions
	red    func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	blue   func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	bold   func(a ...interface{}) string
	dim    func(a ...interface{}) string
}

// NewConsoleWriter creates a new console writer.
func NewConsoleWriter(opts ...ConsoleOption) *ConsoleWriter {
	w := &ConsoleWriter{
		out:       os.Stdout,
		err:       os.Stderr,
		color:     true,
		verbosity: ports.VerbosityNormal,
		redactor:  redact.New(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.initColors()
	return w
}

// ConsoleOption configures the console writer.
type ConsoleOption func(*ConsoleWriter)

// WithOutput sets the output writer.
func WithOutput(out io.Writer) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.out = out
	}
}

// WithErrorOutput sets the error output writer.
func WithErrorOutput(err io.Writer) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.err = err
	}
}

// WithColor enables or disables colored output.
func WithColor(enabled bool) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.color = enabled
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v ports.Verbosity) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.verbosity = v
	}
}

// WithRedactor sets the redactor applied to every message.
func WithRedactor(r *redact.Redactor) ConsoleOption {
	return func(w *ConsoleWriter) {
		if r != nil {
			w.redactor = r
		}
	}
}

// initColors initializes color functions based on color setting.
func (w *ConsoleWriter) initColors() {
	if w.color {
		w.red = color.New(color.FgRed).SprintFunc()
		w.green = color.New(color.FgGreen).SprintFunc()
		w.yellow = color.New(color.FgYellow).SprintFunc()
		w.blue = color.New(color.FgBlue).SprintFunc()
		w.cyan = color.New(color.FgCyan).SprintFunc()
		w.bold = color.New(color.Bold).SprintFunc()
		w.dim = color.New(color.Faint).SprintFunc()
	} else {
		noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
		w.red = noColor
		w.green = noColor
		w.yellow = noColor
		w.blue = noColor
		w.cyan = noColor
		w.bold = noColor
		w.dim = noColor
	}
}

// SetColor enables or disables colored output.
func (w *ConsoleWriter) SetColor(enabled bool) {
	w.color = enabled
	w.initColors()
}

// SetVerbosity sets the output detail level.
func (w *ConsoleWriter) SetVerbosity(v ports.Verbosity) {
	w.verbosity = v
}

// WriteProgress writes a progress message.
func (w *ConsoleWriter) WriteProgress(message string) error {
	if w.verbosity == ports.VerbosityQuiet {
		return nil
	}

	fmt.Fprintf(w.out, "%s %s\n", w.dim(">>>"), w.redactor.RedactString(message))
	return nil
}

// WriteDiagnostic writes a non-fatal problem. Diagnostics are shown from
// verbose level up; WriteSummary reports their count otherwise.
func (w *ConsoleWriter) WriteDiagnostic(err error) error {
	if !w.detailed() {
		return nil
	}

	fmt.Fprintf(w.err, "%s %s\n", w.yellow("WARN:"), w.redactor.RedactString(err.Error()))
	return nil
}

// WriteError writes an error message.
func (w *ConsoleWriter) WriteError(err error) error {
	fmt.Fprintf(w.err, "%s %s\n", w.red("ERROR:"), w.redactor.RedactString(err.Error()))
	return nil
}

// WriteSummary writes the outcome of a conversion.
func (w *ConsoleWriter) WriteSummary(c *ports.Conversion, outputPath string) error {
	if c == nil || c.Report == nil {
		return nil
	}

	r := c.Report
	fmt.Fprintln(w.out)
	fmt.Fprintf(w.out, "%s\n", w.bold("SRM Conversion"))
	fmt.Fprintf(w.out, "%s\n", strings.Repeat("=", 40))
	fmt.Fprintf(w.out, "Source: %s\n", w.cyan(c.Source.String()))
	fmt.Fprintf(w.out, "Tool: %s\n", r.Tool())
	fmt.Fprintf(w.out, "Date: %s\n", r.Date())
	if outputPath != "" {
		fmt.Fprintf(w.out, "Output: %s\n", outputPath)
	}
	fmt.Fprintln(w.out)

	fmt.Fprintf(w.out, "Total Findings: %d\n", r.FindingCount())
	if r.FindingCount() > 0 && w.verbosity != ports.VerbosityQuiet {
		summary := r.Summary()
		for _, sev := range summaryOrder {
			if n := summary[sev]; n > 0 {
				fmt.Fprintf(w.out, "  %s: %d\n", w.severityString(sev), n)
			}
		}
	}

	if len(c.DetectionMethods) > 0 && w.detailed() {
		fmt.Fprintf(w.out, "Detection Methods: %s\n", strings.Join(c.DetectionMethods, ", "))
	}

	if w.verbosity == ports.VerbosityDebug {
		for _, f := range r.Findings() {
			w.writeFinding(f)
		}
	}

	fmt.Fprintf(w.out, "%s\n", strings.Repeat("=", 40))
	if c.Diagnostics.Empty() {
		fmt.Fprintf(w.out, "Result: %s\n", w.green("OK"))
	} else {
		fmt.Fprintf(w.out, "Result: %s (%d diagnostics, %d unavailable artifacts)\n",
			w.yellow("DEGRADED"), c.Diagnostics.Len(), len(c.Diagnostics.FetchFailures()))
	}
	fmt.Fprintln(w.out)
	return nil
}

// Flush ensures all output is written.
func (w *ConsoleWriter) Flush() error {
	return nil
}

func (w *ConsoleWriter) detailed() bool {
	return w.verbosity == ports.VerbosityVerbose || w.verbosity == ports.VerbosityDebug
}

// writeFinding writes a single finding.
func (w *ConsoleWriter) writeFinding(f *finding.Finding) {
	tool := f.Tool()
	fmt.Fprintf(w.out, "\n%s %s\n", w.severityString(f.Severity()), w.bold(tool.Code))

	loc := f.Location()
	fmt.Fprintf(w.out, "  %s %s [%s]\n", w.dim("Location:"), loc.Path(), loc.Type())
	if nid := f.NativeID(); !nid.IsZero() {
		fmt.Fprintf(w.out, "  %s %s=%s\n", w.dim("Native ID:"), nid.Name, nid.Value)
	}
	if f.HasCWE() {
		fmt.Fprintf(w.out, "  %s %s\n", w.dim("CWE:"), strings.Join(f.CWEs(), ", "))
	}
	if loc.HasVariants() {
		fmt.Fprintf(w.out, "  %s %d\n", w.dim("Variants:"), len(loc.Variants()))
	}
}

var summaryOrder = []finding.Severity{
	finding.SeverityCritical,
	finding.SeverityHigh,
	finding.SeverityMedium,
	finding.SeverityLow,
	finding.SeverityInfo,
	finding.SeverityUnspecified,
}

// severityString returns a colored severity string.
func (w *ConsoleWriter) severityString(sev finding.Severity) string {
	label := "[" + strings.ToUpper(sev.String()) + "]"
	switch sev {
	case finding.SeverityCritical, finding.SeverityHigh:
		return w.red(label)
	case finding.SeverityMedium:
		return w.yellow(label)
	case finding.SeverityLow:
		return w.blue(label)
	default:
		return w.dim(label)
	}
}

// Ensure ConsoleWriter implements the interface.
var _ ports.ConsoleWriter = (*ConsoleWriter)(nil)
