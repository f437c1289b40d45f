package writers

import "github.com/felixgeelhaar/srmbridge/internal/application/ports"

// SilentWriter discards all output, useful for programmatic contexts like MCP.
type SilentWriter struct{}

// NewSilentWriter creates a new silent writer.
func NewSilentWriter() *SilentWriter {
	return &SilentWriter{}
}

// WriteProgress discards progress messages.
func (w *SilentWriter) WriteProgress(message string) error {
	return nil
}

// WriteDiagnostic discards diagnostics.
func (w *SilentWriter) WriteDiagnostic(err error) error {
	return nil
}

// WriteError discards error messages.
func (w *SilentWriter) WriteError(err error) error {
	return nil
}

// WriteSummary discards the summary output.
func (w *SilentWriter) WriteSummary(c *ports.Conversion, outputPath string) error {
	return nil
}

// Flush is a no-op for SilentWriter.
func (w *SilentWriter) Flush() error {
	return nil
}

var _ ports.ProgressWriter = (*SilentWriter)(nil)
