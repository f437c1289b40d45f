package ports

// ProgressWriter reports the progress and outcome of a run to the operator.
type ProgressWriter interface {
	// WriteProgress writes progress updates.
	WriteProgress(message string) error

	// WriteDiagnostic writes a non-fatal conversion problem.
	WriteDiagnostic(err error) error

	// WriteError writes error messages.
	WriteError(err error) error

	// WriteSummary writes the outcome of a conversion.
	WriteSummary(c *Conversion, outputPath string) error

	// Flush ensures all output is written.
	Flush() error
}

// ConsoleWriter writes to a terminal with optional colors.
type ConsoleWriter interface {
	ProgressWriter

	// SetColor enables or disables colored output.
	SetColor(enabled bool)

	// SetVerbosity sets the output detail level.
	SetVerbosity(v Verbosity)
}

// MultiWriter writes to multiple destinations.
type MultiWriter struct {
	writers []ProgressWriter
}

// NewMultiWriter creates a writer that writes to all provided writers.
func NewMultiWriter(writers ...ProgressWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteProgress writes to all writers.
func (m *MultiWriter) WriteProgress(message string) error {
	return m.each(func(w ProgressWriter) error { return w.WriteProgress(message) })
}

// WriteDiagnostic writes to all writers.
func (m *MultiWriter) WriteDiagnostic(err error) error {
	return m.each(func(w ProgressWriter) error { return w.WriteDiagnostic(err) })
}

// WriteError writes to all writers.
func (m *MultiWriter) WriteError(err error) error {
	return m.each(func(w ProgressWriter) error { return w.WriteError(err) })
}

// WriteSummary writes to all writers.
func (m *MultiWriter) WriteSummary(c *Conversion, outputPath string) error {
	return m.each(func(w ProgressWriter) error { return w.WriteSummary(c, outputPath) })
}

// Flush flushes all writers.
func (m *MultiWriter) Flush() error {
	return m.each(func(w ProgressWriter) error { return w.Flush() })
}

// each stops at the first failing writer.
func (m *MultiWriter) each(fn func(ProgressWriter) error) error {
	for _, w := range m.writers {
		if err := fn(w); err != nil {
			return err
		}
	}
	return nil
}
