package mocks

import (
	"sync"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// MockProgressWriter records everything written to it.
type MockProgressWriter struct {
	mu          sync.Mutex
	Progress    []string
	Diagnostics []error
	Errors      []error
	Summaries   []*ports.Conversion
	Outputs     []string
	Flushed     int
}

// NewMockProgressWriter creates an empty recorder.
func NewMockProgressWriter() *MockProgressWriter {
	return &MockProgressWriter{}
}

// WriteProgress records a progress message.
func (m *MockProgressWriter) WriteProgress(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Progress = append(m.Progress, message)
	return nil
}

// WriteDiagnostic records a diagnostic.
func (m *MockProgressWriter) WriteDiagnostic(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Diagnostics = append(m.Diagnostics, err)
	return nil
}

// WriteError records an error.
func (m *MockProgressWriter) WriteError(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, err)
	return nil
}

// WriteSummary records a summary.
func (m *MockProgressWriter) WriteSummary(c *ports.Conversion, outputPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summaries = append(m.Summaries, c)
	m.Outputs = append(m.Outputs, outputPath)
	return nil
}

// Flush counts flushes.
func (m *MockProgressWriter) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushed++
	return nil
}

var _ ports.ProgressWriter = (*MockProgressWriter)(nil)
