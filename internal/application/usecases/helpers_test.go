package usecases

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// mockRegistry implements ports.ConverterRegistry
type mockRegistry struct {
	converters map[ports.SourceID]ports.Converter
}

func newMockRegistry(converters ...ports.Converter) *mockRegistry {
	r := &mockRegistry{converters: make(map[ports.SourceID]ports.Converter)}
	for _, c := range converters {
		r.Register(c)
	}
	return r
}

func (r *mockRegistry) Register(c ports.Converter) { r.converters[c.ID()] = c }

func (r *mockRegistry) Get(id ports.SourceID) (ports.Converter, bool) {
	c, ok := r.converters[id]
	return c, ok
}

func (r *mockRegistry) All() []ports.Converter {
	var out []ports.Converter
	for _, c := range r.converters {
		out = append(out, c)
	}
	return out
}

// mockReportWriter implements ports.ReportWriter
type mockReportWriter struct {
	err     error
	written []*report.Report
}

func (w *mockReportWriter) Encode(r *report.Report) ([]byte, error) {
	return []byte("<report date=\"" + r.Date() + "\"></report>\n"), nil
}

func (w *mockReportWriter) WriteFile(r *report.Report, path string) error {
	if w.err != nil {
		return w.err
	}
	data, _ := w.Encode(r)
	w.written = append(w.written, r)
	return os.WriteFile(path, data, 0o600)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// conversionWith builds an empty conversion with the given methods and
// diagnostics.
func conversionWith(source ports.SourceID, methods []string, diags ...error) *ports.Conversion {
	c := &ports.Conversion{
		Source:           source,
		Report:           report.NewReport("2024-03-09", "tool"),
		DetectionMethods: methods,
	}
	for _, d := range diags {
		c.Diagnostics.Add(d)
	}
	return c
}

var (
	_ ports.ConverterRegistry = (*mockRegistry)(nil)
	_ ports.ReportWriter      = (*mockReportWriter)(nil)
)
