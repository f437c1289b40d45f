package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockWriter is a test implementation of ProgressWriter
type mockWriter struct {
	progress    []string
	diagnostics []error
	errors      []error
	summaries   []string
	flushed     bool
	shouldFail  bool
}

func (m *mockWriter) fail() error {
	if m.shouldFail {
		return errors.New("write failed")
	}
	return nil
}

func (m *mockWriter) WriteProgress(message string) error {
	m.progress = append(m.progress, message)
	return m.fail()
}

func (m *mockWriter) WriteDiagnostic(err error) error {
	m.diagnostics = append(m.diagnostics, err)
	return m.fail()
}

func (m *mockWriter) WriteError(err error) error {
	m.errors = append(m.errors, err)
	return m.fail()
}

func (m *mockWriter) WriteSummary(_ *Conversion, outputPath string) error {
	m.summaries = append(m.summaries, outputPath)
	return m.fail()
}

func (m *mockWriter) Flush() error {
	m.flushed = true
	return m.fail()
}

func TestMultiWriter_FansOut(t *testing.T) {
	a, b := &mockWriter{}, &mockWriter{}
	mw := NewMultiWriter(a, b)

	assert.NoError(t, mw.WriteProgress("converting"))
	assert.NoError(t, mw.WriteDiagnostic(errors.New("cwe")))
	assert.NoError(t, mw.WriteError(errors.New("boom")))
	assert.NoError(t, mw.WriteSummary(&Conversion{}, "out.xml"))
	assert.NoError(t, mw.Flush())

	for _, w := range []*mockWriter{a, b} {
		assert.Equal(t, []string{"converting"}, w.progress)
		assert.Len(t, w.diagnostics, 1)
		assert.Len(t, w.errors, 1)
		assert.Equal(t, []string{"out.xml"}, w.summaries)
		assert.True(t, w.flushed)
	}
}

func TestMultiWriter_StopsAtFirstFailure(t *testing.T) {
	failing := &mockWriter{shouldFail: true}
	next := &mockWriter{}
	mw := NewMultiWriter(failing, next)

	err := mw.WriteProgress("x")

	assert.Error(t, err)
	assert.Empty(t, next.progress)
}

func TestMultiWriter_Empty(t *testing.T) {
	assert.NoError(t, NewMultiWriter().Flush())
}

func TestConversion_FindingCount(t *testing.T) {
	var nilConv *Conversion
	assert.Zero(t, nilConv.FindingCount())
	assert.Zero(t, (&Conversion{}).FindingCount())
}

func TestBranchSelection_IsNew(t *testing.T) {
	assert.False(t, BranchSelection{Name: "main"}.IsNew())
	assert.True(t, BranchSelection{Name: "feature", Parent: "main"}.IsNew())
}
