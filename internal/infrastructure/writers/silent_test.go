package writers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSilentWriter(t *testing.T) {
	w := NewSilentWriter()
	assert.NotNil(t, w)
}

func TestSilentWriter_DiscardsEverything(t *testing.T) {
	w := NewSilentWriter()

	assert.NoError(t, w.WriteProgress("Converting..."))
	assert.NoError(t, w.WriteDiagnostic(errors.New("diag")))
	assert.NoError(t, w.WriteError(errors.New("test error")))
	assert.NoError(t, w.WriteSummary(createTestConversion(), "out.xml"))
	assert.NoError(t, w.Flush())
}
