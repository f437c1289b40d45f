package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBody(t *testing.T) {
	body := NewBody([]byte("' OR 1=1--"))

	assert.Equal(t, "JyBPUiAxPTEtLQ==", body.Content)
	assert.Equal(t, 10, body.OriginalLength)
	assert.Equal(t, 16, body.Length)
	assert.False(t, body.Truncated)
	assert.Equal(t, "16", body.LengthAttr())
	assert.Equal(t, "10", body.OriginalLengthAttr())

	raw, err := body.Decode()
	require.NoError(t, err)
	assert.Equal(t, "' OR 1=1--", string(raw))
}

func TestNewBody_Empty(t *testing.T) {
	body := NewBody(nil)

	assert.Empty(t, body.Content)
	assert.Zero(t, body.Length)
	assert.Zero(t, body.OriginalLength)
}

func TestNewBody_MultiByteLengthsAreBytes(t *testing.T) {
	body := NewBody([]byte("héllo"))

	assert.Equal(t, 6, body.OriginalLength)
	assert.Equal(t, 8, body.Length)
}

func TestVariant_IsEmpty(t *testing.T) {
	assert.True(t, Variant{}.IsEmpty())
	assert.False(t, Variant{Response: &Response{Code: "200"}}.IsEmpty())
}
