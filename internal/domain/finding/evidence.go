package finding

import (
	"encoding/base64"
	"strconv"
)

// Variant is one captured request/response exchange backing a finding.
// Either side may be absent when its artifact could not be retrieved.
type Variant struct {
	Request  *Request
	Response *Response
}

// IsEmpty returns true if neither side of the exchange is present.
func (v Variant) IsEmpty() bool { return v.Request == nil && v.Response == nil }

// Request is the request half of a variant.
type Request struct {
	Method  string
	Path    string
	Query   string
	Headers string
	Body    *Body
}

// Response is the response half of a variant.
type Response struct {
	Code    string
	Headers string
	Body    *Body
}

// Body is a base64 encoded message body. Length is the size of the encoded
// content; OriginalLength is the size of the raw bytes before encoding.
type Body struct {
	Content        string
	Length         int
	OriginalLength int
	Truncated      bool
}

// NewBody encodes raw as standard base64 and records both lengths.
func NewBody(raw []byte) *Body {
	encoded := base64.StdEncoding.EncodeToString(raw)
	return &Body{
		Content:        encoded,
		Length:         len(encoded),
		OriginalLength: len(raw),
	}
}

// Decode returns the raw body bytes.
func (b *Body) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(b.Content)
}

// LengthAttr returns Length formatted for the XML attribute.
func (b *Body) LengthAttr() string { return strconv.Itoa(b.Length) }

// OriginalLengthAttr returns OriginalLength formatted for the XML attribute.
func (b *Body) OriginalLengthAttr() string { return strconv.Itoa(b.OriginalLength) }
