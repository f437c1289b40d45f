package writers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
	"github.com/felixgeelhaar/srmbridge/pkg/pathutil"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// SRMXMLWriter renders reports in the SRM findings import format.
type SRMXMLWriter struct {
	indent string
	perm   os.FileMode
}

// SRMXMLOption configures the SRM XML writer.
type SRMXMLOption func(*SRMXMLWriter)

// WithIndent sets the indentation used per nesting level.
func WithIndent(indent string) SRMXMLOption {
	return func(w *SRMXMLWriter) {
		w.indent = indent
	}
}

// WithFileMode sets the permissions of written files.
func WithFileMode(perm os.FileMode) SRMXMLOption {
	return func(w *SRMXMLWriter) {
		w.perm = perm
	}
}

// NewSRMXMLWriter creates a new SRM XML writer.
func NewSRMXMLWriter(opts ...SRMXMLOption) *SRMXMLWriter {
	w := &SRMXMLWriter{
		indent: "\t",
		perm:   0o644,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Encode renders the complete document, declaration included.
func (w *SRMXMLWriter) Encode(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, &report.SerializationError{Err: fmt.Errorf("nil report")}
	}

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", w.indent)
	if err := enc.Encode(buildXMLReport(r)); err != nil {
		return nil, &report.SerializationError{Err: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &report.SerializationError{Err: err}
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// WriteFile renders the report and replaces path with it in one step.
// Nothing is written when encoding fails.
func (w *SRMXMLWriter) WriteFile(r *report.Report, path string) error {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return &report.SerializationError{Path: path, Err: fmt.Errorf("invalid output path: %w", err)}
	}

	data, err := w.Encode(r)
	if err != nil {
		return err
	}

	if err := pathutil.WriteFileAtomic(cleanPath, data, w.perm); err != nil {
		return &report.SerializationError{Path: cleanPath, Err: err}
	}
	return nil
}

// XML document structures

type xmlReport struct {
	XMLName  xml.Name    `xml:"report"`
	Date     string      `xml:"date,attr"`
	Tool     string      `xml:"tool,attr"`
	Findings xmlFindings `xml:"findings"`
}

type xmlFindings struct {
	Findings []xmlFinding `xml:"finding"`
}

type xmlFinding struct {
	Severity    string         `xml:"severity,attr"`
	Type        string         `xml:"type,attr"`
	Tool        xmlTool        `xml:"tool"`
	CWEs        []xmlCWE       `xml:"cwe"`
	NativeID    *xmlNativeID   `xml:"native-id"`
	Description xmlDescription `xml:"description"`
	Location    xmlLocation    `xml:"location"`
}

type xmlTool struct {
	Name     string `xml:"name,attr"`
	Category string `xml:"category,attr"`
	Code     string `xml:"code,attr"`
}

type xmlCWE struct {
	ID string `xml:"id,attr"`
}

type xmlNativeID struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlDescription struct {
	Format        string `xml:"format,attr"`
	IncludeInHash string `xml:"include_in_hash,attr"`
	Text          string `xml:",chardata"`
}

type xmlLocation struct {
	Type     string       `xml:"type,attr"`
	Path     string       `xml:"path,attr"`
	Variants *xmlVariants `xml:"variants"`
}

type xmlVariants struct {
	Variants []xmlVariant `xml:"variant"`
}

type xmlVariant struct {
	Request  *xmlRequest  `xml:"request"`
	Response *xmlResponse `xml:"response"`
}

type xmlRequest struct {
	Method  string   `xml:"method,attr"`
	Path    string   `xml:"path,attr"`
	Query   string   `xml:"query,attr,omitempty"`
	Headers *xmlText `xml:"headers"`
	Body    *xmlBody `xml:"body"`
}

type xmlResponse struct {
	Code    string   `xml:"code,attr,omitempty"`
	Headers *xmlText `xml:"headers"`
	Body    *xmlBody `xml:"body"`
}

type xmlText struct {
	Text string `xml:",chardata"`
}

type xmlBody struct {
	Truncated      bool   `xml:"truncated,attr"`
	OriginalLength string `xml:"original_length,attr"`
	Length         string `xml:"length,attr"`
	Content        string `xml:",chardata"`
}

func buildXMLReport(r *report.Report) xmlReport {
	out := xmlReport{Date: r.Date(), Tool: r.Tool()}
	for _, f := range r.Findings() {
		out.Findings.Findings = append(out.Findings.Findings, buildXMLFinding(f))
	}
	return out
}

func buildXMLFinding(f *finding.Finding) xmlFinding {
	tool := f.Tool()
	xf := xmlFinding{
		Severity: f.Severity().String(),
		Type:     f.Type(),
		Tool:     xmlTool{Name: tool.Name, Category: tool.Category, Code: tool.Code},
		Description: xmlDescription{
			Format:        "html",
			IncludeInHash: "false",
			Text:          f.Description(),
		},
		Location: buildXMLLocation(f.Location()),
	}

	for _, id := range f.CWEs() {
		xf.CWEs = append(xf.CWEs, xmlCWE{ID: id})
	}

	if nid := f.NativeID(); !nid.IsZero() {
		xf.NativeID = &xmlNativeID{Name: nid.Name, Value: nid.Value}
	}

	return xf
}

func buildXMLLocation(loc finding.Location) xmlLocation {
	xl := xmlLocation{Type: loc.Type().String(), Path: loc.Path()}
	if !loc.HasVariants() {
		return xl
	}

	xl.Variants = &xmlVariants{}
	for _, v := range loc.Variants() {
		var xv xmlVariant
		if req := v.Request; req != nil {
			xv.Request = &xmlRequest{
				Method:  req.Method,
				Path:    req.Path,
				Query:   req.Query,
				Headers: optionalText(req.Headers),
				Body:    buildXMLBody(req.Body),
			}
		}
		if resp := v.Response; resp != nil {
			xv.Response = &xmlResponse{
				Code:    resp.Code,
				Headers: optionalText(resp.Headers),
				Body:    buildXMLBody(resp.Body),
			}
		}
		xl.Variants.Variants = append(xl.Variants.Variants, xv)
	}
	return xl
}

func optionalText(s string) *xmlText {
	if s == "" {
		return nil
	}
	return &xmlText{Text: s}
}

func buildXMLBody(b *finding.Body) *xmlBody {
	if b == nil {
		return nil
	}
	return &xmlBody{
		Truncated:      b.Truncated,
		OriginalLength: b.OriginalLengthAttr(),
		Length:         b.LengthAttr(),
		Content:        b.Content,
	}
}

// Ensure SRMXMLWriter implements the interface.
var _ ports.ReportWriter = (*SRMXMLWriter)(nil)
