// Package polaris converts Polaris DAST issue exports to SRM reports.
package polaris

import (
	"encoding/json"

	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources/loader"
	"github.com/felixgeelhaar/srmbridge/pkg/jsonutil"
)

// FindingsPath is the JSON key holding the issues of an export.
const FindingsPath = "_items"

// Issue is one entry of the specialization-layer issues list.
type Issue struct {
	ID         jsonutil.FlexString `json:"id"`
	Type       IssueType           `json:"type"`
	Attributes []Attribute         `json:"attributes"`
}

// IssueType describes the check that raised the issue.
type IssueType struct {
	Name      jsonutil.FlexString `json:"name"`
	Localized Localized           `json:"_localized"`
}

// Localized carries the human readable name and narrative details.
type Localized struct {
	Name        jsonutil.FlexString `json:"name"`
	OtherDetail []Detail            `json:"otherDetail"`
}

// Detail is one key/value entry of otherDetail.
type Detail struct {
	Key   string              `json:"key"`
	Value jsonutil.FlexString `json:"value"`
}

// Attribute is one key/value entry of the attribute bag. Values are kept
// raw since their type depends on the key.
type Attribute struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Parser loads Polaris issue exports.
type Parser struct{}

// NewParser creates a new Polaris parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the issues of an export in source order.
// Shape problems are returned as *report.MalformedInputError.
func (p *Parser) Parse(data []byte) ([]Issue, error) {
	doc, err := loader.Load(data, FindingsPath)
	if err != nil {
		return nil, err
	}

	issues := make([]Issue, doc.Len())
	for i := range issues {
		if err := doc.Record(i, &issues[i]); err != nil {
			return nil, err
		}
	}
	return issues, nil
}
