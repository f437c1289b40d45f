// Package tort converts TORT MAST JSON exports to SRM reports.
package tort

import (
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources/loader"
	"github.com/felixgeelhaar/srmbridge/pkg/jsonutil"
)

// FindingsPath is the JSON key holding the findings of an export.
const FindingsPath = "findings"

// Export is a decoded TORT export.
type Export struct {
	GeneratedBy string
	Metadata    Metadata
	Findings    []Issue
}

// Metadata describes the assessment that produced the export.
type Metadata struct {
	EndDate         jsonutil.FlexString `json:"endDate"`
	TestType        jsonutil.FlexString `json:"testType"`
	VersionNumber   jsonutil.FlexString `json:"versionNumber"`
	ApplicationType jsonutil.FlexString `json:"applicationType"`
	PackageName     jsonutil.FlexString `json:"packageName"`
}

// Issue is one TORT finding. Fields not used for SRM output are not decoded.
type Issue struct {
	Identifier            jsonutil.FlexString `json:"identifier"`
	Name                  jsonutil.FlexString `json:"name"`
	Note                  jsonutil.FlexString `json:"note"`
	Risk                  *Risk               `json:"risk"`
	Description           jsonutil.FlexString `json:"description"`
	Remediation           jsonutil.FlexString `json:"remediation"`
	StepsToReproduce      jsonutil.FlexString `json:"stepsToReproduce"`
	FoundBy               jsonutil.FlexString `json:"foundBy"`
	CWEID                 jsonutil.FlexString `json:"cweId"`
	FixLocation           jsonutil.FlexString `json:"fixLocation"`
	Systemic              jsonutil.FlexString `json:"systemic"`
	LikelihoodDescription jsonutil.FlexString `json:"likelihoodDescription"`
	ImpactDescription     jsonutil.FlexString `json:"impactDescription"`
	PCIDetails            jsonutil.FlexString `json:"pciDetails"`
	PCIID                 jsonutil.FlexString `json:"pciId"`
	PCIDesc               jsonutil.FlexString `json:"pciDesc"`
	FlawCount             jsonutil.FlexString `json:"flawCount"`
	Instances             []Instance          `json:"instances"`
}

// Risk is the risk rating of an issue. A nil field was absent or null in
// the export.
type Risk struct {
	Type           *jsonutil.FlexString `json:"type"`
	Severity       *jsonutil.FlexString `json:"severity"`
	Impact         *jsonutil.FlexString `json:"impact"`
	Likelihood     *jsonutil.FlexString `json:"likelihood"`
	Classification *jsonutil.FlexString `json:"classification"`
	Priority       *jsonutil.FlexString `json:"priority"`
}

// Instance is one occurrence of an issue.
type Instance struct {
	URL jsonutil.FlexString `json:"url"`
}

// Parser loads TORT exports.
type Parser struct{}

// NewParser creates a new TORT parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes an export. Shape problems, including a metadata or
// generatedBy field of the wrong type, are returned as
// *report.MalformedInputError.
func (p *Parser) Parse(data []byte) (*Export, error) {
	doc, err := loader.Load(data, FindingsPath)
	if err != nil {
		return nil, err
	}

	exp := &Export{}

	var generatedBy jsonutil.FlexString
	if _, err := doc.Field("generatedBy", &generatedBy); err != nil {
		return nil, &report.MalformedInputError{Source: "generatedBy", Reason: "wrong type", Err: err}
	}
	exp.GeneratedBy = generatedBy.String()

	if _, err := doc.Field("metadata", &exp.Metadata); err != nil {
		return nil, &report.MalformedInputError{Source: "metadata", Reason: "wrong type", Err: err}
	}

	exp.Findings = make([]Issue, doc.Len())
	for i := range exp.Findings {
		if err := doc.Record(i, &exp.Findings[i]); err != nil {
			return nil, err
		}
	}
	return exp, nil
}
