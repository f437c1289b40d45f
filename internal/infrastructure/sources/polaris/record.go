package polaris

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
	"github.com/felixgeelhaar/srmbridge/pkg/jsonutil"
)

// Record is an issue with its detail and attribute bags mapped onto named
// fields. Absent fields are empty.
type Record struct {
	Index int

	ID   string
	Code string
	Name string

	Description    string
	Remediation    string
	AdditionalInfo string

	Severity     string
	CWE          string
	Method       string
	Location     string
	AttackScope  string
	AttackTarget string
	OverallScore string
	Version      string
	Scores       string

	Evidence []Evidence
}

// Evidence is one captured attack with links to its raw request and response.
type Evidence struct {
	Payload string
	Links   []Link
}

// Link relations carrying evidence artifacts.
const (
	RelRequest  = "request"
	RelResponse = "response"
)

// Link references an evidence artifact.
type Link struct {
	Rel    string
	Method string
	Href   string
}

type evidenceJSON struct {
	Attack struct {
		Payload jsonutil.FlexString `json:"payload"`
	} `json:"attack"`
	Links []struct {
		Rel    jsonutil.FlexString `json:"rel"`
		Method jsonutil.FlexString `json:"method"`
		Href   jsonutil.FlexString `json:"href"`
	} `json:"_links"`
}

// NewRecord maps an issue onto a Record in a single pass. Attribute values
// that cannot be decoded are left empty and reported as
// *report.FieldExtractionError. When a key repeats, the last value wins.
func NewRecord(index int, issue Issue) (Record, []error) {
	rec := Record{
		Index: index,
		ID:    issue.ID.String(),
		Code:  issue.Type.Name.String(),
		Name:  issue.Type.Localized.Name.String(),
	}

	for _, d := range issue.Type.Localized.OtherDetail {
		switch d.Key {
		case "description":
			rec.Description = d.Value.String()
		case "remediation":
			rec.Remediation = d.Value.String()
		case "additional-information":
			rec.AdditionalInfo = d.Value.String()
		}
	}

	var errs []error
	text := func(attr Attribute, dst *string) {
		s, err := decodeText(attr.Value)
		if err != nil {
			errs = append(errs, &report.FieldExtractionError{Record: index, Field: attr.Key, Err: err})
			return
		}
		*dst = s
	}

	for _, attr := range issue.Attributes {
		switch attr.Key {
		case "severity":
			text(attr, &rec.Severity)
		case "cwe":
			text(attr, &rec.CWE)
		case "method":
			text(attr, &rec.Method)
		case "location":
			text(attr, &rec.Location)
		case "attack-scope":
			text(attr, &rec.AttackScope)
		case "attack-target":
			text(attr, &rec.AttackTarget)
		case "overall-score":
			text(attr, &rec.OverallScore)
		case "version":
			text(attr, &rec.Version)
		case "scores":
			text(attr, &rec.Scores)
		case "evidence":
			evidence, err := decodeEvidence(attr.Value)
			if err != nil {
				errs = append(errs, &report.FieldExtractionError{Record: index, Field: attr.Key, Err: err})
				rec.Evidence = nil
				continue
			}
			rec.Evidence = evidence
		}
	}

	return rec, errs
}

func decodeText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s jsonutil.FlexString
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s.String(), nil
}

func decodeEvidence(raw json.RawMessage) ([]Evidence, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []evidenceJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode evidence: %w", err)
	}

	out := make([]Evidence, 0, len(entries))
	for _, e := range entries {
		ev := Evidence{Payload: e.Attack.Payload.String()}
		for _, l := range e.Links {
			ev.Links = append(ev.Links, Link{
				Rel:    l.Rel.String(),
				Method: l.Method.String(),
				Href:   l.Href.String(),
			})
		}
		out = append(out, ev)
	}
	return out, nil
}
