package polaris

import (
	"context"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// Converter implements ports.Converter for Polaris DAST exports.
type Converter struct {
	parser    *Parser
	extractor *EvidenceExtractor
	now       func() time.Time
}

// NewConverter creates a converter resolving evidence through extractor.
func NewConverter(extractor *EvidenceExtractor) *Converter {
	if extractor == nil {
		extractor = NewEvidenceExtractor(nil)
	}
	return &Converter{
		parser:    NewParser(),
		extractor: extractor,
		now:       time.Now,
	}
}

// ID returns the source identifier.
func (c *Converter) ID() ports.SourceID {
	return ports.SourcePolarisDAST
}

// Convert translates an issues export into an SRM report dated with the
// run date.
func (c *Converter) Convert(ctx context.Context, data []byte, opts ports.ConvertOptions) (*ports.Conversion, error) {
	issues, err := c.parser.Parse(data)
	if err != nil {
		return nil, err
	}

	normalizer := NewNormalizerWithToolName(opts.ToolName)
	var diags report.Diagnostics

	recs := make([]Record, len(issues))
	locs := make([]finding.Location, len(issues))
	for i, issue := range issues {
		rec, errs := NewRecord(i, issue)
		for _, e := range errs {
			diags.Add(e)
		}
		loc, err := normalizer.Location(rec)
		diags.Add(err)
		recs[i], locs[i] = rec, loc
	}

	variants, fetchDiags := c.extractor.Extract(ctx, recs, locs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runDate := opts.RunDate
	if runDate.IsZero() {
		runDate = c.now()
	}

	r := report.NewReport(report.FormatDate(runDate), normalizer.ToolName())
	var methods finding.DetectionMethods
	for i, rec := range recs {
		f, errs := normalizer.Normalize(rec, locs[i].WithVariants(variants[i]))
		for _, e := range errs {
			diags.Add(e)
		}
		r.AddFinding(f)
		methods.Add(f.Type())
	}
	diags.Merge(fetchDiags)

	return &ports.Conversion{
		Source:           c.ID(),
		Report:           r,
		DetectionMethods: methods.Values(),
		Diagnostics:      diags,
	}, nil
}

var _ ports.Converter = (*Converter)(nil)
