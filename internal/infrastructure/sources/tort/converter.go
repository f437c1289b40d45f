package tort

import (
	"context"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// Converter implements ports.Converter for TORT MAST exports.
type Converter struct {
	parser *Parser
	now    func() time.Time
}

// NewConverter creates a new TORT converter.
func NewConverter() *Converter {
	return &Converter{
		parser: NewParser(),
		now:    time.Now,
	}
}

// ID returns the source identifier.
func (c *Converter) ID() ports.SourceID {
	return ports.SourceTortMAST
}

// Convert translates an export into an SRM report. The report is dated with
// the export's end date, or the run date when the export carries none.
// opts.ToolName replaces generatedBy when set.
func (c *Converter) Convert(ctx context.Context, data []byte, opts ports.ConvertOptions) (*ports.Conversion, error) {
	exp, err := c.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	toolName := exp.GeneratedBy
	if opts.ToolName != "" {
		toolName = opts.ToolName
	}
	normalizer := NewNormalizer(toolName, exp.Metadata.PackageName.String())

	date := exp.Metadata.EndDate.String()
	if date == "" {
		runDate := opts.RunDate
		if runDate.IsZero() {
			runDate = c.now()
		}
		date = report.FormatDate(runDate)
	}

	r := report.NewReport(date, normalizer.ToolName())
	var methods finding.DetectionMethods
	for _, issue := range exp.Findings {
		f := normalizer.Normalize(issue)
		r.AddFinding(f)
		methods.Add(f.Type())
	}

	return &ports.Conversion{
		Source:           c.ID(),
		Report:           r,
		DetectionMethods: methods.Values(),
	}, nil
}

var _ ports.Converter = (*Converter)(nil)
