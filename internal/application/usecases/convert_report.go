package usecases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
	"github.com/felixgeelhaar/srmbridge/pkg/pathutil"
)

// DefaultOutputPath is used when no SRM XML output path is given.
const DefaultOutputPath = "srm-output.xml"

// ErrUnknownSource is returned when no converter is registered for a source.
var ErrUnknownSource = errors.New("unknown source")

// ConvertReportInput contains the input for the ConvertReport use case.
type ConvertReportInput struct {
	Source     ports.SourceID
	InputPath  string
	OutputPath string // defaults to DefaultOutputPath
	ToolName   string
	RunDate    time.Time // defaults to now
}

// ConvertReportOutput contains the result of the ConvertReport use case.
type ConvertReportOutput struct {
	Conversion *ports.Conversion
	OutputPath string
}

// ConvertReportUseCase translates one scanner export into an SRM XML file.
type ConvertReportUseCase struct {
	registry ports.ConverterRegistry
	writer   ports.ReportWriter
	progress ports.ProgressWriter
	now      func() time.Time
}

// NewConvertReportUseCase creates a new ConvertReport use case.
// progress may be nil.
func NewConvertReportUseCase(
	registry ports.ConverterRegistry,
	writer ports.ReportWriter,
	progress ports.ProgressWriter,
) *ConvertReportUseCase {
	return &ConvertReportUseCase{
		registry: registry,
		writer:   writer,
		progress: progress,
		now:      time.Now,
	}
}

// Execute reads, converts and writes one export. A fatal conversion error
// leaves no output file behind; non-fatal problems are reported as
// diagnostics and returned in the conversion.
func (uc *ConvertReportUseCase) Execute(ctx context.Context, input ConvertReportInput) (ConvertReportOutput, error) {
	converter, ok := uc.registry.Get(input.Source)
	if !ok {
		return ConvertReportOutput{}, fmt.Errorf("%w: %s", ErrUnknownSource, input.Source)
	}

	outputPath := input.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	cleanPath, err := pathutil.ValidatePath(input.InputPath)
	if err != nil {
		return ConvertReportOutput{}, fmt.Errorf("invalid input path: %w", err)
	}
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return ConvertReportOutput{}, fmt.Errorf("failed to read input file: %w", err)
	}

	uc.writeProgress(fmt.Sprintf("Converting %s (%s)...", filepath.Base(cleanPath), input.Source))

	runDate := input.RunDate
	if runDate.IsZero() {
		runDate = uc.now()
	}

	conv, err := converter.Convert(ctx, data, ports.ConvertOptions{
		RunDate:  runDate,
		ToolName: input.ToolName,
	})
	if err != nil {
		return ConvertReportOutput{}, fmt.Errorf("failed to convert %s: %w", cleanPath, err)
	}

	if uc.progress != nil {
		for _, d := range conv.Diagnostics.Errors() {
			_ = uc.progress.WriteDiagnostic(d)
		}
	}

	if err := uc.writer.WriteFile(conv.Report, outputPath); err != nil {
		return ConvertReportOutput{Conversion: conv}, err
	}

	uc.writeProgress(fmt.Sprintf("Wrote %d finding(s) to %s", conv.FindingCount(), outputPath))

	return ConvertReportOutput{Conversion: conv, OutputPath: outputPath}, nil
}

func (uc *ConvertReportUseCase) writeProgress(msg string) {
	if uc.progress != nil {
		_ = uc.progress.WriteProgress(msg)
	}
}

// DiagnosticSummary describes the diagnostics of a conversion in one line.
func DiagnosticSummary(d report.Diagnostics) string {
	if d.Empty() {
		return "no diagnostics"
	}
	parts := []string{fmt.Sprintf("%d diagnostic(s)", d.Len())}
	if n := len(d.FetchFailures()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unavailable artifact(s)", n))
	}
	return strings.Join(parts, ", ")
}
