package usecases

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// DefaultImportOutputPath is the intermediate SRM XML file of an import.
const DefaultImportOutputPath = "sourceSRMXML.xml"

// ImportResultsInput contains the input for the ImportResults use case.
type ImportResultsInput struct {
	Source ports.SourceID

	// PolarisProject is pulled for DAST imports. InputPath is where the
	// export is written (DAST) or read from (MAST).
	PolarisProject string
	InputPath      string
	OutputPath     string
	ToolName       string

	SRMProject string
	BranchName string

	// RegisterDetectionMethods creates unknown detection methods in SRM
	// before uploading MAST results.
	RegisterDetectionMethods bool
}

// ImportResultsOutput contains the result of the ImportResults use case.
type ImportResultsOutput struct {
	Convert        ConvertReportOutput
	Upload         UploadResultsOutput
	CreatedMethods []string
}

// ImportResultsUseCase runs pull (DAST only), convert and upload as one step.
type ImportResultsUseCase struct {
	pull     *PullIssuesUseCase // nil when no issue source is configured
	convert  *ConvertReportUseCase
	upload   *UploadResultsUseCase
	srm      ports.SRMClient
	progress ports.ProgressWriter
}

// NewImportResultsUseCase creates a new ImportResults use case.
// source may be nil for MAST-only use.
func NewImportResultsUseCase(
	source ports.IssueSource,
	registry ports.ConverterRegistry,
	writer ports.ReportWriter,
	srm ports.SRMClient,
	progress ports.ProgressWriter,
) *ImportResultsUseCase {
	uc := &ImportResultsUseCase{
		convert:  NewConvertReportUseCase(registry, writer, progress),
		upload:   NewUploadResultsUseCase(srm, progress),
		srm:      srm,
		progress: progress,
	}
	if source != nil {
		uc.pull = NewPullIssuesUseCase(source, progress)
	}
	return uc
}

// Execute runs the import.
func (uc *ImportResultsUseCase) Execute(ctx context.Context, input ImportResultsInput) (ImportResultsOutput, error) {
	var out ImportResultsOutput

	outputPath := input.OutputPath
	if outputPath == "" {
		outputPath = DefaultImportOutputPath
	}
	srmProject := input.SRMProject
	if srmProject == "" {
		srmProject = input.PolarisProject
	}

	inputPath := input.InputPath
	switch input.Source {
	case ports.SourcePolarisDAST:
		if uc.pull == nil {
			return out, fmt.Errorf("no issue source configured for %s", input.Source)
		}
		pulled, err := uc.pull.Execute(ctx, PullIssuesInput{
			ProjectName: input.PolarisProject,
			OutputPath:  inputPath,
		})
		if err != nil {
			return out, err
		}
		inputPath = pulled.OutputPath
	case ports.SourceTortMAST:
		if inputPath == "" {
			return out, fmt.Errorf("an input file is required for %s", input.Source)
		}
	default:
		return out, fmt.Errorf("%w: %s", ErrUnknownSource, input.Source)
	}

	converted, err := uc.convert.Execute(ctx, ConvertReportInput{
		Source:     input.Source,
		InputPath:  inputPath,
		OutputPath: outputPath,
		ToolName:   input.ToolName,
	})
	out.Convert = converted
	if err != nil {
		return out, err
	}

	if input.Source == ports.SourceTortMAST && input.RegisterDetectionMethods {
		created, err := EnsureDetectionMethods(ctx, uc.srm, converted.Conversion.DetectionMethods)
		out.CreatedMethods = created
		if err != nil {
			return out, err
		}
		if len(created) > 0 && uc.progress != nil {
			_ = uc.progress.WriteProgress(fmt.Sprintf("Registered %d detection method(s)", len(created)))
		}
	}

	uploaded, err := uc.upload.Execute(ctx, UploadResultsInput{
		ProjectName: srmProject,
		BranchName:  input.BranchName,
		FilePath:    converted.OutputPath,
	})
	out.Upload = uploaded
	return out, err
}
