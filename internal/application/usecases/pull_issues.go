package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/pathutil"
)

// DefaultExportPath is where pulled Polaris issues are written by default.
const DefaultExportPath = "sourceExport.json"

// ErrProjectRequired is returned when no project name is given.
var ErrProjectRequired = errors.New("project name is required")

// PullIssuesInput contains the input for the PullIssues use case.
type PullIssuesInput struct {
	ProjectName string
	OutputPath  string // defaults to DefaultExportPath
}

// PullIssuesOutput contains the result of the PullIssues use case.
type PullIssuesOutput struct {
	OutputPath string
	Bytes      int
}

// PullIssuesUseCase exports the latest DAST issues of a project to a file.
type PullIssuesUseCase struct {
	source   ports.IssueSource
	progress ports.ProgressWriter
}

// NewPullIssuesUseCase creates a new PullIssues use case.
func NewPullIssuesUseCase(source ports.IssueSource, progress ports.ProgressWriter) *PullIssuesUseCase {
	return &PullIssuesUseCase{source: source, progress: progress}
}

// Execute pulls the issues and writes them atomically.
func (uc *PullIssuesUseCase) Execute(ctx context.Context, input PullIssuesInput) (PullIssuesOutput, error) {
	if input.ProjectName == "" {
		return PullIssuesOutput{}, ErrProjectRequired
	}
	outputPath := input.OutputPath
	if outputPath == "" {
		outputPath = DefaultExportPath
	}

	if uc.progress != nil {
		_ = uc.progress.WriteProgress(fmt.Sprintf("Pulling DAST issues for %s...", input.ProjectName))
	}

	data, err := uc.source.PullIssues(ctx, input.ProjectName)
	if err != nil {
		return PullIssuesOutput{}, fmt.Errorf("failed to pull issues: %w", err)
	}

	cleanPath, err := pathutil.ValidatePath(outputPath)
	if err != nil {
		return PullIssuesOutput{}, fmt.Errorf("invalid output path: %w", err)
	}
	if err := pathutil.WriteFileAtomic(cleanPath, data, 0o644); err != nil {
		return PullIssuesOutput{}, fmt.Errorf("failed to write issues export: %w", err)
	}

	if uc.progress != nil {
		_ = uc.progress.WriteProgress(fmt.Sprintf("Wrote issues export to %s", cleanPath))
	}

	return PullIssuesOutput{OutputPath: cleanPath, Bytes: len(data)}, nil
}
