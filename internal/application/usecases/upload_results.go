package usecases

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// UploadResultsInput contains the input for the UploadResults use case.
type UploadResultsInput struct {
	ProjectName string
	BranchName  string // empty uploads to the default branch
	FilePath    string
}

// UploadResultsOutput contains the result of the UploadResults use case.
type UploadResultsOutput struct {
	Project        ports.Project
	ProjectCreated bool
	Branch         ports.BranchSelection
	Job            *ports.AnalysisJob // nil for default-branch uploads
}

// UploadResultsUseCase uploads a findings file to an SRM project, creating
// the project and branch as needed.
type UploadResultsUseCase struct {
	srm      ports.SRMClient
	progress ports.ProgressWriter
}

// NewUploadResultsUseCase creates a new UploadResults use case.
func NewUploadResultsUseCase(srm ports.SRMClient, progress ports.ProgressWriter) *UploadResultsUseCase {
	return &UploadResultsUseCase{srm: srm, progress: progress}
}

// Execute runs the upload.
func (uc *UploadResultsUseCase) Execute(ctx context.Context, input UploadResultsInput) (UploadResultsOutput, error) {
	var out UploadResultsOutput

	if info, err := os.Stat(input.FilePath); err != nil {
		return out, fmt.Errorf("failed to stat upload file: %w", err)
	} else if info.IsDir() {
		return out, fmt.Errorf("upload file %s is a directory", input.FilePath)
	}

	project, created, err := EnsureProject(ctx, uc.srm, input.ProjectName)
	if err != nil {
		return out, err
	}
	out.Project, out.ProjectCreated = *project, created
	if created {
		uc.writeProgress(fmt.Sprintf("Created SRM project %s (id %s)", project.Name, project.ID))
	}

	if input.BranchName == "" {
		uc.writeProgress(fmt.Sprintf("Uploading %s to project %s...", input.FilePath, project.Name))
		if err := uc.srm.UploadAnalysis(ctx, project.ID, input.FilePath); err != nil {
			return out, fmt.Errorf("failed to upload analysis: %w", err)
		}
		return out, nil
	}

	branches, err := uc.srm.ListBranches(ctx, project.ID)
	if err != nil {
		return out, fmt.Errorf("failed to list branches: %w", err)
	}
	selection, err := SelectBranch(branches, input.BranchName)
	if err != nil {
		return out, err
	}
	out.Branch = selection

	uc.writeProgress(fmt.Sprintf("Uploading %s to project %s branch %s...", input.FilePath, project.Name, selection.Name))

	prepID, err := uc.srm.CreateAnalysisPrep(ctx, project.ID)
	if err != nil {
		return out, fmt.Errorf("failed to prepare analysis: %w", err)
	}
	if err := uc.srm.SetPrepBranch(ctx, prepID, selection); err != nil {
		return out, fmt.Errorf("failed to set analysis branch: %w", err)
	}
	if err := uc.srm.UploadPrepFile(ctx, prepID, input.FilePath); err != nil {
		return out, fmt.Errorf("failed to upload file: %w", err)
	}
	job, err := uc.srm.Analyze(ctx, prepID)
	if err != nil {
		return out, fmt.Errorf("failed to start analysis: %w", err)
	}
	out.Job = job

	uc.writeProgress(fmt.Sprintf("Started analysis %s (job %s)", job.AnalysisID, job.JobID))
	return out, nil
}

func (uc *UploadResultsUseCase) writeProgress(msg string) {
	if uc.progress != nil {
		_ = uc.progress.WriteProgress(msg)
	}
}
