package ports

import "context"

// IssueSource exports scan issues from the source platform.
type IssueSource interface {
	// PullIssues returns the raw issues export of the latest DAST test of
	// the named project.
	PullIssues(ctx context.Context, projectName string) ([]byte, error)
}

// Project is an SRM project.
type Project struct {
	ID   string
	Name string
}

// Branch is an SRM project branch.
type Branch struct {
	Name      string
	IsDefault bool
}

// BranchSelection tells an analysis which branch to target. When Parent is
// set the branch is created from it.
type BranchSelection struct {
	Name   string
	Parent string
}

// IsNew returns true if the selection creates a branch.
func (b BranchSelection) IsNew() bool { return b.Parent != "" }

// AnalysisJob identifies a started SRM analysis.
type AnalysisJob struct {
	JobID      string `json:"jobId"`
	AnalysisID string `json:"analysisId"`
}

// AddinTool is an SRM add-in tool definition.
type AddinTool struct {
	ID   string
	Name string
}

// SecretSpec describes a project secret holding one sensitive field.
type SecretSpec struct {
	Name  string
	Key   string
	Value string
}

// ToolServiceConfig is the per-project tool service configuration.
type ToolServiceConfig struct {
	Content        string
	AllowedSecrets []string
	Enabled        bool
}

// SRMProjects manages SRM projects.
type SRMProjects interface {
	// FindProject looks a project up by name, case-insensitively.
	// It returns nil when no project matches.
	FindProject(ctx context.Context, name string) (*Project, error)

	// CreateProject creates a project.
	CreateProject(ctx context.Context, name string) (*Project, error)
}

// SRMAnalysis uploads findings files to SRM.
type SRMAnalysis interface {
	ListBranches(ctx context.Context, projectID string) ([]Branch, error)
	CreateAnalysisPrep(ctx context.Context, projectID string) (string, error)
	SetPrepBranch(ctx context.Context, prepID string, branch BranchSelection) error
	UploadPrepFile(ctx context.Context, prepID, path string) error
	Analyze(ctx context.Context, prepID string) (*AnalysisJob, error)

	// UploadAnalysis uploads a file straight to the project's default branch.
	UploadAnalysis(ctx context.Context, projectID, path string) error
}

// SRMToolService provisions the add-in tool used for scheduled pulls.
type SRMToolService interface {
	// FindAddinTool returns nil when no tool matches name case-insensitively.
	FindAddinTool(ctx context.Context, name string) (*AddinTool, error)
	CreateAddinTool(ctx context.Context, name string, declaration []byte) (*AddinTool, error)

	// FindProjectSecret returns the secret name, or "" when absent.
	FindProjectSecret(ctx context.Context, projectID, name string) (string, error)
	CreateProjectSecret(ctx context.Context, projectID string, secret SecretSpec) (string, error)

	ConfigureAddinTool(ctx context.Context, projectID, toolID string, cfg ToolServiceConfig) error
}

// SRMDetectionMethods registers detection methods referenced by findings.
type SRMDetectionMethods interface {
	ListDetectionMethods(ctx context.Context) ([]string, error)
	CreateDetectionMethod(ctx context.Context, name string) error
}

// SRMClient is the full SRM API surface used by the use cases.
type SRMClient interface {
	SRMProjects
	SRMAnalysis
	SRMToolService
	SRMDetectionMethods
}
