package usecases

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/pathutil"
)

// ErrPolarisAPIKeyRequired is returned when the project secret would be empty.
var ErrPolarisAPIKeyRequired = errors.New("polaris API key is required for the project secret")

// ConfigureToolServiceInput contains the input for the ConfigureToolService use case.
type ConfigureToolServiceInput struct {
	PolarisURL     string
	PolarisProject string
	PolarisAPIKey  string

	SRMProject      string // defaults to PolarisProject
	AddinToolName   string
	DeclarationPath string // read only when the add-in tool must be created
	SecretName      string
	SecretKey       string
}

// ConfigureToolServiceOutput contains the result of the ConfigureToolService use case.
type ConfigureToolServiceOutput struct {
	Tool           ports.AddinTool
	ToolCreated    bool
	Project        ports.Project
	ProjectCreated bool
	Secret         string
	SecretCreated  bool
}

// ConfigureToolServiceUseCase sets SRM up to pull Polaris DAST results on
// its own: add-in tool, project, project secret and tool configuration.
type ConfigureToolServiceUseCase struct {
	srm      ports.SRMClient
	progress ports.ProgressWriter
}

// NewConfigureToolServiceUseCase creates a new ConfigureToolService use case.
func NewConfigureToolServiceUseCase(srm ports.SRMClient, progress ports.ProgressWriter) *ConfigureToolServiceUseCase {
	return &ConfigureToolServiceUseCase{srm: srm, progress: progress}
}

// Execute provisions the tool service. Existing tools, projects and
// secrets are reused.
func (uc *ConfigureToolServiceUseCase) Execute(ctx context.Context, input ConfigureToolServiceInput) (ConfigureToolServiceOutput, error) {
	var out ConfigureToolServiceOutput

	if input.PolarisProject == "" {
		return out, ErrProjectRequired
	}
	if input.PolarisAPIKey == "" {
		return out, ErrPolarisAPIKeyRequired
	}
	toolName := defaultString(input.AddinToolName, ports.DefaultAddinToolName)
	secretName := defaultString(input.SecretName, ports.DefaultSecretName)
	secretKey := defaultString(input.SecretKey, ports.DefaultSecretKey)
	srmProject := defaultString(input.SRMProject, input.PolarisProject)

	tool, err := uc.srm.FindAddinTool(ctx, toolName)
	if err != nil {
		return out, fmt.Errorf("failed to look up add-in tool %s: %w", toolName, err)
	}
	if tool == nil {
		declaration, err := readDeclaration(input.DeclarationPath)
		if err != nil {
			return out, err
		}
		uc.writeProgress(fmt.Sprintf("Creating add-in tool %s...", toolName))
		tool, err = uc.srm.CreateAddinTool(ctx, toolName, declaration)
		if err != nil {
			return out, fmt.Errorf("failed to create add-in tool %s: %w", toolName, err)
		}
		out.ToolCreated = true
	}
	out.Tool = *tool

	project, created, err := EnsureProject(ctx, uc.srm, srmProject)
	if err != nil {
		return out, err
	}
	out.Project, out.ProjectCreated = *project, created

	secret, err := uc.srm.FindProjectSecret(ctx, project.ID, secretName)
	if err != nil {
		return out, fmt.Errorf("failed to look up project secret: %w", err)
	}
	if secret == "" {
		secret, err = uc.srm.CreateProjectSecret(ctx, project.ID, ports.SecretSpec{
			Name:  secretName,
			Key:   secretKey,
			Value: input.PolarisAPIKey,
		})
		if err != nil {
			return out, fmt.Errorf("failed to create project secret: %w", err)
		}
		out.SecretCreated = true
	}
	out.Secret = secret

	err = uc.srm.ConfigureAddinTool(ctx, project.ID, tool.ID, ports.ToolServiceConfig{
		Content:        ToolServiceContent(input.PolarisProject, input.PolarisURL),
		AllowedSecrets: []string{secret},
		Enabled:        true,
	})
	if err != nil {
		return out, fmt.Errorf("failed to configure add-in tool for project %s: %w", project.Name, err)
	}

	uc.writeProgress(fmt.Sprintf("Configured %s for project %s", tool.Name, project.Name))
	return out, nil
}

// ToolServiceContent renders the add-in tool configuration snippet.
func ToolServiceContent(project, url string) string {
	return fmt.Sprintf("[polaris]\nproject=%q\nurl=%q", project, url)
}

func readDeclaration(path string) ([]byte, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid tool declaration path: %w", err)
	}
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read tool declaration: %w", err)
	}
	return data, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (uc *ConfigureToolServiceUseCase) writeProgress(msg string) {
	if uc.progress != nil {
		_ = uc.progress.WriteProgress(msg)
	}
}
