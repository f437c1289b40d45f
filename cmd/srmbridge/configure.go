package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/usecases"
)

var (
	addinToolName   string
	declarationFile string
)

var configureToolCmd = &cobra.Command{
	Use:   "configure-tool",
	Short: "Set up the SRM tool service to pull Polaris DAST results",
	Long: `Configure SRM to pull Polaris DAST results on its own.

The add-in tool is created from the tool declaration file when it does not
exist yet. The SRM project (default: the Polaris project name) is created
when missing, the Polaris API key is stored as a project secret and the
tool is enabled for the project.

Examples:
  srmbridge configure-tool --polaris-project WebGoat
  srmbridge configure-tool --polaris-project WebGoat --addin-tool-name "Polaris DAST" --declaration scan_request_file.txt`,
	Args: cobra.NoArgs,
	RunE: runConfigureTool,
}

func init() {
	configureToolCmd.Flags().StringVar(&addinToolName, "addin-tool-name", "", "add-in tool name (default: srm.addin_tool_name)")
	configureToolCmd.Flags().StringVar(&declarationFile, "declaration", "", "tool declaration file (default: srm.tool_declaration_file)")
	rootCmd.AddCommand(configureToolCmd)
}

func runConfigureTool(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	client, err := a.srmClient()
	if err != nil {
		return err
	}

	toolName := addinToolName
	if toolName == "" {
		toolName = a.cfg.SRM.AddinToolName
	}
	declaration := declarationFile
	if declaration == "" {
		declaration = a.cfg.SRM.ToolDeclarationFile
	}

	out, err := usecases.NewConfigureToolServiceUseCase(client, a.progress).Execute(ctx, usecases.ConfigureToolServiceInput{
		PolarisURL:      a.cfg.Polaris.URL,
		PolarisProject:  a.cfg.Polaris.ProjectName,
		PolarisAPIKey:   a.cfg.Polaris.APIKey,
		SRMProject:      a.cfg.SRMProjectName(),
		AddinToolName:   toolName,
		DeclarationPath: declaration,
		SecretName:      a.cfg.SRM.SecretName,
		SecretKey:       a.cfg.SRM.SecretKey,
	})
	if err != nil {
		return err
	}

	_ = a.progress.WriteProgress(fmt.Sprintf("Tool %s (id %s) enabled for project %s (id %s) with secret %s",
		out.Tool.Name, out.Tool.ID, out.Project.Name, out.Project.ID, out.Secret))
	return a.progress.Flush()
}
