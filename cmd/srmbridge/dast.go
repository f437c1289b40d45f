package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/application/usecases"
)

var (
	dastPullOutput    string
	dastConvertOutput string
	dastImportExport  string
	dastImportOutput  string
	dastToolName      string
)

var dastCmd = &cobra.Command{
	Use:   "dast",
	Short: "Polaris DAST results",
}

var dastPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Export the latest DAST issues of a Polaris project",
	Long: `Export the issues of the latest DAST test of a Polaris project to a
JSON file.

Examples:
  srmbridge dast pull --polaris-project WebGoat
  srmbridge dast pull --polaris-project WebGoat -o webgoat.json`,
	Args: cobra.NoArgs,
	RunE: runDASTPull,
}

var dastConvertCmd = &cobra.Command{
	Use:   "convert <export.json>",
	Short: "Convert a Polaris DAST export to SRM XML",
	Long: `Convert a Polaris DAST issues export to SRM XML.

Request and response evidence is downloaded from Polaris when an API key
is configured; unavailable artifacts are reported and omitted.

Examples:
  srmbridge dast convert sourceExport.json
  srmbridge dast convert sourceExport.json -o srm-output.xml --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runDASTConvert,
}

var dastImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Pull, convert and upload Polaris DAST results",
	Long: `Pull the latest DAST issues of a Polaris project, convert them to SRM
XML and upload them to SRM. The SRM project defaults to the Polaris
project name and is created when missing.

Examples:
  srmbridge dast import --polaris-project WebGoat
  srmbridge dast import --polaris-project WebGoat --srm-project webgoat --branch main`,
	Args: cobra.NoArgs,
	RunE: runDASTImport,
}

func init() {
	dastPullCmd.Flags().StringVarP(&dastPullOutput, "output", "o", usecases.DefaultExportPath, "export file")
	dastConvertCmd.Flags().StringVarP(&dastConvertOutput, "output", "o", usecases.DefaultOutputPath, "SRM XML output file")
	dastConvertCmd.Flags().StringVar(&dastToolName, "tool-name", "", "report tool name (default: polaris.tool_name)")
	dastImportCmd.Flags().StringVar(&dastImportExport, "export", usecases.DefaultExportPath, "intermediate export file")
	dastImportCmd.Flags().StringVarP(&dastImportOutput, "output", "o", usecases.DefaultImportOutputPath, "intermediate SRM XML file")
	dastImportCmd.Flags().StringVar(&dastToolName, "tool-name", "", "report tool name (default: polaris.tool_name)")

	dastCmd.AddCommand(dastPullCmd, dastConvertCmd, dastImportCmd)
	rootCmd.AddCommand(dastCmd)
}

func runDASTPull(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	client, err := a.polarisClient()
	if err != nil {
		return err
	}

	_, err = usecases.NewPullIssuesUseCase(client, a.progress).Execute(ctx, usecases.PullIssuesInput{
		ProjectName: a.cfg.Polaris.ProjectName,
		OutputPath:  dastPullOutput,
	})
	if err != nil {
		return err
	}
	return a.progress.Flush()
}

func runDASTConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	uc := usecases.NewConvertReportUseCase(a.registry(ports.SourcePolarisDAST), a.factory.CreateReportWriter(), a.progress)
	out, err := uc.Execute(ctx, usecases.ConvertReportInput{
		Source:     ports.SourcePolarisDAST,
		InputPath:  args[0],
		OutputPath: dastConvertOutput,
		ToolName:   a.toolName(ports.SourcePolarisDAST, dastToolName),
	})
	if err != nil {
		return err
	}
	return a.finish(out)
}

func runDASTImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	source, err := a.polarisClient()
	if err != nil {
		return err
	}
	srmClient, err := a.srmClient()
	if err != nil {
		return err
	}

	uc := usecases.NewImportResultsUseCase(source, a.registry(ports.SourcePolarisDAST), a.factory.CreateReportWriter(), srmClient, a.progress)
	out, err := uc.Execute(ctx, usecases.ImportResultsInput{
		Source:         ports.SourcePolarisDAST,
		PolarisProject: a.cfg.Polaris.ProjectName,
		InputPath:      dastImportExport,
		OutputPath:     dastImportOutput,
		ToolName:       a.toolName(ports.SourcePolarisDAST, dastToolName),
		SRMProject:     a.cfg.SRMProjectName(),
		BranchName:     a.cfg.SRM.BranchName,
	})
	if err != nil {
		return err
	}
	return a.finish(out.Convert)
}
