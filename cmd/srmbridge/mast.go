package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/application/usecases"
)

var (
	mastConvertOutput        string
	mastImportOutput         string
	mastToolName             string
	mastSkipDetectionMethods bool
)

var mastCmd = &cobra.Command{
	Use:   "mast",
	Short: "TORT MAST results",
}

var mastConvertCmd = &cobra.Command{
	Use:   "convert <results.json>",
	Short: "Convert a TORT MAST export to SRM XML",
	Long: `Convert a TORT MAST JSON export to SRM XML. The report is dated with
metadata.endDate, or today when the export has none.

Examples:
  srmbridge mast convert results.json
  srmbridge mast convert results.json -o mast.xml --tool-name mobsec`,
	Args: cobra.ExactArgs(1),
	RunE: runMASTConvert,
}

var mastImportCmd = &cobra.Command{
	Use:   "import <results.json>",
	Short: "Convert and upload TORT MAST results",
	Long: `Convert a TORT MAST JSON export, register its detection methods in SRM
and upload it. The SRM project is created when missing; a missing branch
is created from the project's default branch.

Examples:
  srmbridge mast import results.json --srm-project MobileApp
  srmbridge mast import results.json --srm-project MobileApp --branch release`,
	Args: cobra.ExactArgs(1),
	RunE: runMASTImport,
}

func init() {
	mastConvertCmd.Flags().StringVarP(&mastConvertOutput, "output", "o", usecases.DefaultOutputPath, "SRM XML output file")
	mastConvertCmd.Flags().StringVar(&mastToolName, "tool-name", "", "report tool name (default: generatedBy)")
	mastImportCmd.Flags().StringVarP(&mastImportOutput, "output", "o", usecases.DefaultImportOutputPath, "intermediate SRM XML file")
	mastImportCmd.Flags().StringVar(&mastToolName, "tool-name", "", "report tool name (default: generatedBy)")
	mastImportCmd.Flags().BoolVar(&mastSkipDetectionMethods, "skip-detection-methods", false, "do not register detection methods in SRM")

	mastCmd.AddCommand(mastConvertCmd, mastImportCmd)
	rootCmd.AddCommand(mastCmd)
}

func runMASTConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	uc := usecases.NewConvertReportUseCase(a.registry(ports.SourceTortMAST), a.factory.CreateReportWriter(), a.progress)
	out, err := uc.Execute(ctx, usecases.ConvertReportInput{
		Source:     ports.SourceTortMAST,
		InputPath:  args[0],
		OutputPath: mastConvertOutput,
		ToolName:   mastToolName,
	})
	if err != nil {
		return err
	}
	return a.finish(out)
}

func runMASTImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	srmClient, err := a.srmClient()
	if err != nil {
		return err
	}

	uc := usecases.NewImportResultsUseCase(nil, a.registry(ports.SourceTortMAST), a.factory.CreateReportWriter(), srmClient, a.progress)
	out, err := uc.Execute(ctx, usecases.ImportResultsInput{
		Source:                   ports.SourceTortMAST,
		InputPath:                args[0],
		OutputPath:               mastImportOutput,
		ToolName:                 mastToolName,
		SRMProject:               a.cfg.SRMProjectName(),
		BranchName:               a.cfg.SRM.BranchName,
		RegisterDetectionMethods: a.cfg.SRM.RegisterDetectionMethods && !mastSkipDetectionMethods,
	})
	if err != nil {
		return err
	}
	return a.finish(out.Convert)
}
