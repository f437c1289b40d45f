package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/usecases"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <report.xml>",
	Short: "Upload an SRM XML file to SRM",
	Long: `Upload a findings file to an SRM project. The project is created when
missing. With --branch the file is analyzed on that branch, which is
created from the default branch when it does not exist.

Examples:
  srmbridge upload srm-output.xml --srm-project WebGoat
  srmbridge upload srm-output.xml --srm-project WebGoat --branch feature-x`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
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

	out, err := usecases.NewUploadResultsUseCase(client, a.progress).Execute(ctx, usecases.UploadResultsInput{
		ProjectName: a.cfg.SRMProjectName(),
		BranchName:  a.cfg.SRM.BranchName,
		FilePath:    args[0],
	})
	if err != nil {
		return err
	}

	_ = a.progress.WriteProgress(fmt.Sprintf("Uploaded %s to SRM project %s", args[0], out.Project.Name))
	return a.progress.Flush()
}
