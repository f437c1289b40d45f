package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/config"
	"github.com/felixgeelhaar/srmbridge/pkg/exitcode"
	"github.com/felixgeelhaar/srmbridge/pkg/redact"
)

// Version information set at build time
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Global flags
var (
	cfgFile    string
	verbosity  string
	formatFlag string
	noColor    bool
	strictMode bool

	polarisURL     string
	polarisAPIKey  string
	polarisProject string
	srmURL         string
	srmAPIKey      string
	srmProject     string
	branchName     string
)

// runExitCode is set by commands that complete with a non-zero outcome
// without failing outright.
var runExitCode = exitcode.Success

// rootCmd is the base command for srmbridge
var rootCmd = &cobra.Command{
	Use:   "srmbridge",
	Short: "srmbridge - Import Polaris DAST and TORT MAST results into SRM",
	Long: `srmbridge translates scanner exports into the Software Risk Manager
findings-import XML format and uploads them to SRM.

Credentials are read from POLARIS_API_KEY and SRM_API_KEY (or the config
file); URLs and project names from POLARIS_URL, POLARIS_PROJECT_NAME,
SRM_URL, SRM_PROJECT_NAME and SRM_PROJECT_BRANCH_NAME.

Examples:
  srmbridge dast pull --polaris-project WebGoat
  srmbridge dast convert sourceExport.json -o srm-output.xml
  srmbridge dast import --polaris-project WebGoat
  srmbridge mast import results.json --srm-project MobileApp --branch release
  srmbridge configure-tool --polaris-project WebGoat`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "srmbridge %s\n", version)
		fmt.Fprintf(out, "  Commit:  %s\n", commit)
		fmt.Fprintf(out, "  Built:   %s\n", buildDate)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: .srmbridge/config.yaml)")
	flags.StringVarP(&verbosity, "verbosity", "v", "normal", "verbosity level (quiet, normal, verbose, debug)")
	flags.StringVar(&formatFlag, "format", "", "progress output format (console, json)")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&strictMode, "strict", false, "exit 1 when a conversion completes with diagnostics")

	flags.StringVar(&polarisURL, "polaris-url", "", "Polaris URL (env POLARIS_URL)")
	flags.StringVar(&polarisAPIKey, "polaris-api-key", "", "Polaris API key (env POLARIS_API_KEY)")
	flags.StringVar(&polarisProject, "polaris-project", "", "Polaris project name (env POLARIS_PROJECT_NAME)")
	flags.StringVar(&srmURL, "srm-url", "", "SRM URL (env SRM_URL)")
	flags.StringVar(&srmAPIKey, "srm-api-key", "", "SRM API key (env SRM_API_KEY)")
	flags.StringVar(&srmProject, "srm-project", "", "SRM project name, created when missing (env SRM_PROJECT_NAME, default: Polaris project)")
	flags.StringVar(&branchName, "branch", "", "SRM branch, created from the default branch when missing (env SRM_PROJECT_BRANCH_NAME)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	runExitCode = exitcode.Success
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", redact.RedactString(err.Error()))
		return exitcode.Error
	}
	return runExitCode
}

// loadConfig resolves defaults, config file, environment and flags.
func loadConfig() (ports.Config, error) {
	cfg, err := config.NewLoader().Resolve(cfgFile, overrides())
	if err != nil {
		return ports.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// overrides collects the global flags that were set on the command line.
func overrides() ports.ConfigOverrides {
	o := ports.ConfigOverrides{
		PolarisURL:         &polarisURL,
		PolarisAPIKey:      &polarisAPIKey,
		PolarisProjectName: &polarisProject,
		SRMURL:             &srmURL,
		SRMAPIKey:          &srmAPIKey,
		SRMProjectName:     &srmProject,
		SRMBranchName:      &branchName,
		NoColor:            &noColor,
	}
	if rootCmd.PersistentFlags().Changed("verbosity") {
		v := ports.Verbosity(verbosity)
		o.Verbosity = &v
	}
	if formatFlag != "" {
		f := ports.OutputFormat(formatFlag)
		o.Format = &f
	}
	return o
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
