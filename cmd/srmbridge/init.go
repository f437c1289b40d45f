package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize srmbridge configuration",
	Long: `Create .srmbridge/config.yaml with the default settings and report
which connection settings are available from the environment.

Credentials are never written to the config file.

Examples:
  srmbridge init
  srmbridge init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if noColor {
		green = fmt.Sprint
		yellow = fmt.Sprint
		bold = fmt.Sprint
	}

	configPath := filepath.Join(config.DefaultConfigDir, config.DefaultConfigFile)

	if _, err := os.Stat(configPath); err == nil {
		if !initForce {
			return fmt.Errorf("configuration already exists at %s\nUse --force to overwrite", configPath)
		}
		fmt.Fprintf(out, "%s Overwriting existing configuration\n", yellow("!"))
	} else if existing, ok := config.FindConfigFile(); ok {
		fmt.Fprintf(out, "%s %s exists; %s will take precedence\n", yellow("!"), existing, configPath)
	}

	if err := config.GenerateDefaultConfig(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(out, "%s Created %s\n", green("✓"), configPath)

	fmt.Fprintf(out, "\n%s\n", bold("Environment:"))
	vars := []string{
		config.EnvPolarisURL,
		config.EnvPolarisAPIKey,
		config.EnvPolarisProjectName,
		config.EnvSRMURL,
		config.EnvSRMAPIKey,
		config.EnvSRMProjectName,
		config.EnvSRMBranchName,
	}
	set := 0
	for _, name := range vars {
		if os.Getenv(name) != "" {
			fmt.Fprintf(out, "  %s %s\n", green("✓"), name)
			set++
		} else {
			fmt.Fprintf(out, "  %s %s %s\n", yellow("-"), name, yellow("not set"))
		}
	}
	fmt.Fprintf(out, "\n%s %d/%d variables set\n", bold("Summary:"), set, len(vars))

	fmt.Fprintf(out, "\n%s\n", bold("Next Steps:"))
	fmt.Fprintf(out, "  1. Review %s\n", configPath)
	fmt.Fprintln(out, "  2. Export POLARIS_API_KEY and SRM_API_KEY")
	fmt.Fprintln(out, "  3. Run 'srmbridge dast import' or 'srmbridge mast import <file>'")

	return nil
}
