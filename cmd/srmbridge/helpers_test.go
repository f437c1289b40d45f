package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/config"
)

// runCLI executes args in a clean working directory and environment and
// returns the exit code with captured output.
func runCLI(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(dir)
	for _, name := range []string{
		config.EnvPolarisURL, config.EnvPolarisAPIKey, config.EnvPolarisProjectName,
		config.EnvSRMURL, config.EnvSRMAPIKey, config.EnvSRMProjectName, config.EnvSRMBranchName,
	} {
		if _, ok := envOverrides[name]; !ok {
			t.Setenv(name, "")
		}
	}
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--no-color"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := Execute()
	return code, out.String(), errOut.String()
}

// envOverrides lists variables a test set itself; runCLI leaves them alone.
var envOverrides = map[string]struct{}{}

func setEnv(t *testing.T, name, value string) {
	t.Helper()
	t.Setenv(name, value)
	envOverrides[name] = struct{}{}
	t.Cleanup(func() { delete(envOverrides, name) })
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
