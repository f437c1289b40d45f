package ports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "fAST-DAST", cfg.Polaris.ToolName)
	assert.Equal(t, 4, cfg.Polaris.FetchConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Polaris.FetchTimeout)
	assert.Equal(t, "Polaris DAST", cfg.SRM.AddinToolName)
	assert.Equal(t, "polariskey", cfg.SRM.SecretName)
	assert.Equal(t, "apikey", cfg.SRM.SecretKey)
	assert.True(t, cfg.SRM.RegisterDetectionMethods)
	assert.Equal(t, OutputFormatConsole, cfg.Output.Format)
	assert.Equal(t, VerbosityNormal, cfg.Output.Verbosity)
	assert.True(t, cfg.Output.Color)
}

func TestConfig_Secrets(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Secrets())

	cfg.Polaris.APIKey = "polaris-key"
	cfg.SRM.APIKey = "srm-key"
	assert.Equal(t, []string{"polaris-key", "srm-key"}, cfg.Secrets())
}

func TestConfigOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SRM.URL = "https://srm.from-file"

	url := "https://srm.from-flag"
	empty := ""
	branch := "release"
	verbosity := VerbosityDebug
	noColor := true
	format := OutputFormatJSON

	result := ConfigOverrides{
		SRMURL:         &url,
		SRMProjectName: &empty,
		SRMBranchName:  &branch,
		Format:         &format,
		Verbosity:      &verbosity,
		NoColor:        &noColor,
	}.Apply(cfg)

	assert.Equal(t, "https://srm.from-flag", result.SRM.URL)
	assert.Empty(t, result.SRM.ProjectName)
	assert.Equal(t, "release", result.SRM.BranchName)
	assert.Equal(t, OutputFormatJSON, result.Output.Format)
	assert.Equal(t, VerbosityDebug, result.Output.Verbosity)
	assert.False(t, result.Output.Color)

	// original untouched
	assert.Equal(t, "https://srm.from-file", cfg.SRM.URL)
}

func TestConfigOverrides_NoColorFalseKeepsColor(t *testing.T) {
	noColor := false
	result := ConfigOverrides{NoColor: &noColor}.Apply(DefaultConfig())
	assert.True(t, result.Output.Color)
}

func TestVerbosity_Constants(t *testing.T) {
	assert.Equal(t, Verbosity("quiet"), VerbosityQuiet)
	assert.Equal(t, Verbosity("normal"), VerbosityNormal)
	assert.Equal(t, Verbosity("verbose"), VerbosityVerbose)
	assert.Equal(t, Verbosity("debug"), VerbosityDebug)
}

func TestConfig_SRMProjectName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Polaris.ProjectName = "WebGoat"
	assert.Equal(t, "WebGoat", cfg.SRMProjectName())

	cfg.SRM.ProjectName = "webgoat-srm"
	assert.Equal(t, "webgoat-srm", cfg.SRMProjectName())
}
