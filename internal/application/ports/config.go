package ports

import "time"

// Config represents the complete application configuration.
type Config struct {
	Version string
	Polaris PolarisConfig
	SRM     SRMConfig
	Output  OutputConfig
}

// PolarisConfig configures access to Polaris and DAST conversion.
type PolarisConfig struct {
	URL              string
	APIKey           string
	ProjectName      string
	ToolName         string
	RequestTimeout   time.Duration
	FetchTimeout     time.Duration
	FetchConcurrency int
}

// SRMConfig configures access to SRM and its provisioning defaults.
type SRMConfig struct {
	URL                      string
	APIKey                   string
	ProjectName              string
	BranchName               string
	AddinToolName            string
	ToolDeclarationFile      string
	SecretName               string
	SecretKey                string
	RegisterDetectionMethods bool
	RequestTimeout           time.Duration
}

// OutputConfig configures console output.
type OutputConfig struct {
	Format    OutputFormat
	Verbosity Verbosity
	Color     bool
}

// OutputFormat selects how progress and results are reported.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatConsole OutputFormat = "console"
	OutputFormatJSON    OutputFormat = "json"
)

// Verbosity controls output detail level.
type Verbosity string

// Available verbosity levels.
const (
	VerbosityQuiet   Verbosity = "quiet"
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
	VerbosityDebug   Verbosity = "debug"
)

// Defaults shared by the config loader and the CLI.
const (
	DefaultDASTToolName     = "fAST-DAST"
	DefaultMASTToolName     = "tort"
	DefaultAddinToolName    = "Polaris DAST"
	DefaultSecretName       = "polariskey"
	DefaultSecretKey        = "apikey"
	DefaultFetchConcurrency = 4
	DefaultFetchTimeout     = 30 * time.Second
	DefaultRequestTimeout   = 60 * time.Second
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Version: "1",
		Polaris: PolarisConfig{
			ToolName:         DefaultDASTToolName,
			RequestTimeout:   DefaultRequestTimeout,
			FetchTimeout:     DefaultFetchTimeout,
			FetchConcurrency: DefaultFetchConcurrency,
		},
		SRM: SRMConfig{
			AddinToolName:            DefaultAddinToolName,
			ToolDeclarationFile:      "scan_request_file.txt",
			SecretName:               DefaultSecretName,
			SecretKey:                DefaultSecretKey,
			RegisterDetectionMethods: true,
			RequestTimeout:           DefaultRequestTimeout,
		},
		Output: OutputConfig{
			Format:    OutputFormatConsole,
			Verbosity: VerbosityNormal,
			Color:     true,
		},
	}
}

// Secrets returns the configured credentials, for redaction.
func (c Config) Secrets() []string {
	var out []string
	for _, s := range []string{c.Polaris.APIKey, c.SRM.APIKey} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SRMProjectName returns the SRM project name, falling back to the
// Polaris project name.
func (c Config) SRMProjectName() string {
	if c.SRM.ProjectName != "" {
		return c.SRM.ProjectName
	}
	return c.Polaris.ProjectName
}

// ConfigOverrides allows CLI flags to override config file values.
type ConfigOverrides struct {
	PolarisURL         *string
	PolarisAPIKey      *string
	PolarisProjectName *string
	SRMURL             *string
	SRMAPIKey          *string
	SRMProjectName     *string
	SRMBranchName      *string
	Format             *OutputFormat
	Verbosity          *Verbosity
	NoColor            *bool
}

// Apply merges overrides into a config. Empty string overrides are ignored.
func (o ConfigOverrides) Apply(cfg Config) Config {
	result := cfg

	set := func(dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
		}
	}
	set(&result.Polaris.URL, o.PolarisURL)
	set(&result.Polaris.APIKey, o.PolarisAPIKey)
	set(&result.Polaris.ProjectName, o.PolarisProjectName)
	set(&result.SRM.URL, o.SRMURL)
	set(&result.SRM.APIKey, o.SRMAPIKey)
	set(&result.SRM.ProjectName, o.SRMProjectName)
	set(&result.SRM.BranchName, o.SRMBranchName)

	if o.Format != nil && *o.Format != "" {
		result.Output.Format = *o.Format
	}
	if o.Verbosity != nil {
		result.Output.Verbosity = *o.Verbosity
	}
	if o.NoColor != nil && *o.NoColor {
		result.Output.Color = false
	}

	return result
}
