package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// Config represents the complete srmbridge configuration file.
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Polaris PolarisConfig `yaml:"polaris" json:"polaris"`
	SRM     SRMConfig     `yaml:"srm" json:"srm"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// PolarisConfig holds Polaris access and DAST conversion settings.
type PolarisConfig struct {
	URL         string `yaml:"url" json:"url"`
	APIKey      string `yaml:"api_key" json:"api_key"`
	ProjectName string `yaml:"project_name" json:"project_name"`

	// ToolName is written to the report tool attribute of DAST reports.
	ToolName string `yaml:"tool_name" json:"tool_name"`

	RequestTimeout   time.Duration `yaml:"request_timeout" json:"request_timeout"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	FetchConcurrency int           `yaml:"fetch_concurrency" json:"fetch_concurrency"`
}

// SRMConfig holds SRM access and provisioning settings.
type SRMConfig struct {
	URL         string `yaml:"url" json:"url"`
	APIKey      string `yaml:"api_key" json:"api_key"`
	ProjectName string `yaml:"project_name" json:"project_name"` // defaults to polaris.project_name
	BranchName  string `yaml:"branch_name" json:"branch_name"`

	AddinToolName       string `yaml:"addin_tool_name" json:"addin_tool_name"`
	ToolDeclarationFile string `yaml:"tool_declaration_file" json:"tool_declaration_file"`
	SecretName          string `yaml:"secret_name" json:"secret_name"`
	SecretKey           string `yaml:"secret_key" json:"secret_key"`

	RegisterDetectionMethods bool          `yaml:"register_detection_methods" json:"register_detection_methods"`
	RequestTimeout           time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig defines output settings.
type OutputConfig struct {
	Format    string `yaml:"format" json:"format"`       // console, json
	Verbosity string `yaml:"verbosity" json:"verbosity"` // quiet, normal, verbose, debug
	Color     bool   `yaml:"color" json:"color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	d := ports.DefaultConfig()
	return &Config{
		Version: d.Version,
		Polaris: PolarisConfig{
			ToolName:         d.Polaris.ToolName,
			RequestTimeout:   d.Polaris.RequestTimeout,
			FetchTimeout:     d.Polaris.FetchTimeout,
			FetchConcurrency: d.Polaris.FetchConcurrency,
		},
		SRM: SRMConfig{
			AddinToolName:            d.SRM.AddinToolName,
			ToolDeclarationFile:      d.SRM.ToolDeclarationFile,
			SecretName:               d.SRM.SecretName,
			SecretKey:                d.SRM.SecretKey,
			RegisterDetectionMethods: d.SRM.RegisterDetectionMethods,
			RequestTimeout:           d.SRM.RequestTimeout,
		},
		Output: OutputConfig{
			Format:    string(d.Output.Format),
			Verbosity: string(d.Output.Verbosity),
			Color:     d.Output.Color,
		},
	}
}

// ToPortsConfig converts Config to ports.Config for use in use cases.
func (c *Config) ToPortsConfig() ports.Config {
	return ports.Config{
		Version: c.Version,
		Polaris: ports.PolarisConfig{
			URL:              c.Polaris.URL,
			APIKey:           c.Polaris.APIKey,
			ProjectName:      c.Polaris.ProjectName,
			ToolName:         c.Polaris.ToolName,
			RequestTimeout:   c.Polaris.RequestTimeout,
			FetchTimeout:     c.Polaris.FetchTimeout,
			FetchConcurrency: c.Polaris.FetchConcurrency,
		},
		SRM: ports.SRMConfig{
			URL:                      c.SRM.URL,
			APIKey:                   c.SRM.APIKey,
			ProjectName:              c.SRM.ProjectName,
			BranchName:               c.SRM.BranchName,
			AddinToolName:            c.SRM.AddinToolName,
			ToolDeclarationFile:      c.SRM.ToolDeclarationFile,
			SecretName:               c.SRM.SecretName,
			SecretKey:                c.SRM.SecretKey,
			RegisterDetectionMethods: c.SRM.RegisterDetectionMethods,
			RequestTimeout:           c.SRM.RequestTimeout,
		},
		Output: ports.OutputConfig{
			Format:    c.GetOutputFormat(),
			Verbosity: c.GetVerbosity(),
			Color:     c.Output.Color,
		},
	}
}

// GetOutputFormat returns the output format as a ports.OutputFormat.
func (c *Config) GetOutputFormat() ports.OutputFormat {
	if c.Output.Format == "json" {
		return ports.OutputFormatJSON
	}
	return ports.OutputFormatConsole
}

// GetVerbosity returns the verbosity as a ports.Verbosity.
func (c *Config) GetVerbosity() ports.Verbosity {
	switch c.Output.Verbosity {
	case "quiet":
		return ports.VerbosityQuiet
	case "verbose":
		return ports.VerbosityVerbose
	case "debug":
		return ports.VerbosityDebug
	default:
		return ports.VerbosityNormal
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() []error {
	var errs []error

	if c.Version == "" {
		errs = append(errs, &ValidationError{Field: "version", Message: "version is required"})
	}

	errs = append(errs, validateURL("polaris.url", c.Polaris.URL)...)
	errs = append(errs, validateURL("srm.url", c.SRM.URL)...)

	if c.Polaris.FetchConcurrency < 1 {
		errs = append(errs, &ValidationError{
			Field:   "polaris.fetch_concurrency",
			Message: "must be at least 1",
		})
	}
	if c.Polaris.FetchTimeout <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "polaris.fetch_timeout",
			Message: "must be positive",
		})
	}
	if c.Polaris.RequestTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "polaris.request_timeout", Message: "must be non-negative"})
	}
	if c.SRM.RequestTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "srm.request_timeout", Message: "must be non-negative"})
	}

	if c.SRM.SecretName == "" {
		errs = append(errs, &ValidationError{Field: "srm.secret_name", Message: "secret name is required"})
	}
	if c.SRM.SecretKey == "" {
		errs = append(errs, &ValidationError{Field: "srm.secret_key", Message: "secret key is required"})
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if c.Output.Format != "" && !validFormats[c.Output.Format] {
		errs = append(errs, &ValidationError{
			Field:   "output.format",
			Message: "must be one of: console, json",
		})
	}

	validVerbosity := map[string]bool{"quiet": true, "normal": true, "verbose": true, "debug": true}
	if c.Output.Verbosity != "" && !validVerbosity[c.Output.Verbosity] {
		errs = append(errs, &ValidationError{
			Field:   "output.verbosity",
			Message: "must be one of: quiet, normal, verbose, debug",
		})
	}

	return errs
}

func validateURL(field, raw string) []error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return []error{&ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", raw),
		}}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
