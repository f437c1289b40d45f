package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/pathutil"
)

const (
	// DefaultConfigDir is the default directory for srmbridge config.
	DefaultConfigDir = ".srmbridge"

	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
)

// Environment variables read on top of the config file.
const (
	EnvPolarisURL         = "POLARIS_URL"
	EnvPolarisAPIKey      = "POLARIS_API_KEY"
	EnvPolarisProjectName = "POLARIS_PROJECT_NAME"
	EnvSRMURL             = "SRM_URL"
	EnvSRMAPIKey          = "SRM_API_KEY"
	EnvSRMProjectName     = "SRM_PROJECT_NAME"
	EnvSRMBranchName      = "SRM_PROJECT_BRANCH_NAME"
)

// Loader handles loading and merging configuration.
// Precedence: defaults < config file < environment < CLI flags.
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{
		configPaths: []string{
			filepath.Join(DefaultConfigDir, DefaultConfigFile),
			"srmbridge.yaml",
			".srmbridge.yaml",
		},
		getenv: os.Getenv,
	}
}

// NewLoaderWithPaths creates a loader with custom config paths.
func NewLoaderWithPaths(paths []string) *Loader {
	return &Loader{
		configPaths: paths,
		getenv:      os.Getenv,
	}
}

// WithEnv replaces the environment lookup. A nil getenv ignores the
// environment entirely.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	l.getenv = getenv
	return l
}

// Load loads configuration from the first available config file.
// Returns default config (plus environment) if no file is found.
func (l *Loader) Load() (*Config, error) {
	for _, path := range l.configPaths {
		if fileExists(path) {
			return l.LoadFromFile(path)
		}
	}

	cfg := DefaultConfig()
	l.applyEnv(cfg)
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigErrors{Errors: errs}
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	return l.LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func (l *Loader) LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	l.applyEnv(cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigErrors{Errors: errs}
	}

	return cfg, nil
}

// Resolve loads path (or the first config file found when path is empty)
// and applies CLI overrides.
func (l *Loader) Resolve(path string, overrides ports.ConfigOverrides) (ports.Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = l.LoadFromFile(path)
	} else {
		cfg, err = l.Load()
	}
	if err != nil {
		return ports.Config{}, err
	}

	return overrides.Apply(cfg.ToPortsConfig()), nil
}

func (l *Loader) applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := l.getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Polaris.URL, EnvPolarisURL)
	set(&cfg.Polaris.APIKey, EnvPolarisAPIKey)
	set(&cfg.Polaris.ProjectName, EnvPolarisProjectName)
	set(&cfg.SRM.URL, EnvSRMURL)
	set(&cfg.SRM.APIKey, EnvSRMAPIKey)
	set(&cfg.SRM.ProjectName, EnvSRMProjectName)
	set(&cfg.SRM.BranchName, EnvSRMBranchName)
}

// SaveToFile saves configuration to a file.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := pathutil.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig creates a default config file at the given path.
// Credentials are never written; they come from the environment.
func GenerateDefaultConfig(path string) error {
	return SaveToFile(DefaultConfig(), path)
}

// FindConfigFile finds the first available config file.
func FindConfigFile() (string, bool) {
	loader := NewLoader()
	for _, path := range loader.configPaths {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigErrors wraps multiple configuration errors.
type ConfigErrors struct {
	Errors []error
}

func (e *ConfigErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no configuration errors"
	}
	if len(e.Errors) == 1 {
		return "configuration error: " + e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d configuration errors:", len(e.Errors))
	for _, err := range e.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Unwrap returns the underlying errors.
func (e *ConfigErrors) Unwrap() []error {
	return e.Errors
}
