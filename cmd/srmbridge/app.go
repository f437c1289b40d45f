package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/application/usecases"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/polaris"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources"
	polarissource "github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources/polaris"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/srm"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/writers"
	"github.com/felixgeelhaar/srmbridge/pkg/exitcode"
)

// app holds the configuration and collaborators of one command run.
type app struct {
	cfg      ports.Config
	factory  *writers.Factory
	progress ports.ProgressWriter
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.Output.Verbosity {
	case ports.VerbosityQuiet, ports.VerbosityNormal, ports.VerbosityVerbose, ports.VerbosityDebug:
	default:
		return nil, fmt.Errorf("invalid verbosity %q (quiet, normal, verbose, debug)", cfg.Output.Verbosity)
	}

	factory := writers.NewFactory(
		writers.WithStreams(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		writers.WithSecrets(cfg.Secrets()...),
	)
	progress, err := factory.Create(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create writer: %w", err)
	}

	return &app{cfg: cfg, factory: factory, progress: progress}, nil
}

// polarisClient returns a Polaris client for pulling issues.
func (a *app) polarisClient() (*polaris.Client, error) {
	return polaris.NewClient(polaris.ClientConfig{
		BaseURL: a.cfg.Polaris.URL,
		APIKey:  a.cfg.Polaris.APIKey,
		Timeout: a.cfg.Polaris.RequestTimeout,
	})
}

// fetcher returns the artifact fetcher for DAST evidence, or nil when no
// Polaris API key is configured.
func (a *app) fetcher() ports.ArtifactFetcher {
	f, err := polaris.NewFetcher(polaris.ClientConfig{
		APIKey:  a.cfg.Polaris.APIKey,
		Timeout: a.cfg.Polaris.RequestTimeout,
	})
	if err != nil {
		_ = a.progress.WriteProgress("No Polaris API key configured; request/response evidence will be omitted")
		return nil
	}
	return f
}

// registry returns the converters for all supported sources. Evidence is
// only fetched for DAST runs.
func (a *app) registry(source ports.SourceID) *sources.Registry {
	opts := []polarissource.ExtractorOption{
		polarissource.WithMaxFetches(a.cfg.Polaris.FetchConcurrency),
		polarissource.WithFetchTimeout(a.cfg.Polaris.FetchTimeout),
	}
	if a.cfg.Output.Verbosity == ports.VerbosityDebug {
		opts = append(opts, polarissource.WithProgress(func(completed, total int) {
			_ = a.progress.WriteProgress(fmt.Sprintf("Fetched %d/%d evidence artifacts", completed, total))
		}))
	}
	var fetcher ports.ArtifactFetcher
	if source == ports.SourcePolarisDAST {
		fetcher = a.fetcher()
	}
	return sources.NewDefaultRegistry(fetcher, opts...)
}

// srmClient returns an SRM client.
func (a *app) srmClient() (*srm.Client, error) {
	return srm.NewClient(srm.ClientConfig{
		BaseURL: a.cfg.SRM.URL,
		APIKey:  a.cfg.SRM.APIKey,
		Timeout: a.cfg.SRM.RequestTimeout,
	})
}

// toolName returns the report tool name for source, honoring an explicit
// flag value first.
func (a *app) toolName(source ports.SourceID, flag string) string {
	if flag != "" {
		return flag
	}
	if source == ports.SourcePolarisDAST {
		return a.cfg.Polaris.ToolName
	}
	return ""
}

// finish reports a completed conversion and records the exit code.
func (a *app) finish(out usecases.ConvertReportOutput) error {
	if err := a.progress.WriteSummary(out.Conversion, out.OutputPath); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if out.Conversion != nil {
		runExitCode = exitcode.FromDiagnostics(out.Conversion.Diagnostics.Len(), strictMode)
	}
	return a.progress.Flush()
}
