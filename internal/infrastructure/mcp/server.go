package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/application/usecases"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/polaris"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources"
	polarissource "github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources/polaris"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/writers"
	"github.com/felixgeelhaar/srmbridge/pkg/redact"
)

// ErrInputPathRequired is returned when a conversion tool is called without an input file.
var ErrInputPathRequired = errors.New("input_path is required")

// Server wraps the MCP server with srmbridge conversions.
type Server struct {
	mcpServer *mcp.Server
	config    ports.Config
	registry  ports.ConverterRegistry
	writer    ports.ReportWriter
	redactor  *redact.Redactor
}

// NewServer creates a new srmbridge MCP server. DAST evidence is fetched
// from Polaris when an API key is configured.
func NewServer(cfg ports.Config, version string) *Server {
	var fetcher ports.ArtifactFetcher
	if f, err := polaris.NewFetcher(polaris.ClientConfig{
		APIKey:  cfg.Polaris.APIKey,
		Timeout: cfg.Polaris.RequestTimeout,
	}); err == nil {
		fetcher = f
	}
	registry := sources.NewDefaultRegistry(fetcher,
		polarissource.WithMaxFetches(cfg.Polaris.FetchConcurrency),
		polarissource.WithFetchTimeout(cfg.Polaris.FetchTimeout),
	)
	return NewServerWithRegistry(cfg, registry, version)
}

// NewServerWithRegistry creates a new srmbridge MCP server with a custom registry.
// This is primarily used for testing with stub converters.
func NewServerWithRegistry(cfg ports.Config, registry ports.ConverterRegistry, version string) *Server {
	if version == "" {
		version = "dev"
	}
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "srmbridge",
		Version: version,
		Capabilities: mcp.Capabilities{
			Tools:     true,
			Resources: true,
		},
	})

	s := &Server{
		mcpServer: srv,
		config:    cfg,
		registry:  registry,
		writer:    writers.NewSRMXMLWriter(),
		redactor:  redact.New(redact.WithSecrets(cfg.Secrets()...)),
	}

	s.registerTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server with stdio transport.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server with HTTP transport.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr,
		mcp.WithReadTimeout(60*time.Second),
		mcp.WithWriteTimeout(60*time.Second),
	)
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("srm_convert_dast").
		Description("Convert a Polaris DAST issue export to SRM findings-import XML. Request/response evidence is fetched from Polaris when an API key is configured.").
		Handler(s.handleConvertDAST)

	s.mcpServer.Tool("srm_convert_mast").
		Description("Convert a TORT MAST JSON export to SRM findings-import XML.").
		Handler(s.handleConvertMAST)
}

func (s *Server) registerResources() {
	s.mcpServer.Resource("srmbridge://config").
		Name("Configuration").
		Description("Current srmbridge configuration. API keys are redacted.").
		MimeType("application/json").
		Handler(s.handleConfigResource)

	s.mcpServer.Resource("srmbridge://sources").
		Name("Sources").
		Description("Scanner export formats that can be converted.").
		MimeType("application/json").
		Handler(s.handleSourcesResource)
}

// ConvertInput defines the input for conversion tools.
type ConvertInput struct {
	InputPath  string `json:"input_path" jsonschema:"description=Path to the scanner JSON export"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"description=Path of the SRM XML file to write (default srm-output.xml)"`
	ToolName   string `json:"tool_name,omitempty" jsonschema:"description=Override the report tool name"`
}

// ConvertResult represents the result of a conversion.
type ConvertResult struct {
	Status           string         `json:"status"`
	Source           string         `json:"source"`
	Tool             string         `json:"tool"`
	Date             string         `json:"date"`
	OutputPath       string         `json:"output_path"`
	TotalCount       int            `json:"total_count"`
	BySeverity       map[string]int `json:"by_severity"`
	DetectionMethods []string       `json:"detection_methods,omitempty"`
	Diagnostics      []string       `json:"diagnostics,omitempty"`
	FetchFailures    int            `json:"fetch_failures"`
	Duration         string         `json:"duration"`
}

func (s *Server) handleConvertDAST(ctx context.Context, input ConvertInput) (*ConvertResult, error) {
	toolName := input.ToolName
	if toolName == "" {
		toolName = s.config.Polaris.ToolName
	}
	return s.convert(ctx, ports.SourcePolarisDAST, input, toolName)
}

func (s *Server) handleConvertMAST(ctx context.Context, input ConvertInput) (*ConvertResult, error) {
	return s.convert(ctx, ports.SourceTortMAST, input, input.ToolName)
}

func (s *Server) convert(ctx context.Context, source ports.SourceID, input ConvertInput, toolName string) (*ConvertResult, error) {
	if input.InputPath == "" {
		return nil, ErrInputPathRequired
	}
	start := time.Now()

	uc := usecases.NewConvertReportUseCase(s.registry, s.writer, writers.NewSilentWriter())
	out, err := uc.Execute(ctx, usecases.ConvertReportInput{
		Source:     source,
		InputPath:  input.InputPath,
		OutputPath: input.OutputPath,
		ToolName:   toolName,
	})
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %s", s.redactor.RedactString(err.Error()))
	}

	c := out.Conversion
	result := &ConvertResult{
		Status:           "completed",
		Source:           source.String(),
		Tool:             c.Report.Tool(),
		Date:             c.Report.Date(),
		OutputPath:       out.OutputPath,
		TotalCount:       c.FindingCount(),
		BySeverity:       make(map[string]int),
		DetectionMethods: c.DetectionMethods,
		FetchFailures:    len(c.Diagnostics.FetchFailures()),
		Duration:         time.Since(start).String(),
	}
	if !c.Diagnostics.Empty() {
		result.Status = "degraded"
	}
	for sev, n := range c.Report.Summary() {
		if n > 0 {
			result.BySeverity[sev.String()] = n
		}
	}
	for _, d := range c.Diagnostics.Strings() {
		result.Diagnostics = append(result.Diagnostics, s.redactor.RedactString(d))
	}

	return result, nil
}

// configResourceData represents the config resource structure for JSON marshaling.
type configResourceData struct {
	Version string            `json:"version"`
	Polaris configPolarisData `json:"polaris"`
	SRM     configSRMData     `json:"srm"`
}

type configPolarisData struct {
	URL              string `json:"url"`
	APIKey           string `json:"api_key"`
	ProjectName      string `json:"project_name"`
	ToolName         string `json:"tool_name"`
	FetchTimeout     string `json:"fetch_timeout"`
	FetchConcurrency int    `json:"fetch_concurrency"`
}

type configSRMData struct {
	URL                      string `json:"url"`
	APIKey                   string `json:"api_key"`
	ProjectName              string `json:"project_name"`
	BranchName               string `json:"branch_name"`
	AddinToolName            string `json:"addin_tool_name"`
	RegisterDetectionMethods bool   `json:"register_detection_methods"`
}

func (s *Server) handleConfigResource(_ context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	cfg := s.config
	data := configResourceData{
		Version: cfg.Version,
		Polaris: configPolarisData{
			URL:              cfg.Polaris.URL,
			APIKey:           redact.RedactFull(cfg.Polaris.APIKey),
			ProjectName:      cfg.Polaris.ProjectName,
			ToolName:         cfg.Polaris.ToolName,
			FetchTimeout:     cfg.Polaris.FetchTimeout.String(),
			FetchConcurrency: cfg.Polaris.FetchConcurrency,
		},
		SRM: configSRMData{
			URL:                      cfg.SRM.URL,
			APIKey:                   redact.RedactFull(cfg.SRM.APIKey),
			ProjectName:              cfg.SRMProjectName(),
			BranchName:               cfg.SRM.BranchName,
			AddinToolName:            cfg.SRM.AddinToolName,
			RegisterDetectionMethods: cfg.SRM.RegisterDetectionMethods,
		},
	}

	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(jsonBytes),
	}, nil
}

type sourcesResourceData struct {
	Sources    []string `json:"sources"`
	Severities []string `json:"severities"`
}

func (s *Server) handleSourcesResource(_ context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	data := sourcesResourceData{
		Sources:    []string{},
		Severities: make([]string, 0, len(finding.AllSeverities())),
	}
	for _, c := range s.registry.All() {
		data.Sources = append(data.Sources, c.ID().String())
	}
	sort.Strings(data.Sources)
	for _, sev := range finding.AllSeverities() {
		data.Severities = append(data.Severities, sev.String())
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sources: %w", err)
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(jsonBytes),
	}, nil
}
