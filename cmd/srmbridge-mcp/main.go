package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/config"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/mcp"
)

var version = "dev"

var (
	transport  string
	httpAddr   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "srmbridge-mcp",
	Short: "srmbridge MCP Server",
	Long: `srmbridge MCP (Model Context Protocol) Server.

Exposes the Polaris DAST and TORT MAST to SRM XML conversions through the
MCP protocol.

Tools:
  srm_convert_dast - Convert a Polaris DAST export to SRM XML
  srm_convert_mast - Convert a TORT MAST export to SRM XML

Resources:
  srmbridge://config  - Current configuration (API keys redacted)
  srmbridge://sources - Supported export formats

Examples:
  srmbridge-mcp                     # Start with stdio transport
  srmbridge-mcp --transport http    # Start HTTP server
  srmbridge-mcp --http-addr :9090   # HTTP on custom port`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport type: stdio, http")
	rootCmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (when using http transport)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	server := mcp.NewServer(cfg, version)

	switch transport {
	case "stdio":
		return server.ServeStdio(ctx)
	case "http":
		fmt.Fprintf(cmd.ErrOrStderr(), "Starting srmbridge MCP server on %s\n", httpAddr)
		return server.ServeHTTP(ctx, httpAddr)
	default:
		return fmt.Errorf("unsupported transport: %s", transport)
	}
}

// loadConfig reads the config file, or the default search paths when no
// file is given, and applies the environment.
func loadConfig() (ports.Config, error) {
	return config.NewLoader().Resolve(configPath, ports.ConfigOverrides{})
}
