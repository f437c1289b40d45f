package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/infrastructure/sources"
)

const mastExport = `{
	"generatedBy": "tort",
	"metadata": {"endDate": "2024-05-02"},
	"findings": [
		{"identifier": 1, "name": "WEAK_CRYPTO", "risk": {"severity": "Critical"}, "foundBy": "Manual", "cweId": "327"},
		{"identifier": 2, "name": "LOGGING", "risk": {"severity": "minimal"}, "foundBy": "Automated"}
	]
}`

const dastExport = `{"_items":[{
	"id":"42",
	"type":{"name":"xss","_localized":{"name":"Cross Site Scripting"}},
	"attributes":[
		{"key":"severity","value":"medium"},
		{"key":"location","value":"https://app.example/search"},
		{"key":"evidence","value":[{"attack":{"payload":"x"},"_links":[{"rel":"response","href":"https://polaris.example/artifacts/resp"}]}]}
	]
}]}`

func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewServer(t *testing.T) {
	server := NewServer(ports.DefaultConfig(), "test")

	require.NotNil(t, server)
	assert.NotNil(t, server.mcpServer)
	assert.NotNil(t, server.registry)
	assert.Len(t, server.registry.All(), 2)
}

func TestNewServerWithRegistry_DefaultVersion(t *testing.T) {
	server := NewServerWithRegistry(ports.DefaultConfig(), sources.NewRegistry(), "")
	require.NotNil(t, server)
}

func TestHandleConvertMAST(t *testing.T) {
	input := writeExport(t, "mast.json", mastExport)
	output := filepath.Join(t.TempDir(), "out.xml")
	server := NewServer(ports.DefaultConfig(), "test")

	result, err := server.handleConvertMAST(context.Background(), ConvertInput{
		InputPath:  input,
		OutputPath: output,
	})

	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, "tort-mast", result.Source)
	assert.Equal(t, "tort", result.Tool)
	assert.Equal(t, "2024-05-02", result.Date)
	assert.Equal(t, output, result.OutputPath)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, map[string]int{"critical": 1, "info": 1}, result.BySeverity)
	assert.Equal(t, []string{"Manual", "Automated"}, result.DetectionMethods)
	assert.Empty(t, result.Diagnostics)
	assert.FileExists(t, output)
}

func TestHandleConvertMAST_ToolNameOverride(t *testing.T) {
	input := writeExport(t, "mast.json", mastExport)
	server := NewServer(ports.DefaultConfig(), "test")

	result, err := server.handleConvertMAST(context.Background(), ConvertInput{
		InputPath:  input,
		OutputPath: filepath.Join(t.TempDir(), "out.xml"),
		ToolName:   "mobsec",
	})

	require.NoError(t, err)
	assert.Equal(t, "mobsec", result.Tool)
}

func TestHandleConvertDAST_WithoutFetcherIsDegraded(t *testing.T) {
	input := writeExport(t, "export.json", dastExport)
	output := filepath.Join(t.TempDir(), "out.xml")
	server := NewServer(ports.DefaultConfig(), "test")

	result, err := server.handleConvertDAST(context.Background(), ConvertInput{
		InputPath:  input,
		OutputPath: output,
	})

	require.NoError(t, err)
	assert.Equal(t, "degraded", result.Status)
	assert.Equal(t, "fAST-DAST", result.Tool)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, 1, result.FetchFailures)
	assert.Len(t, result.Diagnostics, 1)
	assert.FileExists(t, output)
}

func TestHandleConvert_MissingInputPath(t *testing.T) {
	server := NewServer(ports.DefaultConfig(), "test")

	_, err := server.handleConvertDAST(context.Background(), ConvertInput{})

	assert.ErrorIs(t, err, ErrInputPathRequired)
}

func TestHandleConvert_MalformedInputWritesNothing(t *testing.T) {
	input := writeExport(t, "mast.json", `[1, 2, 3]`)
	output := filepath.Join(t.TempDir(), "out.xml")
	server := NewServer(ports.DefaultConfig(), "test")

	_, err := server.handleConvertMAST(context.Background(), ConvertInput{
		InputPath:  input,
		OutputPath: output,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversion failed")
	assert.NoFileExists(t, output)
}

func TestHandleConvert_UnknownSource(t *testing.T) {
	input := writeExport(t, "mast.json", mastExport)
	server := NewServerWithRegistry(ports.DefaultConfig(), sources.NewRegistry(), "test")

	_, err := server.handleConvertMAST(context.Background(), ConvertInput{InputPath: input})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestHandleConfigResource_RedactsKeys(t *testing.T) {
	cfg := ports.DefaultConfig()
	cfg.Polaris.URL = "https://polaris.example"
	cfg.Polaris.APIKey = "polaris-secret-key"
	cfg.Polaris.ProjectName = "WebGoat"
	cfg.SRM.APIKey = "srm-secret-key"
	server := NewServer(cfg, "test")

	content, err := server.handleConfigResource(context.Background(), "srmbridge://config", nil)

	require.NoError(t, err)
	assert.Equal(t, "srmbridge://config", content.URI)
	assert.Equal(t, "application/json", content.MimeType)
	assert.NotContains(t, content.Text, "polaris-secret-key")
	assert.NotContains(t, content.Text, "srm-secret-key")

	var data configResourceData
	require.NoError(t, json.Unmarshal([]byte(content.Text), &data))
	assert.Equal(t, "[REDACTED]", data.Polaris.APIKey)
	assert.Equal(t, "https://polaris.example", data.Polaris.URL)
	assert.Equal(t, "WebGoat", data.SRM.ProjectName)
	assert.Equal(t, "30s", data.Polaris.FetchTimeout)
}

func TestHandleConfigResource_EmptyKeys(t *testing.T) {
	server := NewServer(ports.DefaultConfig(), "test")

	content, err := server.handleConfigResource(context.Background(), "srmbridge://config", nil)

	require.NoError(t, err)
	var data configResourceData
	require.NoError(t, json.Unmarshal([]byte(content.Text), &data))
	assert.Empty(t, data.Polaris.APIKey)
	assert.Empty(t, data.SRM.APIKey)
}

func TestHandleSourcesResource(t *testing.T) {
	server := NewServer(ports.DefaultConfig(), "test")

	content, err := server.handleSourcesResource(context.Background(), "srmbridge://sources", nil)

	require.NoError(t, err)
	var data sourcesResourceData
	require.NoError(t, json.Unmarshal([]byte(content.Text), &data))
	assert.Equal(t, []string{"polaris-dast", "tort-mast"}, data.Sources)
	assert.Contains(t, data.Severities, "critical")
	assert.Contains(t, data.Severities, "unspecified")
}
