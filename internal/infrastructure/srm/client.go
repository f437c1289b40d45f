// Package srm provides Software Risk Manager API access for project
// provisioning and findings uploads.
package srm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/jsonutil"
	"github.com/felixgeelhaar/srmbridge/pkg/pathutil"
)

var (
	// ErrMissingURL is returned when no SRM URL is configured.
	ErrMissingURL = errors.New("SRM URL not configured (set SRM_URL or srm.url)")

	// ErrMissingToken is returned when no SRM API key is configured.
	ErrMissingToken = errors.New("SRM API key not configured (set SRM_API_KEY or srm.api_key)")
)

const maxErrorBody = 512

// APIError is an unexpected response from SRM.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("SRM %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("SRM %s: status %d - %s", e.Op, e.StatusCode, e.Body)
}

// Client provides SRM API access.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// ClientConfig contains configuration for the SRM client.
type ClientConfig struct {
	BaseURL    string // SRM_URL
	APIKey     string // SRM_API_KEY
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a new SRM client. The base URL always ends in a slash.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingURL
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingToken
	}

	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = ports.DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// BaseURL returns the normalized SRM URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Projects

type projectJSON struct {
	ID   jsonutil.FlexString `json:"id"`
	Name string              `json:"name"`
}

// ListProjects returns all projects visible to the API key.
func (c *Client) ListProjects(ctx context.Context) ([]ports.Project, error) {
	var resp struct {
		Projects []projectJSON `json:"projects"`
	}
	if err := c.doJSON(ctx, "list projects", http.MethodGet, "srm/api/projects", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}

	projects := make([]ports.Project, len(resp.Projects))
	for i, p := range resp.Projects {
		projects[i] = ports.Project{ID: p.ID.String(), Name: p.Name}
	}
	return projects, nil
}

// FindProject looks a project up by name, case-insensitively.
func (c *Client) FindProject(ctx context.Context, name string) (*ports.Project, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, name string) (*ports.Project, error) {
	var resp projectJSON
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, "create project", http.MethodPost, "srm/api/projects", body, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &ports.Project{ID: resp.ID.String(), Name: name}, nil
}

// Analysis

// ListBranches returns the branches of a project.
func (c *Client) ListBranches(ctx context.Context, projectID string) ([]ports.Branch, error) {
	var resp []struct {
		Name      string `json:"name"`
		IsDefault bool   `json:"isDefault"`
	}
	path := "srm/x/projects/" + url.PathEscape(projectID) + "/branches"
	if err := c.doJSON(ctx, "list branches", http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}

	branches := make([]ports.Branch, len(resp))
	for i, b := range resp {
		branches[i] = ports.Branch{Name: b.Name, IsDefault: b.IsDefault}
	}
	return branches, nil
}

// CreateAnalysisPrep opens an analysis preparation for a project.
func (c *Client) CreateAnalysisPrep(ctx context.Context, projectID string) (string, error) {
	var resp struct {
		PrepID jsonutil.FlexString `json:"prepId"`
	}
	body := map[string]any{"projectId": projectIDValue(projectID)}
	if err := c.doJSON(ctx, "create analysis prep", http.MethodPost, "srm/api/analysis-prep", body, &resp, http.StatusOK); err != nil {
		return "", err
	}
	if resp.PrepID == "" {
		return "", fmt.Errorf("SRM create analysis prep: response has no prepId")
	}
	return resp.PrepID.String(), nil
}

// SetPrepBranch selects the branch an analysis preparation targets.
func (c *Client) SetPrepBranch(ctx context.Context, prepID string, branch ports.BranchSelection) error {
	var body any
	if branch.IsNew() {
		body = map[string]any{"branch": map[string]string{"parent": branch.Parent, "name": branch.Name}}
	} else {
		body = map[string]any{"branch": branch.Name}
	}
	path := "srm/x/analysis-prep/" + url.PathEscape(prepID) + "/branch"
	return c.doJSON(ctx, "set analysis branch", http.MethodPut, path, body, nil, http.StatusOK)
}

// UploadPrepFile attaches a findings file to an analysis preparation.
func (c *Client) UploadPrepFile(ctx context.Context, prepID, path string) error {
	endpoint := "srm/api/analysis-prep/" + url.PathEscape(prepID) + "/upload"
	return c.upload(ctx, "upload file", endpoint, path)
}

// Analyze starts the analysis of a preparation.
func (c *Client) Analyze(ctx context.Context, prepID string) (*ports.AnalysisJob, error) {
	var resp struct {
		JobID      jsonutil.FlexString `json:"jobId"`
		AnalysisID jsonutil.FlexString `json:"analysisId"`
	}
	path := "srm/api/analysis-prep/" + url.PathEscape(prepID) + "/analyze"
	if err := c.doJSON(ctx, "start analysis", http.MethodPost, path, nil, &resp, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &ports.AnalysisJob{JobID: resp.JobID.String(), AnalysisID: resp.AnalysisID.String()}, nil
}

// UploadAnalysis uploads a file straight to the project's default branch.
func (c *Client) UploadAnalysis(ctx context.Context, projectID, path string) error {
	endpoint := "srm/api/projects/" + url.PathEscape(projectID) + "/analysis"
	return c.upload(ctx, "upload analysis", endpoint, path)
}

// Tool service

type addinToolJSON struct {
	ID   jsonutil.FlexString `json:"id"`
	Name string              `json:"name"`
}

// FindAddinTool looks an add-in tool up by name, case-insensitively.
func (c *Client) FindAddinTool(ctx context.Context, name string) (*ports.AddinTool, error) {
	var tools []addinToolJSON
	if err := c.doJSON(ctx, "list add-in tools", http.MethodGet, "srm/x/admin/addin-tools", nil, &tools, http.StatusOK); err != nil {
		return nil, err
	}
	for _, t := range tools {
		if strings.EqualFold(t.Name, name) {
			return &ports.AddinTool{ID: t.ID.String(), Name: t.Name}, nil
		}
	}
	return nil, nil
}

// CreateAddinTool registers an add-in tool from its declaration.
func (c *Client) CreateAddinTool(ctx context.Context, name string, declaration []byte) (*ports.AddinTool, error) {
	body := map[string]any{
		"id":              "",
		"name":            name,
		"acceptedTags":    []string{},
		"toolDeclaration": string(declaration),
	}
	var resp addinToolJSON
	if err := c.doJSON(ctx, "create add-in tool", http.MethodPost, "srm/x/admin/addin-tools", body, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &ports.AddinTool{ID: resp.ID.String(), Name: name}, nil
}

// FindProjectSecret returns the name of the project secret matching name
// case-insensitively, or "" when there is none.
func (c *Client) FindProjectSecret(ctx context.Context, projectID, name string) (string, error) {
	var secrets []struct {
		Name string `json:"name"`
	}
	path := "srm/x/toolservice/secrets/" + url.PathEscape(projectID)
	if err := c.doJSON(ctx, "list project secrets", http.MethodGet, path, nil, &secrets, http.StatusOK); err != nil {
		return "", err
	}
	for _, s := range secrets {
		if strings.EqualFold(s.Name, name) {
			return s.Name, nil
		}
	}
	return "", nil
}

// CreateProjectSecret stores a sensitive value as a project secret and
// returns the secret name.
func (c *Client) CreateProjectSecret(ctx context.Context, projectID string, secret ports.SecretSpec) (string, error) {
	body := map[string]any{
		"name": secret.Name,
		"fields": []map[string]any{{
			"key":         secret.Key,
			"value":       secret.Value,
			"isSensitive": true,
		}},
	}
	path := "srm/x/toolservice/secrets/" + url.PathEscape(projectID)
	if err := c.doJSON(ctx, "create project secret", http.MethodPost, path, body, nil, http.StatusOK); err != nil {
		return "", err
	}
	return secret.Name, nil
}

// ConfigureAddinTool writes the tool service configuration of a project.
func (c *Client) ConfigureAddinTool(ctx context.Context, projectID, toolID string, cfg ports.ToolServiceConfig) error {
	allowed := cfg.AllowedSecrets
	if allowed == nil {
		allowed = []string{}
	}
	body := map[string]any{
		"newContent":     cfg.Content,
		"allowedSecrets": allowed,
		"isEnabled":      cfg.Enabled,
	}
	path := "srm/x/toolservice/addin-tools/" + url.PathEscape(projectID) + "/" + url.PathEscape(toolID)
	return c.doJSON(ctx, "configure add-in tool", http.MethodPost, path, body, nil, http.StatusOK)
}

// Detection methods

// ListDetectionMethods returns the names of the registered detection methods.
func (c *Client) ListDetectionMethods(ctx context.Context) ([]string, error) {
	var methods []struct {
		Name string `json:"name"`
	}
	if err := c.doJSON(ctx, "list detection methods", http.MethodGet, "srm/x/detection-methods", nil, &methods, http.StatusOK); err != nil {
		return nil, err
	}
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return names, nil
}

// CreateDetectionMethod registers a detection method.
func (c *Client) CreateDetectionMethod(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.doJSON(ctx, "create detection method", http.MethodPost, "srm/x/detection-methods", body, nil, http.StatusOK, http.StatusCreated)
}

// Transport

// projectIDValue sends numeric project IDs as JSON numbers.
func projectIDValue(id string) any {
	if id != "" && strings.Trim(id, "0123456789") == "" {
		return json.Number(id)
	}
	return id
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any, expect ...int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, err := c.do(req, op, expect...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// upload posts path as the multipart field "file" and expects 202.
func (c *Client) upload(ctx context.Context, op, endpoint, path string) error {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return fmt.Errorf("invalid upload path: %w", err)
	}
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return fmt.Errorf("failed to read upload file: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(cleanPath))
	if err != nil {
		return fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = c.do(req, op, http.StatusAccepted)
	return err
}

func (c *Client) do(req *http.Request, op string, expect ...int) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SRM %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("SRM %s: failed to read response: %w", op, err)
	}

	for _, code := range expect {
		if resp.StatusCode == code {
			return body, nil
		}
	}

	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

var _ ports.SRMClient = (*Client)(nil)
