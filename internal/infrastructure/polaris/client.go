// Package polaris provides Polaris API access for pulling DAST issues and
// their evidence artifacts.
package polaris

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/pkg/jsonutil"
)

var (
	// ErrMissingURL is returned when no Polaris URL is configured.
	ErrMissingURL = errors.New("polaris URL not configured (set POLARIS_URL or polaris.url)")

	// ErrMissingToken is returned when no Polaris API key is configured.
	ErrMissingToken = errors.New("polaris API key not configured (set POLARIS_API_KEY or polaris.api_key)")

	// ErrNotFound is returned when a portfolio, project or DAST sub-item
	// does not exist.
	ErrNotFound = errors.New("not found")
)

// maxErrorBody bounds how much of a failed response is kept in an APIError.
const maxErrorBody = 512

// APIError is a non-success response from Polaris.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("polaris %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("polaris %s: status %d - %s", e.Op, e.StatusCode, e.Body)
}

// Client provides Polaris API access.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// ClientConfig contains configuration for the Polaris client.
type ClientConfig struct {
	BaseURL    string // POLARIS_URL
	APIKey     string // POLARIS_API_KEY
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a new Polaris client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimRight(cfg.BaseURL, "/") == "" {
		return nil, ErrMissingURL
	}
	return NewFetcher(cfg)
}

// NewFetcher creates a client for FetchArtifact only. Artifact links are
// absolute, so no base URL is required.
func NewFetcher(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingToken
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
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// BaseURL returns the normalized Polaris URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchArtifact downloads an evidence artifact. Polaris serves artifacts
// base64 encoded; the decoded bytes are returned.
func (c *Client) FetchArtifact(ctx context.Context, artifactURL string) ([]byte, error) {
	body, err := c.get(ctx, "fetch artifact", artifactURL)
	if err != nil {
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	return decoded, nil
}

// PullIssues resolves projectName to its DAST sub-item and returns the
// issues list of the latest test, indented with four spaces.
func (c *Client) PullIssues(ctx context.Context, projectName string) ([]byte, error) {
	if projectName == "" {
		return nil, fmt.Errorf("polaris project name is required")
	}

	portfolioID, err := c.PortfolioID(ctx)
	if err != nil {
		return nil, err
	}
	itemID, err := c.PortfolioItemID(ctx, portfolioID, projectName)
	if err != nil {
		return nil, err
	}
	subItemID, err := c.DASTSubItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	raw, err := c.ListIssues(ctx, subItemID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return nil, fmt.Errorf("failed to format issues: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type itemList struct {
	Items []struct {
		ID          jsonutil.FlexString `json:"id"`
		SubItemType string              `json:"subItemType"`
	} `json:"_items"`
}

// PortfolioID returns the ID of the first portfolio visible to the API key.
func (c *Client) PortfolioID(ctx context.Context) (string, error) {
	var list itemList
	if err := c.getJSON(ctx, "get portfolio", c.endpoint("api/portfolio/portfolios", nil), &list); err != nil {
		return "", err
	}
	if len(list.Items) == 0 {
		return "", fmt.Errorf("portfolio: %w", ErrNotFound)
	}
	return list.Items[0].ID.String(), nil
}

// PortfolioItemID returns the ID of the project named projectName.
func (c *Client) PortfolioItemID(ctx context.Context, portfolioID, projectName string) (string, error) {
	query := url.Values{}
	query.Set("_filter", "name=="+projectName)
	query.Set("_limit", "10")

	path := "api/portfolio/portfolios/" + url.PathEscape(portfolioID) + "/portfolio-items"
	var list itemList
	if err := c.getJSON(ctx, "get project", c.endpoint(path, query), &list); err != nil {
		return "", err
	}
	if len(list.Items) == 0 {
		return "", fmt.Errorf("project %q: %w", projectName, ErrNotFound)
	}
	return list.Items[0].ID.String(), nil
}

// DASTSubItemID returns the DAST sub-item of a project.
func (c *Client) DASTSubItemID(ctx context.Context, portfolioItemID string) (string, error) {
	path := "api/portfolio/portfolio-items/" + url.PathEscape(portfolioItemID) + "/portfolio-sub-items"
	var list itemList
	if err := c.getJSON(ctx, "get DAST sub-item", c.endpoint(path, nil), &list); err != nil {
		return "", err
	}

	id := ""
	for _, item := range list.Items {
		if item.SubItemType == "DAST" {
			id = item.ID.String()
		}
	}
	if id == "" {
		return "", fmt.Errorf("DAST sub-item of portfolio item %s: %w", portfolioItemID, ErrNotFound)
	}
	return id, nil
}

// ListIssues returns the raw issues list of the latest test of a sub-item.
func (c *Client) ListIssues(ctx context.Context, subItemID string) ([]byte, error) {
	query := url.Values{}
	query.Set("portfolioSubItemId", subItemID)
	query.Set("testId", "latest")
	query.Set("_first", "500")
	query.Set("_includeAttributes", "true")

	body, err := c.get(ctx, "list issues", c.endpoint("api/specialization-layer-service/issues/_actions/list", query))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("polaris list issues: response is not JSON")
	}
	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, v any) error {
	body, err := c.get(ctx, op, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// get performs an authenticated GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polaris %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polaris %s: failed to read response: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

var (
	_ ports.ArtifactFetcher = (*Client)(nil)
	_ ports.IssueSource     = (*Client)(nil)
)
