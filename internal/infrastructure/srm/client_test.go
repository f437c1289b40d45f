package srm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

const testAPIKey = "srm-test-key"

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: testAPIKey})
	require.NoError(t, err)
	return c
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func writeUploadFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, os.WriteFile(path, []byte("<report/>"), 0o600))
	return path
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ClientConfig{APIKey: "k"})
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = NewClient(ClientConfig{BaseURL: "https://srm.example"})
	assert.ErrorIs(t, err, ErrMissingToken)

	c, err := NewClient(ClientConfig{BaseURL: "https://srm.example", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://srm.example/", c.BaseURL())
	assert.Equal(t, ports.DefaultRequestTimeout, c.client.Timeout)

	c, err = NewClient(ClientConfig{BaseURL: "https://srm.example/srm-root/", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://srm.example/srm-root/", c.BaseURL())
}

func TestClient_FindProject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /srm/api/projects", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"projects":[{"id":7,"name":"WebGoat"},{"id":"8","name":"Other"}]}`)
	})
	c := newTestClient(t, mux)

	p, err := c.FindProject(context.Background(), "webgoat")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "WebGoat", p.Name)

	p, err = c.FindProject(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestClient_CreateProject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /srm/api/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{"name": "WebGoat"}, decodeBody(t, r))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":42}`)
	})
	c := newTestClient(t, mux)

	p, err := c.CreateProject(context.Background(), "WebGoat")

	require.NoError(t, err)
	assert.Equal(t, &ports.Project{ID: "42", Name: "WebGoat"}, p)
}

func TestClient_CreateProject_UnexpectedStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /srm/api/projects", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "name taken", http.StatusConflict)
	})
	c := newTestClient(t, mux)

	p, err := c.CreateProject(context.Background(), "WebGoat")

	assert.Nil(t, p)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "name taken", apiErr.Body)
	assert.Equal(t, "SRM create project: status 409 - name taken", err.Error())
}

func TestClient_BranchUpload(t *testing.T) {
	var steps []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /srm/x/projects/7/branches", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "branches")
		io.WriteString(w, `[{"name":"main","isDefault":true},{"name":"dev","isDefault":false}]`)
	})
	mux.HandleFunc("POST /srm/api/analysis-prep", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "prep")
		assert.Equal(t, map[string]any{"projectId": float64(7)}, decodeBody(t, r))
		io.WriteString(w, `{"prepId":"abc"}`)
	})
	mux.HandleFunc("PUT /srm/x/analysis-prep/abc/branch", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "branch")
		assert.Equal(t, map[string]any{
			"branch": map[string]any{"parent": "main", "name": "feature"},
		}, decodeBody(t, r))
	})
	mux.HandleFunc("POST /srm/api/analysis-prep/abc/upload", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "upload")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "report.xml", hdr.Filename)
		assert.Equal(t, "<report/>", string(data))
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("POST /srm/api/analysis-prep/abc/analyze", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "analyze")
		w.WriteHeader(http.StatusAccepted)
		io.WriteString(w, `{"jobId":"job-1","analysisId":12}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	branches, err := c.ListBranches(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []ports.Branch{{Name: "main", IsDefault: true}, {Name: "dev"}}, branches)

	prep, err := c.CreateAnalysisPrep(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "abc", prep)

	require.NoError(t, c.SetPrepBranch(ctx, prep, ports.BranchSelection{Name: "feature", Parent: "main"}))
	require.NoError(t, c.UploadPrepFile(ctx, prep, writeUploadFile(t)))

	job, err := c.Analyze(ctx, prep)
	require.NoError(t, err)
	assert.Equal(t, &ports.AnalysisJob{JobID: "job-1", AnalysisID: "12"}, job)

	assert.Equal(t, []string{"branches", "prep", "branch", "upload", "analyze"}, steps)
}

func TestClient_SetPrepBranch_Existing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /srm/x/analysis-prep/abc/branch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, map[string]any{"branch": "dev"}, decodeBody(t, r))
	})
	c := newTestClient(t, mux)

	assert.NoError(t, c.SetPrepBranch(context.Background(), "abc", ports.BranchSelection{Name: "dev"}))
}

func TestClient_CreateAnalysisPrep_MissingID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /srm/api/analysis-prep", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	c := newTestClient(t, mux)

	_, err := c.CreateAnalysisPrep(context.Background(), "7")

	assert.ErrorContains(t, err, "no prepId")
}

func TestClient_UploadAnalysis(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /srm/api/projects/7/analysis", func(w http.ResponseWriter, r *http.Request) {
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		w.WriteHeader(http.StatusAccepted)
	})
	c := newTestClient(t, mux)

	assert.NoError(t, c.UploadAnalysis(context.Background(), "7", writeUploadFile(t)))
}

func TestClient_UploadAnalysis_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /srm/api/projects/7/analysis", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, mux)

	err := c.UploadAnalysis(context.Background(), "7", writeUploadFile(t))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestClient_UploadAnalysis_MissingFile(t *testing.T) {
	mux := http.NewServeMux()
	c := newTestClient(t, mux)

	err := c.UploadAnalysis(context.Background(), "7", filepath.Join(t.TempDir(), "absent.xml"))

	assert.ErrorContains(t, err, "failed to read upload file")
}

func TestClient_AddinTools(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /srm/x/admin/addin-tools", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":3,"name":"Polaris DAST"}]`)
	})
	mux.HandleFunc("POST /srm/x/admin/addin-tools", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, map[string]any{
			"id":              "",
			"name":            "Other",
			"acceptedTags":    []any{},
			"toolDeclaration": "declaration",
		}, decodeBody(t, r))
		io.WriteString(w, `{"id":9}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	tool, err := c.FindAddinTool(ctx, "polaris dast")
	require.NoError(t, err)
	assert.Equal(t, &ports.AddinTool{ID: "3", Name: "Polaris DAST"}, tool)

	tool, err = c.FindAddinTool(ctx, "Other")
	require.NoError(t, err)
	assert.Nil(t, tool)

	tool, err = c.CreateAddinTool(ctx, "Other", []byte("declaration"))
	require.NoError(t, err)
	assert.Equal(t, &ports.AddinTool{ID: "9", Name: "Other"}, tool)
}

func TestClient_ProjectSecrets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /srm/x/toolservice/secrets/7", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"name":"PolarisKey"}]`)
	})
	mux.HandleFunc("POST /srm/x/toolservice/secrets/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, map[string]any{
			"name": "other",
			"fields": []any{map[string]any{
				"key":         "apikey",
				"value":       "secret",
				"isSensitive": true,
			}},
		}, decodeBody(t, r))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	name, err := c.FindProjectSecret(ctx, "7", "polariskey")
	require.NoError(t, err)
	assert.Equal(t, "PolarisKey", name)

	name, err = c.FindProjectSecret(ctx, "7", "other")
	require.NoError(t, err)
	assert.Empty(t, name)

	name, err = c.CreateProjectSecret(ctx, "7", ports.SecretSpec{Name: "other", Key: "apikey", Value: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "other", name)
}

func TestClient_ConfigureAddinTool(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /srm/x/toolservice/addin-tools/7/3", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, map[string]any{
			"newContent":     "[polaris]\nproject=\"P\"",
			"allowedSecrets": []any{"polariskey"},
			"isEnabled":      true,
		}, decodeBody(t, r))
	})
	c := newTestClient(t, mux)

	err := c.ConfigureAddinTool(context.Background(), "7", "3", ports.ToolServiceConfig{
		Content:        "[polaris]\nproject=\"P\"",
		AllowedSecrets: []string{"polariskey"},
		Enabled:        true,
	})

	assert.NoError(t, err)
}

func TestClient_DetectionMethods(t *testing.T) {
	var created []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /srm/x/detection-methods", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"name":"dynamic"},{"id":2,"name":"manual"}]`)
	})
	mux.HandleFunc("POST /srm/x/detection-methods", func(w http.ResponseWriter, r *http.Request) {
		created = append(created, decodeBody(t, r)["name"].(string))
		w.WriteHeader(http.StatusCreated)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	methods, err := c.ListDetectionMethods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamic", "manual"}, methods)

	require.NoError(t, c.CreateDetectionMethod(ctx, "Static"))
	assert.Equal(t, []string{"Static"}, created)
}

func TestClient_CanceledContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /srm/api/projects", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"projects":[]}`)
	})
	c := newTestClient(t, mux)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FindProject(ctx, "x")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestProjectIDValue(t *testing.T) {
	assert.Equal(t, json.Number("12"), projectIDValue("12"))
	assert.Equal(t, "p-12", projectIDValue("p-12"))
	assert.Equal(t, "", projectIDValue(""))
}
