package mocks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// MockSRMClient is an in-memory SRM. Every call is recorded in Calls as
// "Method arg..." so tests can assert on the request sequence.
type MockSRMClient struct {
	mu sync.Mutex

	Projects         []ports.Project
	Branches         map[string][]ports.Branch // by project ID
	Tools            []ports.AddinTool
	Secrets          map[string][]ports.SecretSpec // by project ID
	DetectionMethods []string
	ToolConfigs      map[string]ports.ToolServiceConfig // by "project/tool"
	Uploads          []Upload
	Calls            []string

	nextID int

	// Err, when set, is returned by the method named by its key.
	Err map[string]error
}

// Upload records one uploaded findings file.
type Upload struct {
	ProjectID string
	Branch    ports.BranchSelection
	Path      string
}

// NewMockSRMClient creates an empty SRM.
func NewMockSRMClient() *MockSRMClient {
	return &MockSRMClient{
		Branches:    make(map[string][]ports.Branch),
		Secrets:     make(map[string][]ports.SecretSpec),
		ToolConfigs: make(map[string]ports.ToolServiceConfig),
		Err:         make(map[string]error),
		nextID:      100,
	}
}

// WithProject adds an existing project with the given branches.
func (m *MockSRMClient) WithProject(id, name string, branches ...ports.Branch) *MockSRMClient {
	m.Projects = append(m.Projects, ports.Project{ID: id, Name: name})
	m.Branches[id] = branches
	return m
}

// WithError makes method fail with err.
func (m *MockSRMClient) WithError(method string, err error) *MockSRMClient {
	m.Err[method] = err
	return m
}

func (m *MockSRMClient) record(method string, args ...string) error {
	m.Calls = append(m.Calls, strings.TrimSpace(method+" "+strings.Join(args, " ")))
	return m.Err[method]
}

func (m *MockSRMClient) newID() string {
	m.nextID++
	return strconv.Itoa(m.nextID)
}

// CallNames returns the method names of all recorded calls.
func (m *MockSRMClient) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		names[i], _, _ = strings.Cut(c, " ")
	}
	return names
}

// FindProject looks a project up by name, case-insensitively.
func (m *MockSRMClient) FindProject(_ context.Context, name string) (*ports.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindProject", name); err != nil {
		return nil, err
	}
	for _, p := range m.Projects {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// CreateProject creates a project with a default "main" branch.
func (m *MockSRMClient) CreateProject(_ context.Context, name string) (*ports.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateProject", name); err != nil {
		return nil, err
	}
	p := ports.Project{ID: m.newID(), Name: name}
	m.Projects = append(m.Projects, p)
	m.Branches[p.ID] = []ports.Branch{{Name: "main", IsDefault: true}}
	return &p, nil
}

// ListBranches returns the branches of a project.
func (m *MockSRMClient) ListBranches(_ context.Context, projectID string) ([]ports.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListBranches", projectID); err != nil {
		return nil, err
	}
	return append([]ports.Branch(nil), m.Branches[projectID]...), nil
}

// CreateAnalysisPrep returns a prep ID of the form "prep-<project>".
func (m *MockSRMClient) CreateAnalysisPrep(_ context.Context, projectID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateAnalysisPrep", projectID); err != nil {
		return "", err
	}
	m.Uploads = append(m.Uploads, Upload{ProjectID: projectID})
	return "prep-" + projectID, nil
}

// SetPrepBranch records the branch selection of the pending upload.
func (m *MockSRMClient) SetPrepBranch(_ context.Context, prepID string, branch ports.BranchSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SetPrepBranch", prepID, branch.Name, branch.Parent); err != nil {
		return err
	}
	if u := m.pending(prepID); u != nil {
		u.Branch = branch
	}
	return nil
}

// UploadPrepFile records the file of the pending upload.
func (m *MockSRMClient) UploadPrepFile(_ context.Context, prepID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UploadPrepFile", prepID, path); err != nil {
		return err
	}
	if u := m.pending(prepID); u != nil {
		u.Path = path
	}
	return nil
}

// Analyze returns a job for the preparation.
func (m *MockSRMClient) Analyze(_ context.Context, prepID string) (*ports.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Analyze", prepID); err != nil {
		return nil, err
	}
	return &ports.AnalysisJob{JobID: "job-" + prepID, AnalysisID: m.newID()}, nil
}

// UploadAnalysis records a direct upload.
func (m *MockSRMClient) UploadAnalysis(_ context.Context, projectID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UploadAnalysis", projectID, path); err != nil {
		return err
	}
	m.Uploads = append(m.Uploads, Upload{ProjectID: projectID, Path: path})
	return nil
}

// pending returns the most recent upload opened by CreateAnalysisPrep.
func (m *MockSRMClient) pending(prepID string) *Upload {
	projectID := strings.TrimPrefix(prepID, "prep-")
	for i := len(m.Uploads) - 1; i >= 0; i-- {
		if m.Uploads[i].ProjectID == projectID {
			return &m.Uploads[i]
		}
	}
	return nil
}

// FindAddinTool looks a tool up by name, case-insensitively.
func (m *MockSRMClient) FindAddinTool(_ context.Context, name string) (*ports.AddinTool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindAddinTool", name); err != nil {
		return nil, err
	}
	for _, t := range m.Tools {
		if strings.EqualFold(t.Name, name) {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

// CreateAddinTool registers a tool.
func (m *MockSRMClient) CreateAddinTool(_ context.Context, name string, declaration []byte) (*ports.AddinTool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateAddinTool", name); err != nil {
		return nil, err
	}
	if len(declaration) == 0 {
		return nil, fmt.Errorf("empty tool declaration")
	}
	t := ports.AddinTool{ID: m.newID(), Name: name}
	m.Tools = append(m.Tools, t)
	return &t, nil
}

// FindProjectSecret looks a secret up by name, case-insensitively.
func (m *MockSRMClient) FindProjectSecret(_ context.Context, projectID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindProjectSecret", projectID, name); err != nil {
		return "", err
	}
	for _, s := range m.Secrets[projectID] {
		if strings.EqualFold(s.Name, name) {
			return s.Name, nil
		}
	}
	return "", nil
}

// CreateProjectSecret stores a secret.
func (m *MockSRMClient) CreateProjectSecret(_ context.Context, projectID string, secret ports.SecretSpec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateProjectSecret", projectID, secret.Name); err != nil {
		return "", err
	}
	m.Secrets[projectID] = append(m.Secrets[projectID], secret)
	return secret.Name, nil
}

// ConfigureAddinTool stores the tool configuration.
func (m *MockSRMClient) ConfigureAddinTool(_ context.Context, projectID, toolID string, cfg ports.ToolServiceConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ConfigureAddinTool", projectID, toolID); err != nil {
		return err
	}
	m.ToolConfigs[projectID+"/"+toolID] = cfg
	return nil
}

// ListDetectionMethods returns the registered methods.
func (m *MockSRMClient) ListDetectionMethods(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListDetectionMethods"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.DetectionMethods...), nil
}

// CreateDetectionMethod registers a method.
func (m *MockSRMClient) CreateDetectionMethod(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateDetectionMethod", name); err != nil {
		return err
	}
	m.DetectionMethods = append(m.DetectionMethods, name)
	return nil
}

var _ ports.SRMClient = (*MockSRMClient)(nil)
