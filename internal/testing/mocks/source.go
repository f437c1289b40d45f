package mocks

import (
	"context"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// MockIssueSource returns a canned issues export.
type MockIssueSource struct {
	Data []byte
	Err  error

	// Projects records the requested project names.
	Projects []string
}

// NewMockIssueSource creates a source returning data.
func NewMockIssueSource(data []byte) *MockIssueSource {
	return &MockIssueSource{Data: data}
}

// PullIssues returns the configured export.
func (m *MockIssueSource) PullIssues(ctx context.Context, projectName string) ([]byte, error) {
	m.Projects = append(m.Projects, projectName)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

var _ ports.IssueSource = (*MockIssueSource)(nil)
