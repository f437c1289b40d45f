package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/testing/mocks"
)

func TestEnsureProject(t *testing.T) {
	ctx := context.Background()
	srm := mocks.NewMockSRMClient().WithProject("7", "WebGoat")

	p, created, err := EnsureProject(ctx, srm, "webgoat")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "7", p.ID)

	p, created, err = EnsureProject(ctx, srm, "NewApp")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "NewApp", p.Name)
	assert.Equal(t, []string{"FindProject", "FindProject", "CreateProject"}, srm.CallNames())

	_, _, err = EnsureProject(ctx, srm, "")
	assert.ErrorIs(t, err, ErrProjectRequired)
}

func TestEnsureProject_LookupError(t *testing.T) {
	boom := errors.New("boom")
	srm := mocks.NewMockSRMClient().WithError("FindProject", boom)

	_, _, err := EnsureProject(context.Background(), srm, "WebGoat")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"FindProject"}, srm.CallNames())
}

func TestEnsureDetectionMethods(t *testing.T) {
	srm := mocks.NewMockSRMClient()
	srm.DetectionMethods = []string{"Manual"}

	created, err := EnsureDetectionMethods(context.Background(), srm, []string{"manual", "Static", "", "static", "Dynamic"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Static", "Dynamic"}, created)
	assert.Equal(t, []string{"Manual", "Static", "Dynamic"}, srm.DetectionMethods)
}

func TestEnsureDetectionMethods_NoneSkipsSRM(t *testing.T) {
	srm := mocks.NewMockSRMClient()

	created, err := EnsureDetectionMethods(context.Background(), srm, nil)

	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Empty(t, srm.Calls)
}

func TestEnsureDetectionMethods_CreateError(t *testing.T) {
	srm := mocks.NewMockSRMClient().WithError("CreateDetectionMethod", errors.New("forbidden"))

	_, err := EnsureDetectionMethods(context.Background(), srm, []string{"Static"})

	assert.ErrorContains(t, err, "failed to create detection method Static")
}

func TestSelectBranch(t *testing.T) {
	branches := []ports.Branch{
		{Name: "main", IsDefault: true},
		{Name: "Feature-1"},
	}

	tests := []struct {
		name string
		want ports.BranchSelection
	}{
		{"feature-1", ports.BranchSelection{Name: "Feature-1"}},
		{"main", ports.BranchSelection{Name: "main"}},
		{"release", ports.BranchSelection{Name: "release", Parent: "main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectBranch(branches, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectBranch_NoDefault(t *testing.T) {
	_, err := SelectBranch([]ports.Branch{{Name: "dev"}}, "release")

	assert.ErrorContains(t, err, "no default branch")
}
