package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// EnsureProject returns the SRM project called name, creating it when it
// does not exist. created reports whether it was created.
func EnsureProject(ctx context.Context, projects ports.SRMProjects, name string) (project *ports.Project, created bool, err error) {
	if name == "" {
		return nil, false, ErrProjectRequired
	}

	project, err = projects.FindProject(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up project %s: %w", name, err)
	}
	if project != nil {
		return project, false, nil
	}

	project, err = projects.CreateProject(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create project %s: %w", name, err)
	}
	return project, true, nil
}

// EnsureDetectionMethods registers every method SRM does not know yet,
// comparing names case-insensitively. It returns the methods it created.
func EnsureDetectionMethods(ctx context.Context, methods ports.SRMDetectionMethods, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	existing, err := methods.ListDetectionMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list detection methods: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[strings.ToLower(m)] = true
	}

	var created []string
	for _, name := range names {
		key := strings.ToLower(name)
		if name == "" || known[key] {
			continue
		}
		if err := methods.CreateDetectionMethod(ctx, name); err != nil {
			return created, fmt.Errorf("failed to create detection method %s: %w", name, err)
		}
		known[key] = true
		created = append(created, name)
	}
	return created, nil
}

// SelectBranch picks the branch selection for name: the existing branch
// when one matches case-insensitively, otherwise a new branch whose parent
// is the project's default branch.
func SelectBranch(branches []ports.Branch, name string) (ports.BranchSelection, error) {
	var parent string
	for _, b := range branches {
		if strings.EqualFold(b.Name, name) {
			return ports.BranchSelection{Name: b.Name}, nil
		}
		if b.IsDefault {
			parent = b.Name
		}
	}
	if parent == "" {
		return ports.BranchSelection{}, fmt.Errorf("branch %s does not exist and the project has no default branch", name)
	}
	return ports.BranchSelection{Name: name, Parent: parent}, nil
}
