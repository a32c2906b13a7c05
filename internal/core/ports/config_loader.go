package ports

import "go.trai.ch/pkgdeps/internal/core/domain"

// ConfigLoader defines the interface for loading the workspace configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the workspace file by walking up from cwd and returns the decoded workspace.
	Load(cwd string) (*domain.Workspace, error)

	// DiscoverRoot walks up from cwd to find the directory containing the workspace file.
	DiscoverRoot(cwd string) (string, error)
}
