// Package source implements the package lookup sources: workspace directories,
// the selected framework checkout and a remote registry.
package source

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
)

var (
	_ ports.Source = (*WorkspaceSource)(nil)
	_ ports.Source = (*FrameworkSource)(nil)
)

// WorkspaceSource finds packages in the workspace's package directories.
type WorkspaceSource struct {
	dirs   []string
	parser ports.ManifestParser
}

// NewWorkspaceSource creates a source searching dirs, in order, for <dir>/<name>/package.json.
func NewWorkspaceSource(dirs []string, parser ports.ManifestParser) *WorkspaceSource {
	return &WorkspaceSource{
		dirs:   slices.Clone(dirs),
		parser: parser,
	}
}

// Name returns the source name.
func (s *WorkspaceSource) Name() string {
	return domain.SourceWorkspace
}

// Load returns the first manifest found for name across the package directories.
func (s *WorkspaceSource) Load(_ context.Context, name string, _ *domain.Framework) (*domain.Package, error) {
	if !validName(name) {
		return nil, nil
	}

	for _, dir := range s.dirs {
		pkg, err := s.parser.Read(manifestPath(dir, name))
		if err != nil {
			return nil, err
		}
		if pkg != nil {
			pkg.Source = domain.SourceWorkspace
			return pkg, nil
		}
	}
	return nil, nil
}

// FrameworkSource finds packages shipped with the framework being built against.
type FrameworkSource struct {
	parser ports.ManifestParser
}

// NewFrameworkSource creates a source reading <framework>/packages/<name>/package.json.
func NewFrameworkSource(parser ports.ManifestParser) *FrameworkSource {
	return &FrameworkSource{parser: parser}
}

// Name returns the source name.
func (s *FrameworkSource) Name() string {
	return domain.SourceFramework
}

// Load returns the framework's copy of name. Without a framework nothing is found.
func (s *FrameworkSource) Load(_ context.Context, name string, fw *domain.Framework) (*domain.Package, error) {
	if fw == nil || fw.Path == "" || !validName(name) {
		return nil, nil
	}

	pkg, err := s.parser.Read(manifestPath(filepath.Join(fw.Path, domain.PackagesDirName), name))
	if err != nil || pkg == nil {
		return nil, err
	}
	pkg.Source = domain.SourceFramework
	return pkg, nil
}

func manifestPath(dir, name string) string {
	return filepath.Join(dir, name, domain.ManifestFileName)
}

// validName rejects names that would escape the package directory.
func validName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
