package source

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFactory = (*Factory)(nil)

// Factory builds source chains from workspace configuration.
type Factory struct {
	parser ports.ManifestParser
	logger ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(parser ports.ManifestParser, logger ports.Logger) *Factory {
	return &Factory{
		parser: parser,
		logger: logger,
	}
}

// Sources returns the sources named by ws in priority order.
// Unknown names and a registry without URL are rejected with ErrInvalidSource.
func (f *Factory) Sources(ws *domain.Workspace) ([]ports.Source, error) {
	names := ws.SourceNames()
	sources := make([]ports.Source, 0, len(names))

	for i, name := range names {
		switch name {
		case domain.SourceWorkspace:
			sources = append(sources, NewWorkspaceSource(f.packageDirs(ws), f.parser))
		case domain.SourceFramework:
			sources = append(sources, NewFrameworkSource(f.parser))
		case domain.SourceRegistry:
			if ws.RegistryURL == "" {
				return nil, domain.NewInvalidSourceError(i, "registry source requires a registry url")
			}
			cacheDir := filepath.Join(ws.Root, domain.DefaultRegistryCachePath())
			sources = append(sources, NewRegistrySource(ws.RegistryURL, cacheDir, f.parser, f.logger))
		default:
			err := domain.NewInvalidSourceError(i, fmt.Sprintf("unknown source name %q", name))
			return nil, zerr.With(err, "available", []string{
				domain.SourceWorkspace,
				domain.SourceFramework,
				domain.SourceRegistry,
			})
		}
	}

	return sources, nil
}

// packageDirs returns the workspace package directories as absolute paths.
func (f *Factory) packageDirs(ws *domain.Workspace) []string {
	dirs := ws.PackageDirs
	if len(dirs) == 0 {
		dirs = domain.DefaultPackageDirs
	}

	abs := make([]string, len(dirs))
	for i, dir := range dirs {
		if filepath.IsAbs(dir) {
			abs[i] = dir
			continue
		}
		abs[i] = filepath.Join(ws.Root, filepath.FromSlash(dir))
	}
	return abs
}
