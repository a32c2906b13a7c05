// Package config provides the workspace configuration loader for pkgdeps.
package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/pkgdeps/internal/adapters/fs"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// SupportedVersion is the workfile schema version understood by the loader.
const SupportedVersion = "1"

var knownSources = []string{domain.SourceWorkspace, domain.SourceFramework, domain.SourceRegistry}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     fs.FileSystem
}

// NewLoader creates a new Loader with the given logger and filesystem.
func NewLoader(logger ports.Logger, fsys fs.FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load finds the workfile at or above cwd and decodes it into a Workspace.
func (l *Loader) Load(cwd string) (*domain.Workspace, error) {
	configPath, err := l.findWorkfile(cwd)
	if err != nil {
		return nil, err
	}

	var workfile Workfile
	if err := l.readAndUnmarshalYAML(configPath, &workfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	ws, err := l.buildWorkspace(configPath, &workfile)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return ws, nil
}

// DiscoverRoot returns the workspace root for cwd.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	ws, err := l.Load(cwd)
	if err != nil {
		return "", err
	}
	return ws.Root, nil
}

func (l *Loader) findWorkfile(cwd string) (string, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	currentDir := absCwd
	for {
		workfilePath := filepath.Join(currentDir, domain.WorkFileName)
		if _, err := l.FS.Stat(workfilePath); err == nil {
			return workfilePath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.Mark(domain.ErrConfigNotFound), "cwd", absCwd)
}

func (l *Loader) buildWorkspace(configPath string, workfile *Workfile) (*domain.Workspace, error) {
	if workfile.Version != "" && workfile.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q", domain.WorkFileName, workfile.Version, SupportedVersion))
	}

	root := resolveRoot(configPath, workfile.Root)
	ws := &domain.Workspace{
		Root:             root,
		DefaultFramework: workfile.Framework,
		Frameworks:       make(map[string]domain.Framework, len(workfile.Frameworks)),
		Requires:         slices.Clone(workfile.Requires),
		Sources:          slices.Clone(workfile.Sources),
	}

	for name, dto := range workfile.Frameworks {
		if dto == nil || dto.Path == "" {
			return nil, zerr.With(domain.Mark(domain.ErrInvalidFramework), "framework", name)
		}
		ws.Frameworks[name] = domain.Framework{
			Name:    name,
			Version: dto.Version,
			Path:    resolvePath(root, dto.Path),
		}
	}

	if ws.DefaultFramework != "" {
		if _, ok := ws.Frameworks[ws.DefaultFramework]; !ok {
			err := zerr.With(domain.Mark(domain.ErrUnknownFramework), "framework", ws.DefaultFramework)
			return nil, zerr.With(err, "available", ws.FrameworkNames())
		}
	}

	dirs := workfile.Packages
	if len(dirs) == 0 {
		dirs = domain.DefaultPackageDirs
	}
	ws.PackageDirs = make([]string, len(dirs))
	for i, dir := range dirs {
		ws.PackageDirs[i] = resolvePath(root, dir)
	}

	if workfile.Registry != nil {
		ws.RegistryURL = workfile.Registry.URL
	}

	if err := l.validateSources(ws); err != nil {
		return nil, err
	}

	return ws, nil
}

func (l *Loader) validateSources(ws *domain.Workspace) error {
	for _, name := range ws.Sources {
		if !slices.Contains(knownSources, name) {
			err := zerr.With(domain.Mark(domain.ErrUnknownSourceName), "source", name)
			return zerr.With(err, "available", knownSources)
		}
	}

	if len(ws.Sources) > 0 && ws.RegistryURL != "" && !slices.Contains(ws.Sources, domain.SourceRegistry) {
		l.Logger.Warn(fmt.Sprintf("registry url is set but %q is not listed in sources", domain.SourceRegistry))
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, filepath.FromSlash(path)))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Workfile) error {
	configFile, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
