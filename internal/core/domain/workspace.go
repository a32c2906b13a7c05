package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Source names understood by the source factory.
const (
	SourceWorkspace = "workspace"
	SourceFramework = "framework"
	SourceRegistry  = "registry"
)

// Framework is the lookup context passed unchanged to every source.
type Framework struct {
	Name    string
	Version string
	// Path is the absolute directory of the framework checkout.
	Path string
}

// Workspace is the decoded workspace configuration with paths resolved against Root.
type Workspace struct {
	// Root is the absolute workspace root.
	Root string

	// DefaultFramework is used when no framework is selected explicitly.
	DefaultFramework string

	// Frameworks maps framework names to their definitions.
	Frameworks map[string]Framework

	// PackageDirs are absolute workspace package directories in priority order.
	PackageDirs []string

	// RegistryURL is the base URL of the remote package registry. Empty disables it.
	RegistryURL string

	// Requires is the default package list when none is given on the command line.
	Requires []string

	// Sources lists the lookup sources in priority order.
	Sources []string
}

// Framework returns the named framework, or the default one when name is empty.
// A workspace without frameworks yields nil for an empty name.
func (w *Workspace) Framework(name string) (*Framework, error) {
	if name == "" {
		name = w.DefaultFramework
	}
	if name == "" {
		return nil, nil
	}

	fw, ok := w.Frameworks[name]
	if !ok {
		err := zerr.With(Mark(ErrUnknownFramework), "framework", name)
		return nil, zerr.With(err, "available", w.FrameworkNames())
	}
	return &fw, nil
}

// FrameworkNames returns the declared framework names, sorted.
func (w *Workspace) FrameworkNames() []string {
	names := make([]string, 0, len(w.Frameworks))
	for name := range w.Frameworks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SourceNames returns the configured source order, or the default order when none is configured.
// The registry is part of the default order only when a registry URL is set.
func (w *Workspace) SourceNames() []string {
	if len(w.Sources) > 0 {
		return slices.Clone(w.Sources)
	}
	names := []string{SourceWorkspace, SourceFramework}
	if w.RegistryURL != "" {
		names = append(names, SourceRegistry)
	}
	return names
}
