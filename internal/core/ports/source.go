// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/pkgdeps/internal/core/domain"
)

// Source locates packages by name from one origin (workspace, framework, registry).
//
//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type Source interface {
	// Name identifies the source in diagnostics and on resolved packages.
	Name() string

	// Load returns the named package. A nil package with a nil error means the source
	// does not have it and the next source should be tried.
	// fw is the lookup context and may be nil.
	Load(ctx context.Context, name string, fw *domain.Framework) (*domain.Package, error)
}

// SourceFactory builds the ordered source chain for a workspace.
type SourceFactory interface {
	// Sources returns the sources named by the workspace, in priority order.
	Sources(ws *domain.Workspace) ([]Source, error)
}
