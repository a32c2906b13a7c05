package ports

import "go.trai.ch/pkgdeps/internal/core/domain"

// ManifestParser turns package.json content into a Package.
type ManifestParser interface {
	// Parse decodes data read from path. dir becomes the package directory and may be empty.
	Parse(path, dir string, data []byte) (*domain.Package, error)

	// Read loads and parses the manifest at path. It returns nil, nil when the file does not exist.
	Read(path string) (*domain.Package, error)
}
