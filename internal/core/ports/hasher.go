package ports

import "go.trai.ch/pkgdeps/internal/core/domain"

// Hasher computes content digests for resolved packages.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// PackageDigest returns a stable digest of the package's identity and declared edges.
	PackageDigest(pkg *domain.Package) string
}
