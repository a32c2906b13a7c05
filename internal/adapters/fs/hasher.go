package fs

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes package digests with XXHash.
type Hasher struct {
	fsys FileSystem
}

// NewHasher creates a new Hasher reading package files through fsys.
func NewHasher(fsys FileSystem) *Hasher {
	return &Hasher{fsys: fsys}
}

// PackageDigest hashes the package identity, its requirements and, for packages with a local
// directory, the content of its manifest and ant config. Missing files contribute nothing.
func (h *Hasher) PackageDigest(pkg *domain.Package) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(pkg.Name)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(pkg.Version)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(pkg.Source)
	_, _ = hasher.Write([]byte{0})

	for _, req := range pkg.Requires {
		_, _ = hasher.WriteString(req)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	_, _ = hasher.WriteString(pkg.Extend)
	_, _ = hasher.Write([]byte{0})

	if pkg.Dir != "" {
		h.hashFile(filepath.Join(pkg.Dir, domain.ManifestFileName), hasher)
		h.hashFile(filepath.Join(pkg.Dir, filepath.FromSlash(domain.AntConfigPath)), hasher)
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

func (h *Hasher) hashFile(path string, hasher *xxhash.Digest) {
	data, err := h.fsys.ReadFile(path)
	if err != nil {
		_, _ = hasher.Write([]byte{0})
		return
	}
	_, _ = hasher.Write(data)
	_, _ = hasher.Write([]byte{0})
}
