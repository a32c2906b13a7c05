package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal workspace directory.
	StateDirName = ".pkgdeps"

	// StoreDirName is the name of the snapshot store directory.
	StoreDirName = "store"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// RegistryDirName is the name of the registry manifest cache directory.
	RegistryDirName = "registry"

	// WorkFileName is the name of the workspace configuration file.
	WorkFileName = "pkgdeps.work.yaml"

	// ManifestFileName is the name of a package manifest.
	ManifestFileName = "package.json"

	// AntConfigPath is the location of a package's ant properties, relative to the package directory.
	AntConfigPath = ".sencha/package/sencha.cfg"

	// PackagesDirName is the directory holding packages inside a framework.
	PackagesDirName = "packages"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultPackageDirs are the workspace package directories searched when the workspace declares none.
var DefaultPackageDirs = []string{"packages/local", "packages"}

// DefaultStorePath returns the snapshot store path relative to the workspace root.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, StoreDirName)
}

// DefaultRegistryCachePath returns the registry cache path relative to the workspace root.
func DefaultRegistryCachePath() string {
	return filepath.Join(StateDirName, CacheDirName, RegistryDirName)
}
