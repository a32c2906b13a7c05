package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrUnresolvedPackage is returned when no registered source can produce a referenced package.
	ErrUnresolvedPackage = zerr.New("unresolved package")

	// ErrInvalidSource is returned when the lookup source chain is misconfigured.
	ErrInvalidSource = zerr.New("invalid package source")

	// ErrManifestParse is returned when a package manifest cannot be parsed or lacks a name.
	ErrManifestParse = zerr.New("failed to parse package manifest")

	// ErrManifestReadFailed is returned when a package manifest exists but cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package manifest")

	// ErrCycleDetected is returned when the resolved package set cannot be ordered because of a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrPackageNotInSet is returned when a build order references a package missing from the set.
	ErrPackageNotInSet = zerr.New("package not in resolved set")

	// ErrNoPackagesSpecified is returned when neither arguments nor the workspace name any packages.
	ErrNoPackagesSpecified = zerr.New("no packages specified")

	// ErrUnknownFramework is returned when a framework name is not declared in the workspace.
	ErrUnknownFramework = zerr.New("unknown framework")

	// ErrInvalidFramework is returned when a declared framework has no path.
	ErrInvalidFramework = zerr.New("framework path is required")

	// ErrUnknownSourceName is returned when the workspace lists a source that does not exist.
	ErrUnknownSourceName = zerr.New("unknown source name")

	// ErrPackageDirUnknown is returned when a package has no local directory (e.g. registry packages).
	ErrPackageDirUnknown = zerr.New("package has no local directory")

	// ErrAntConfigReadFailed is returned when a package's sencha.cfg cannot be read.
	ErrAntConfigReadFailed = zerr.New("failed to read package ant config")

	// ErrConfigReadFailed is returned when the workspace file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the workspace file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no workspace file can be found.
	ErrConfigNotFound = zerr.New("could not find " + WorkFileName)

	// ErrStoreCreateFailed is returned when the snapshot store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create snapshot store directory")

	// ErrStoreReadFailed is returned when a snapshot cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read snapshot")

	// ErrStoreUnmarshalFailed is returned when a snapshot cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal snapshot")

	// ErrStoreMarshalFailed is returned when a snapshot cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal snapshot")

	// ErrStoreWriteFailed is returned when a snapshot cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write snapshot")

	// ErrRegistryCacheCreateFailed is returned when the registry cache directory cannot be created.
	ErrRegistryCacheCreateFailed = zerr.New("failed to create registry cache directory")

	// ErrRegistryRequestFailed is returned when a registry request fails.
	ErrRegistryRequestFailed = zerr.New("failed to make registry request")

	// ErrRegistryCacheMiss is returned when a registry manifest is not cached.
	ErrRegistryCacheMiss = zerr.New("registry cache miss")

	// ErrRegistryCacheWriteFailed is returned when a registry manifest cannot be cached.
	ErrRegistryCacheWriteFailed = zerr.New("failed to write registry cache")

	// ErrWatcherFailed is returned when the file watcher cannot start.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrWatcherClosed is returned when the file watcher stops delivering events while still in use.
	ErrWatcherClosed = zerr.New("file watcher stopped unexpectedly")

	// ErrUnknownFormat is returned when an output format is not supported.
	ErrUnknownFormat = zerr.New("unknown output format, expected 'list', 'tree' or 'json'")
)

// NewUnresolvedPackageError reports a package no source could produce.
// requestedBy is empty for top-level names. cause is the source failure, if any.
func NewUnresolvedPackageError(name, requestedBy string, cause error) error {
	err := zerr.With(kind(ErrUnresolvedPackage, cause), "package", name)
	if requestedBy != "" {
		err = zerr.With(err, "requested_by", requestedBy)
	}
	return err
}

// NewInvalidSourceError reports a misconfigured entry in the source chain.
// index is the position of the offending source, or -1 when the chain itself is at fault.
func NewInvalidSourceError(index int, reason string) error {
	err := zerr.With(kind(ErrInvalidSource, nil), "reason", reason)
	if index >= 0 {
		err = zerr.With(err, "index", index)
	}
	return err
}

// NewManifestParseError reports a manifest that could not be turned into a Package.
func NewManifestParseError(path string, cause error) error {
	return zerr.With(kind(ErrManifestParse, cause), "path", path)
}

// Mark returns an error matching sentinel with errors.Is that metadata can be attached to.
// zerr.With copies a *zerr.Error, so sentinels must be marked before zerr.With is applied.
func Mark(sentinel error) error {
	return zerr.Wrap(sentinel, "")
}

// kind attaches sentinel to cause so that errors.Is matches the sentinel
// while the cause stays reachable through the chain.
func kind(sentinel, cause error) error {
	if cause == nil {
		return Mark(sentinel)
	}
	return errors.Join(sentinel, cause)
}
