// Package app implements the application layer for pkgdeps.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/pkgdeps/internal/engine/resolver"
	"go.trai.ch/pkgdeps/internal/ui/style"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	sources      ports.SourceFactory
	store        ports.SnapshotStore
	hasher       ports.Hasher
	reporter     ports.Reporter
	watcher      ports.Watcher
	logger       ports.Logger
	props        domain.PropertiesReader
	stdout       io.Writer
	now          func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sources ports.SourceFactory,
	store ports.SnapshotStore,
	hasher ports.Hasher,
	reporter ports.Reporter,
	watcher ports.Watcher,
	log ports.Logger,
	props domain.PropertiesReader,
) *App {
	return &App{
		configLoader: loader,
		sources:      sources,
		store:        store,
		hasher:       hasher,
		reporter:     reporter,
		watcher:      watcher,
		logger:       log,
		props:        props,
		stdout:       os.Stdout,
		now:          time.Now,
	}
}

// WithOutput sets the writer results are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithClock sets the time source used to stamp snapshots.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

type logConfigurer interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// ConfigureLogging switches the logger's verbosity and format when it supports it.
func (a *App) ConfigureLogging(verbose, jsonLogs bool) {
	if lc, ok := a.logger.(logConfigurer); ok {
		lc.SetVerbose(verbose)
		lc.SetJSON(jsonLogs)
	}
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// Framework selects a declared framework. Empty uses the workspace default.
	Framework string
	// Format is the report format: list, tree or json.
	Format string
	// Order prints the packages in build order instead of a report.
	Order bool
}

// Resolve computes the dependency closure of names and prints it.
// Without names the workspace's default requires are resolved.
func (a *App) Resolve(ctx context.Context, names []string, opts ResolveOptions) error {
	ws, err := a.loadWorkspace()
	if err != nil {
		return err
	}

	res, err := a.resolve(ctx, ws, names, opts.Framework)
	if err != nil {
		return err
	}

	if err := a.report(res, opts); err != nil {
		return err
	}

	a.recordSnapshot(ws.Root, res)
	return nil
}

// ClassPathOptions configuration for the ClassPaths method.
type ClassPathOptions struct {
	Framework string
}

// ClassPaths prints the class path entries of the resolved packages in build order.
// Packages without a local directory contribute nothing.
func (a *App) ClassPaths(ctx context.Context, names []string, opts ClassPathOptions) error {
	ws, err := a.loadWorkspace()
	if err != nil {
		return err
	}

	res, err := a.resolve(ctx, ws, names, opts.Framework)
	if err != nil {
		return err
	}

	order, err := domain.BuildOrder(res.Packages)
	if err != nil {
		return err
	}

	for _, pkg := range order {
		paths, err := pkg.ClassPaths(a.props)
		if errors.Is(err, domain.ErrPackageDirUnknown) {
			a.logger.Debug(fmt.Sprintf("skipping class path of %s: no local directory", pkg.Name))
			continue
		}
		if err != nil {
			return err
		}
		for _, p := range paths {
			if _, err := fmt.Fprintln(a.stdout, p); err != nil {
				return err
			}
		}
	}

	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Store bool
	Cache bool
}

// Clean removes the snapshot store and the registry cache based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return zerr.Wrap(err, "failed to locate workspace")
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Store {
		remove(filepath.Join(root, domain.DefaultStorePath()), "snapshot store")
	}

	if options.Cache {
		remove(filepath.Join(root, domain.DefaultRegistryCachePath()), "registry cache")
	}

	return errs
}

func (a *App) loadWorkspace() (*domain.Workspace, error) {
	ws, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return ws, nil
}

// resolve runs the resolver over names with a fresh accumulator.
func (a *App) resolve(
	ctx context.Context,
	ws *domain.Workspace,
	names []string,
	framework string,
) (*domain.Resolution, error) {
	if len(names) == 0 {
		names = ws.Requires
	}
	if len(names) == 0 {
		return nil, domain.ErrNoPackagesSpecified
	}

	fw, err := ws.Framework(framework)
	if err != nil {
		return nil, err
	}

	sources, err := a.sources.Sources(ws)
	if err != nil {
		return nil, err
	}

	r, err := resolver.New(sources...)
	if err != nil {
		return nil, err
	}

	set, err := r.Resolve(ctx, names, fw, nil)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(fmt.Sprintf("resolved %d packages from %d requested", set.Len(), len(names)))

	return &domain.Resolution{
		Requested: names,
		Framework: fw,
		Packages:  set,
	}, nil
}

func (a *App) report(res *domain.Resolution, opts ResolveOptions) error {
	if !opts.Order {
		return a.reporter.Report(a.stdout, res, opts.Format)
	}

	order, err := domain.BuildOrder(res.Packages)
	if err != nil {
		return err
	}
	return a.reporter.ReportOrder(a.stdout, order)
}

// recordSnapshot logs how res differs from the previous resolution of the same request
// and stores it as the new baseline. Store failures are logged, never returned.
func (a *App) recordSnapshot(root string, res *domain.Resolution) {
	snap := &domain.Snapshot{
		Key:       domain.SnapshotKey(res.FrameworkName(), res.Requested),
		Framework: res.FrameworkName(),
		Requested: res.Requested,
		Packages:  make([]domain.SnapshotEntry, 0, res.Packages.Len()),
		CreatedAt: a.now().UTC(),
	}
	for name, pkg := range res.Packages.All() {
		snap.Packages = append(snap.Packages, domain.SnapshotEntry{
			Name:    name,
			Version: pkg.Version,
			Source:  pkg.Source,
			Digest:  a.hasher.PackageDigest(pkg),
		})
	}

	prev, err := a.store.Get(root, snap.Key)
	if err != nil {
		a.logger.Warn("ignoring previous snapshot: " + err.Error())
		prev = nil
	}

	if prev != nil {
		a.logDiff(snap.Diff(prev))
	}

	if err := a.store.Put(root, snap); err != nil {
		a.logger.Warn("failed to store snapshot: " + err.Error())
	}
}

func (a *App) logDiff(diff domain.SnapshotDiff) {
	for _, name := range diff.Added {
		a.logger.Info(style.Plus + " " + name)
	}
	for _, name := range diff.Removed {
		a.logger.Info(style.Minus + " " + name)
	}
	for _, c := range diff.Changed {
		msg := style.Tilde + " " + c.Name
		if c.Before != c.After {
			msg += " " + versionLabel(c.Before) + " " + style.Arrow + " " + versionLabel(c.After)
		}
		a.logger.Info(msg)
	}
}

func versionLabel(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
