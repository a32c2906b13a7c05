package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgdeps/internal/app"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/pkgdeps/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// mapSource serves packages from a fixed map.
type mapSource struct {
	name string
	pkgs map[string]*domain.Package
}

func (s *mapSource) Name() string { return s.name }

func (s *mapSource) Load(_ context.Context, name string, _ *domain.Framework) (*domain.Package, error) {
	p, ok := s.pkgs[name]
	if !ok {
		return nil, nil
	}
	return p, nil
}

// fakeWatcher replays events pushed by the test.
type fakeWatcher struct {
	events   chan ports.WatchEvent
	roots    []string
	stopOnce sync.Once
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent, 10)}
}

func (f *fakeWatcher) Start(_ context.Context, roots ...string) error {
	f.roots = roots
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.stopOnce.Do(func() { close(f.events) })
	return nil
}

func (f *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range f.events {
			if !yield(ev) {
				return
			}
		}
	}
}

type fixture struct {
	loader   *mocks.MockConfigLoader
	sources  *mocks.MockSourceFactory
	store    *mocks.MockSnapshotStore
	hasher   *mocks.MockHasher
	reporter *mocks.MockReporter
	logger   *mocks.MockLogger
	watcher  *fakeWatcher
	out      *bytes.Buffer
	app      *app.App
	ws       *domain.Workspace
	source   *mapSource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		sources:  mocks.NewMockSourceFactory(ctrl),
		store:    mocks.NewMockSnapshotStore(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		reporter: mocks.NewMockReporter(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		watcher:  newFakeWatcher(),
		out:      &bytes.Buffer{},
		ws: &domain.Workspace{
			Root:             "/ws",
			DefaultFramework: "ext",
			Frameworks:       map[string]domain.Framework{"ext": {Name: "ext", Path: "/fw/ext"}},
			Requires:         []string{"app"},
		},
		source: &mapSource{
			name: "workspace",
			pkgs: map[string]*domain.Package{
				"app":  {Name: "app", Version: "1.0.0", Requires: []string{"ui"}, Dir: "/ws/packages/app"},
				"ui":   {Name: "ui", Requires: []string{"core"}, Dir: "/ws/packages/ui"},
				"core": {Name: "core", Version: "6.2.0"},
			},
		},
	}

	props := func(string) (map[string]string, error) {
		return map[string]string{"package.classpath": "${package.dir}/src,,${package.dir}/overrides"}, nil
	}

	f.app = app.New(f.loader, f.sources, f.store, f.hasher, f.reporter, f.watcher, f.logger, props).
		WithOutput(f.out).
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })

	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.hasher.EXPECT().PackageDigest(gomock.Any()).DoAndReturn(func(p *domain.Package) string {
		return "digest-" + p.Name + "-" + p.Version
	}).AnyTimes()

	return f
}

func (f *fixture) expectResolveInputs() {
	f.loader.EXPECT().Load(".").Return(f.ws, nil)
	f.sources.EXPECT().Sources(f.ws).Return([]ports.Source{f.source}, nil)
}

func TestApp_Resolve(t *testing.T) {
	f := newFixture(t)
	f.expectResolveInputs()

	f.reporter.EXPECT().Report(f.out, gomock.Any(), "tree").DoAndReturn(
		func(_ io.Writer, res *domain.Resolution, _ string) error {
			assert.Equal(t, []string{"app"}, res.Requested)
			assert.Equal(t, "ext", res.FrameworkName())
			assert.Equal(t, []string{"app", "ui", "core"}, res.Packages.Names())
			return nil
		})

	f.store.EXPECT().Get("/ws", "ext|app").Return(nil, nil)
	f.store.EXPECT().Put("/ws", gomock.Any()).DoAndReturn(func(_ string, s *domain.Snapshot) error {
		assert.Equal(t, "ext|app", s.Key)
		require.Len(t, s.Packages, 3)
		assert.Equal(t, "digest-app-1.0.0", s.Packages[0].Digest)
		assert.Equal(t, "workspace", s.Packages[0].Source)
		return nil
	})

	err := f.app.Resolve(context.Background(), nil, app.ResolveOptions{Format: "tree"})
	require.NoError(t, err)
}

func TestApp_Resolve_ExplicitNamesAndFramework(t *testing.T) {
	f := newFixture(t)
	f.ws.Frameworks["touch"] = domain.Framework{Name: "touch", Path: "/fw/touch"}
	f.expectResolveInputs()

	f.reporter.EXPECT().Report(f.out, gomock.Any(), "list").DoAndReturn(
		func(_ io.Writer, res *domain.Resolution, _ string) error {
			assert.Equal(t, "touch", res.FrameworkName())
			assert.Equal(t, []string{"ui", "core"}, res.Packages.Names())
			return nil
		})
	f.store.EXPECT().Get("/ws", "touch|ui").Return(nil, nil)
	f.store.EXPECT().Put("/ws", gomock.Any()).Return(nil)

	err := f.app.Resolve(context.Background(), []string{"ui"}, app.ResolveOptions{Framework: "touch", Format: "list"})
	require.NoError(t, err)
}

func TestApp_Resolve_Order(t *testing.T) {
	f := newFixture(t)
	f.expectResolveInputs()

	f.reporter.EXPECT().ReportOrder(f.out, gomock.Any()).DoAndReturn(
		func(_ io.Writer, order []*domain.Package) error {
			names := make([]string, 0, len(order))
			for _, p := range order {
				names = append(names, p.Name)
			}
			assert.Equal(t, []string{"core", "ui", "app"}, names)
			return nil
		})
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	err := f.app.Resolve(context.Background(), nil, app.ResolveOptions{Order: true})
	require.NoError(t, err)
}

func TestApp_Resolve_NoPackages(t *testing.T) {
	f := newFixture(t)
	f.ws.Requires = nil
	f.loader.EXPECT().Load(".").Return(f.ws, nil)

	err := f.app.Resolve(context.Background(), nil, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrNoPackagesSpecified)
}

func TestApp_Resolve_LoadError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	err := f.app.Resolve(context.Background(), []string{"app"}, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Resolve_UnknownFramework(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(f.ws, nil)

	err := f.app.Resolve(context.Background(), []string{"app"}, app.ResolveOptions{Framework: "nope"})
	require.ErrorIs(t, err, domain.ErrUnknownFramework)
}

func TestApp_Resolve_InvalidSources(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(f.ws, nil)
	f.sources.EXPECT().Sources(f.ws).Return(nil, nil)

	err := f.app.Resolve(context.Background(), []string{"app"}, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidSource)
}

func TestApp_Resolve_Unresolved(t *testing.T) {
	f := newFixture(t)
	delete(f.source.pkgs, "core")
	f.expectResolveInputs()

	err := f.app.Resolve(context.Background(), nil, app.ResolveOptions{})
	require.ErrorIs(t, err, domain.ErrUnresolvedPackage)
}

func TestApp_Resolve_LogsSnapshotDiff(t *testing.T) {
	f := newFixture(t)
	f.expectResolveInputs()

	f.reporter.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().Get("/ws", "ext|app").Return(&domain.Snapshot{
		Key: "ext|app",
		Packages: []domain.SnapshotEntry{
			{Name: "app", Version: "0.9.0", Digest: "digest-app-0.9.0"},
			{Name: "core", Version: "6.2.0", Digest: "digest-core-6.2.0"},
			{Name: "legacy", Digest: "x"},
		},
	}, nil)
	f.store.EXPECT().Put("/ws", gomock.Any()).Return(nil)

	gomock.InOrder(
		f.logger.EXPECT().Info("+ ui"),
		f.logger.EXPECT().Info("- legacy"),
		f.logger.EXPECT().Info("~ app 0.9.0 → 1.0.0"),
	)

	err := f.app.Resolve(context.Background(), nil, app.ResolveOptions{})
	require.NoError(t, err)
}

func TestApp_Resolve_StoreFailuresAreWarnings(t *testing.T) {
	f := newFixture(t)
	f.expectResolveInputs()

	f.reporter.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, domain.ErrStoreUnmarshalFailed)
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(domain.ErrStoreWriteFailed)
	f.logger.EXPECT().Warn(gomock.Any()).Times(2)

	err := f.app.Resolve(context.Background(), nil, app.ResolveOptions{})
	require.NoError(t, err)
}

func TestApp_ClassPaths(t *testing.T) {
	f := newFixture(t)
	f.expectResolveInputs()

	err := f.app.ClassPaths(context.Background(), nil, app.ClassPathOptions{})
	require.NoError(t, err)

	// core has no directory and is skipped.
	assert.Equal(t,
		"/ws/packages/ui/src\n/ws/packages/ui/overrides\n/ws/packages/app/src\n/ws/packages/app/overrides\n",
		f.out.String())
}

func TestApp_ClassPaths_ReadError(t *testing.T) {
	f := newFixture(t)
	f.expectResolveInputs()

	failing := app.New(f.loader, f.sources, f.store, f.hasher, f.reporter, f.watcher, f.logger,
		func(string) (map[string]string, error) { return nil, errors.New("boom") }).
		WithOutput(f.out)

	err := failing.ClassPaths(context.Background(), nil, app.ClassPathOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrAntConfigReadFailed.Error())
}

func TestApp_Clean(t *testing.T) {
	root := t.TempDir()
	storeDir := filepath.Join(root, ".pkgdeps", "store")
	cacheDir := filepath.Join(root, ".pkgdeps", "cache", "registry")
	require.NoError(t, os.MkdirAll(storeDir, 0o750))
	require.NoError(t, os.MkdirAll(cacheDir, 0o750))

	f := newFixture(t)
	f.loader.EXPECT().DiscoverRoot(".").Return(root, nil)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	err := f.app.Clean(context.Background(), app.CleanOptions{Store: true})
	require.NoError(t, err)

	assert.NoDirExists(t, storeDir)
	assert.DirExists(t, cacheDir)
}

func TestApp_Clean_NoWorkspace(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().DiscoverRoot(".").Return("", domain.ErrConfigNotFound)

	err := f.app.Clean(context.Background(), app.CleanOptions{Store: true, Cache: true})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(f.ws, nil).AnyTimes()
	f.sources.EXPECT().Sources(f.ws).Return([]ports.Source{f.source}, nil).AnyTimes()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	reports := make(chan struct{}, 10)
	f.reporter.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(io.Writer, *domain.Resolution, string) error {
			reports <- struct{}{}
			return nil
		}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, nil, app.ResolveOptions{})
	}()

	waitFor := func(what string) {
		t.Helper()
		select {
		case <-reports:
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout waiting for %s", what)
		}
	}

	waitFor("initial report")

	f.watcher.events <- ports.WatchEvent{Path: "/ws/packages/ui/src/Button.js", Operation: ports.OpWrite}
	f.watcher.events <- ports.WatchEvent{Path: "/ws/packages/ui/package.json", Operation: ports.OpWrite}
	waitFor("report after manifest change")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}

	assert.Equal(t, []string{"/ws", "/fw/ext"}, f.watcher.roots)
}

func TestApp_Watch_WatcherClosed(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(f.ws, nil).AnyTimes()
	f.sources.EXPECT().Sources(f.ws).Return([]ports.Source{f.source}, nil).AnyTimes()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.reporter.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The event stream ends while the caller is still watching.
	require.NoError(t, f.watcher.Stop())

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, nil, app.ResolveOptions{})
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, domain.ErrWatcherClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after the watcher closed")
	}
}
