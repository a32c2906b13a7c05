package app

import (
	"context"
	"errors"

	"go.trai.ch/pkgdeps/internal/adapters/watcher" //nolint:depguard // Debouncing and file filtering live with the watcher
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch resolves names, prints the result, and resolves again whenever a package
// manifest, ant config or the workspace file changes. It returns when ctx is canceled.
// Failed re-resolutions are logged and watching continues. If the watcher stops
// delivering events before ctx ends, Watch returns ErrWatcherClosed.
func (a *App) Watch(ctx context.Context, names []string, opts ResolveOptions) error {
	ws, err := a.loadWorkspace()
	if err != nil {
		return err
	}

	roots := []string{ws.Root}
	fw, err := ws.Framework(opts.Framework)
	if err != nil {
		return err
	}
	if fw != nil && fw.Path != "" {
		roots = append(roots, fw.Path)
	}

	a.runWatchCycle(ctx, names, opts)

	if err := a.watcher.Start(ctx, roots...); err != nil {
		return zerr.Wrap(err, "failed to watch workspace")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info("watching for changes...")

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(_ []string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	// Event Routine
	g.Go(func() error {
		for ev := range a.watcher.Events() {
			if watcher.IsPackageFile(ev.Path) {
				debouncer.Add(ev.Path)
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		// The event stream ended on its own.
		return domain.ErrWatcherClosed
	})

	// Resolve Routine
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				// Unblock the event routine.
				_ = a.watcher.Stop()
				return nil
			case <-trigger:
				a.runWatchCycle(ctx, names, opts)
			}
		}
	})

	return g.Wait()
}

// runWatchCycle performs one resolve-and-print pass, logging failures.
func (a *App) runWatchCycle(ctx context.Context, names []string, opts ResolveOptions) {
	err := a.Resolve(ctx, names, opts)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	a.logger.Error(err)
}
