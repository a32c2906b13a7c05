package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgdeps/internal/adapters/antcfg"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/report"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/source"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgdeps/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds the initialized application components.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry *telemetry.Provider
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			source.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			report.NodeID,
			watcher.NodeID,
			logger.NodeID,
			antcfg.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			provider, err := graft.Dep[*telemetry.Provider](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:       app,
				Logger:    log,
				Telemetry: provider,
			}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	sources, err := graft.Dep[ports.SourceFactory](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.SnapshotStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	reporter, err := graft.Dep[ports.Reporter](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	props, err := graft.Dep[*antcfg.Reader](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sources, store, hasher, reporter, w, log, props.Func()), nil
}
