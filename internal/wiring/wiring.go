// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pkgdeps/internal/adapters/antcfg"
	_ "go.trai.ch/pkgdeps/internal/adapters/cas"
	_ "go.trai.ch/pkgdeps/internal/adapters/config"
	_ "go.trai.ch/pkgdeps/internal/adapters/fs"
	_ "go.trai.ch/pkgdeps/internal/adapters/logger"
	_ "go.trai.ch/pkgdeps/internal/adapters/manifest"
	_ "go.trai.ch/pkgdeps/internal/adapters/report"
	_ "go.trai.ch/pkgdeps/internal/adapters/source"
	_ "go.trai.ch/pkgdeps/internal/adapters/telemetry"
	_ "go.trai.ch/pkgdeps/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/pkgdeps/internal/app"
)
