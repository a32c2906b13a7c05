// Package domain contains the core domain models for package dependency resolution.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	unvisited = iota
	visiting
	visited
)

// BuildOrder returns the packages of set ordered so that every package appears after
// all packages it requires. Ties follow the set's insertion order and each package's
// requirement order, so the result is deterministic.
// It returns ErrCycleDetected when the requirements form a cycle.
func BuildOrder(set *PackageSet) ([]*Package, error) {
	order := make([]*Package, 0, set.Len())
	state := make(map[string]int, set.Len())
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		pkg, ok := set.Get(name)
		if !ok {
			err := zerr.With(Mark(ErrPackageNotInSet), "package", name)
			if len(path) > 0 {
				err = zerr.With(err, "requested_by", path[len(path)-1])
			}
			return err
		}

		state[name] = visiting
		path = append(path, name)

		for _, dep := range pkg.RequiredNames() {
			switch state[dep] {
			case visiting:
				return buildCycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[name] = visited
		path = path[:len(path)-1]
		order = append(order, pkg)
		return nil
	}

	for name := range set.All() {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := 0
	for i, name := range path {
		if name == dep {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, path[start:]...), dep)
	return zerr.With(Mark(ErrCycleDetected), "cycle", strings.Join(cycle, " -> "))
}
