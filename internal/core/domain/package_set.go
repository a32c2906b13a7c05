package domain

import (
	"iter"
	"slices"
)

// PackageSet maps package names to resolved packages, preserving insertion order.
// It is both the result of a resolution and its visited set.
// A PackageSet is not safe for concurrent mutation.
type PackageSet struct {
	packages map[string]*Package
	order    []string
}

// NewPackageSet creates an empty PackageSet.
func NewPackageSet() *PackageSet {
	return &PackageSet{
		packages: make(map[string]*Package),
	}
}

// Has reports whether name has an entry.
func (s *PackageSet) Has(name string) bool {
	_, ok := s.packages[name]
	return ok
}

// Get returns the package stored under name.
func (s *PackageSet) Get(name string) (*Package, bool) {
	p, ok := s.packages[name]
	return p, ok
}

// Put stores p under name. Replacing an existing entry keeps its original position.
func (s *PackageSet) Put(name string, p *Package) {
	if _, exists := s.packages[name]; !exists {
		s.order = append(s.order, name)
	}
	s.packages[name] = p
}

// Len returns the number of entries.
func (s *PackageSet) Len() int {
	return len(s.order)
}

// Names returns the entry names in insertion order.
func (s *PackageSet) Names() []string {
	return slices.Clone(s.order)
}

// All returns an iterator over the entries in insertion order.
func (s *PackageSet) All() iter.Seq2[string, *Package] {
	return func(yield func(string, *Package) bool) {
		for _, name := range s.order {
			if !yield(name, s.packages[name]) {
				return
			}
		}
	}
}
