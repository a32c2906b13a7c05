package domain

import (
	"slices"
	"strings"
	"time"
)

// Resolution is the outcome of resolving a list of requested packages.
type Resolution struct {
	Requested []string
	Framework *Framework
	Packages  *PackageSet
}

// FrameworkName returns the framework name, or an empty string when resolution ran without one.
func (r *Resolution) FrameworkName() string {
	if r.Framework == nil {
		return ""
	}
	return r.Framework.Name
}

// SnapshotKey identifies a resolution request independent of argument order.
func SnapshotKey(framework string, requested []string) string {
	names := slices.Clone(requested)
	slices.Sort(names)
	names = slices.Compact(names)
	return framework + "|" + strings.Join(names, ",")
}

// SnapshotEntry records one resolved package.
type SnapshotEntry struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source"`
	Digest  string `json:"digest"`
}

// Snapshot is the persisted summary of a resolution.
type Snapshot struct {
	Key       string          `json:"key"`
	Framework string          `json:"framework,omitempty"`
	Requested []string        `json:"requested"`
	Packages  []SnapshotEntry `json:"packages"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SnapshotChange describes how a package differs between two snapshots.
type SnapshotChange struct {
	Name   string
	Before string
	After  string
}

// SnapshotDiff lists packages added, removed or changed since a previous snapshot.
type SnapshotDiff struct {
	Added   []string
	Removed []string
	Changed []SnapshotChange
}

// Empty reports whether the diff has no entries.
func (d SnapshotDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares s against prev. A nil prev reports every package as added.
// Changed entries are those whose digest differs.
func (s *Snapshot) Diff(prev *Snapshot) SnapshotDiff {
	var diff SnapshotDiff

	before := make(map[string]SnapshotEntry)
	if prev != nil {
		for _, e := range prev.Packages {
			before[e.Name] = e
		}
	}

	seen := make(map[string]struct{}, len(s.Packages))
	for _, e := range s.Packages {
		seen[e.Name] = struct{}{}
		old, ok := before[e.Name]
		switch {
		case !ok:
			diff.Added = append(diff.Added, e.Name)
		case old.Digest != e.Digest:
			diff.Changed = append(diff.Changed, SnapshotChange{
				Name:   e.Name,
				Before: old.Version,
				After:  e.Version,
			})
		}
	}

	if prev != nil {
		for _, e := range prev.Packages {
			if _, ok := seen[e.Name]; !ok {
				diff.Removed = append(diff.Removed, e.Name)
			}
		}
	}

	return diff
}
