// Package report renders resolution results as a list, a dependency tree or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/pkgdeps/internal/ui/output"
	"go.trai.ch/pkgdeps/internal/ui/style"
	"go.trai.ch/zerr"
)

// Output formats.
const (
	FormatList = "list"
	FormatTree = "tree"
	FormatJSON = "json"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter implements ports.Reporter.
type Reporter struct{}

// NewReporter creates a new Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report writes res to w in the given format. An empty format selects the list.
func (r *Reporter) Report(w io.Writer, res *domain.Resolution, format string) error {
	switch format {
	case "", FormatList:
		return r.list(output.New(w), res)
	case FormatTree:
		return r.tree(output.New(w), res)
	case FormatJSON:
		return r.json(w, res)
	default:
		return zerr.With(domain.Mark(domain.ErrUnknownFormat), "format", format)
	}
}

// ReportOrder writes the package names one per line, in the given order.
func (r *Reporter) ReportOrder(w io.Writer, order []*domain.Package) error {
	for _, pkg := range order {
		if _, err := fmt.Fprintln(w, pkg.Name); err != nil {
			return err
		}
	}
	return nil
}

// list prints one aligned line per package in resolution order.
func (r *Reporter) list(out *termenv.Output, res *domain.Resolution) error {
	nameWidth, versionWidth := 0, 0
	for name, pkg := range res.Packages.All() {
		nameWidth = max(nameWidth, len(name))
		versionWidth = max(versionWidth, len(versionOf(pkg)))
	}

	for name, pkg := range res.Packages.All() {
		line := fmt.Sprintf("%-*s  %-*s  %s",
			nameWidth, name,
			versionWidth, versionOf(pkg),
			colorSource(out, pkg.Source),
		)
		if _, err := out.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// tree prints each requested package with its requirements below it.
// A package whose requirements were already printed is marked instead of expanded again.
func (r *Reporter) tree(out *termenv.Output, res *domain.Resolution) error {
	t := &treeWriter{out: out, set: res.Packages, expanded: make(map[string]bool)}

	seenRoot := make(map[string]bool, len(res.Requested))
	for _, name := range res.Requested {
		if seenRoot[name] {
			continue
		}
		seenRoot[name] = true
		t.node(name, "", "", "")
	}
	return t.err
}

type treeWriter struct {
	out      *termenv.Output
	set      *domain.PackageSet
	expanded map[string]bool
	err      error
}

func (t *treeWriter) node(name, prefix, glyph, childPrefix string) {
	if t.err != nil {
		return
	}

	pkg, ok := t.set.Get(name)
	if !ok {
		return
	}

	deps := pkg.RequiredNames()
	repeated := t.expanded[name] && len(deps) > 0

	label := name
	if pkg.Version != "" {
		label += " " + pkg.Version
	}
	label += " " + colorSource(t.out, pkg.Source)
	if repeated {
		label += t.out.String(style.TreeSeen).Foreground(termenv.RGBColor(string(style.Slate))).String()
	}

	if _, err := t.out.WriteString(prefix + glyph + label + "\n"); err != nil {
		t.err = err
		return
	}

	if repeated {
		return
	}
	t.expanded[name] = true

	for i, dep := range deps {
		if i == len(deps)-1 {
			t.node(dep, prefix+childPrefix, style.TreeLast, style.TreeSpace)
		} else {
			t.node(dep, prefix+childPrefix, style.TreeBranch, style.TreePipe)
		}
	}
}

type jsonPackage struct {
	Name     string   `json:"name"`
	Version  string   `json:"version,omitempty"`
	Source   string   `json:"source"`
	Dir      string   `json:"dir,omitempty"`
	Requires []string `json:"requires"`
	Extend   string   `json:"extend,omitempty"`
}

type jsonReport struct {
	Framework string        `json:"framework,omitempty"`
	Requested []string      `json:"requested"`
	Packages  []jsonPackage `json:"packages"`
}

func (r *Reporter) json(w io.Writer, res *domain.Resolution) error {
	doc := jsonReport{
		Framework: res.FrameworkName(),
		Requested: res.Requested,
		Packages:  make([]jsonPackage, 0, res.Packages.Len()),
	}
	if doc.Requested == nil {
		doc.Requested = []string{}
	}

	for name, pkg := range res.Packages.All() {
		requires := pkg.Requires
		if requires == nil {
			requires = []string{}
		}
		doc.Packages = append(doc.Packages, jsonPackage{
			Name:     name,
			Version:  pkg.Version,
			Source:   pkg.Source,
			Dir:      pkg.Dir,
			Requires: requires,
			Extend:   pkg.Extend,
		})
	}

	enc := json.NewEncoder(output.Plain(w))
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func versionOf(pkg *domain.Package) string {
	if pkg.Version == "" {
		return "-"
	}
	return pkg.Version
}

func colorSource(out *termenv.Output, source string) string {
	if source == "" {
		source = "unknown"
	}
	label := "(" + strings.TrimSpace(source) + ")"
	return out.String(label).Foreground(termenv.RGBColor(string(style.SourceColor(source)))).String()
}
