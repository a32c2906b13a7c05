package domain

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// PackageDirVar is the ant placeholder for a package's directory in class path entries.
const PackageDirVar = "${package.dir}"

// PropertiesReader reads a Java-style properties file into a flat key/value map.
type PropertiesReader func(path string) (map[string]string, error)

// Package is a named unit of front-end build configuration with declared dependencies.
type Package struct {
	// Name is the unique package name.
	Name string

	// Version is the declared package version, if any.
	Version string

	// Requires lists the names of packages this package depends on.
	Requires []string

	// Extend names the package this one extends; it is treated as an implicit requirement.
	Extend string

	// Dir is the directory holding the manifest. Empty for packages without a local copy.
	Dir string

	// Source is the name of the lookup source that produced this package.
	Source string

	// Config is the full decoded manifest.
	Config map[string]any

	antOnce   sync.Once
	antConfig map[string]string
	antErr    error

	classOnce  sync.Once
	classPaths []string
	classErr   error
}

// String returns the package name.
func (p *Package) String() string {
	return p.Name
}

// RequiredNames returns the declared requirements followed by the extend target
// when it is set and not already required.
func (p *Package) RequiredNames() []string {
	names := slices.Clone(p.Requires)
	if p.Extend != "" && !slices.Contains(names, p.Extend) {
		names = append(names, p.Extend)
	}
	return names
}

// ConfigValue returns a top level manifest value.
func (p *Package) ConfigValue(key string) (any, bool) {
	v, ok := p.Config[key]
	return v, ok
}

// AntConfig returns the package's aggregate ant configuration: the dotted keys of
// .sencha/package/sencha.cfg with the manifest collapsed on top under "package.".
// The result is computed on first use and cached for the lifetime of the package.
func (p *Package) AntConfig(read PropertiesReader) (map[string]string, error) {
	p.antOnce.Do(func() {
		if p.Dir == "" {
			p.antErr = zerr.With(Mark(ErrPackageDirUnknown), "package", p.Name)
			return
		}

		path := filepath.Join(p.Dir, filepath.FromSlash(AntConfigPath))
		props, err := read(path)
		if err != nil {
			err = zerr.Wrap(err, ErrAntConfigReadFailed.Error())
			p.antErr = zerr.With(err, "package", p.Name)
			return
		}

		cfg := make(map[string]string, len(props)+len(p.Config))
		for k, v := range props {
			cfg[k] = v
		}
		CollapseToDottedKeys(p.Config, "package", cfg)
		p.antConfig = cfg
	})
	return p.antConfig, p.antErr
}

// ClassPaths returns the entries of package.classpath, in declaration order.
func (p *Package) ClassPaths(read PropertiesReader) ([]string, error) {
	p.classOnce.Do(func() {
		cfg, err := p.AntConfig(read)
		if err != nil {
			p.classErr = err
			return
		}

		for _, entry := range strings.Split(cfg["package.classpath"], ",") {
			if entry = strings.TrimSpace(entry); entry != "" {
				entry = strings.ReplaceAll(entry, PackageDirVar, p.Dir)
				p.classPaths = append(p.classPaths, entry)
			}
		}
	})
	return p.classPaths, p.classErr
}
