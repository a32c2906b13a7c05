package config

// Workfile represents the structure of the pkgdeps.work.yaml configuration file.
type Workfile struct {
	Version    string                   `yaml:"version"`
	Root       string                   `yaml:"root"`
	Framework  string                   `yaml:"framework"`
	Frameworks map[string]*FrameworkDTO `yaml:"frameworks"`
	Packages   []string                 `yaml:"packages"`
	Registry   *RegistryDTO             `yaml:"registry"`
	Requires   []string                 `yaml:"requires"`
	Sources    []string                 `yaml:"sources"`
}

// FrameworkDTO represents a framework checkout declared in the workfile.
type FrameworkDTO struct {
	Path    string `yaml:"path"`
	Version string `yaml:"version"`
}

// RegistryDTO represents the remote package registry settings.
type RegistryDTO struct {
	URL string `yaml:"url"`
}
