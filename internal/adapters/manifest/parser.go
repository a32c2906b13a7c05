// Package manifest decodes package.json manifests into packages.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/tailscale/hujson"
	pkgfs "go.trai.ch/pkgdeps/internal/adapters/fs"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestParser = (*Parser)(nil)

// Parser decodes manifests that may contain comments and trailing commas.
type Parser struct {
	fsys pkgfs.FileSystem
}

// NewParser creates a new Parser reading manifests through fsys.
func NewParser(fsys pkgfs.FileSystem) *Parser {
	return &Parser{fsys: fsys}
}

// Read loads and parses the manifest at path. The package directory is the manifest's directory.
// A missing manifest yields nil, nil.
func (p *Parser) Read(path string) (*domain.Package, error) {
	data, err := p.fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}
	return p.Parse(path, filepath.Dir(path), data)
}

// Parse decodes data read from path into a Package with the given directory.
func (p *Parser) Parse(path, dir string, data []byte) (*domain.Package, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, domain.NewManifestParseError(path, err)
	}

	var raw any
	if err := json.Unmarshal(std, &raw); err != nil {
		return nil, domain.NewManifestParseError(path, err)
	}

	cfg, ok := raw.(map[string]any)
	if !ok {
		return nil, domain.NewManifestParseError(path, fmt.Errorf("expected an object, got %s", typeName(raw)))
	}

	name, err := stringField(cfg, "name")
	if err != nil {
		return nil, domain.NewManifestParseError(path, err)
	}
	if name == "" {
		return nil, domain.NewManifestParseError(path, errors.New("missing required field \"name\""))
	}

	version, err := stringField(cfg, "version")
	if err != nil {
		return nil, domain.NewManifestParseError(path, err)
	}

	extend, err := stringField(cfg, "extend")
	if err != nil {
		return nil, domain.NewManifestParseError(path, err)
	}

	requires, err := stringListField(cfg, "requires")
	if err != nil {
		return nil, domain.NewManifestParseError(path, err)
	}

	return &domain.Package{
		Name:     name,
		Version:  version,
		Requires: requires,
		Extend:   extend,
		Dir:      dir,
		Config:   cfg,
	}, nil
}

func stringField(cfg map[string]any, key string) (string, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %s", key, typeName(v))
	}
	return s, nil
}

func stringListField(cfg map[string]any, key string) ([]string, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list of strings, got %s", key, typeName(v))
	}

	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q entry %d must be a string, got %s", key, i, typeName(item))
		}
		out = append(out, s)
	}
	return out, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
