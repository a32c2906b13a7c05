// Package antcfg reads Sencha ant property files.
package antcfg

import (
	"github.com/magiconair/properties"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

// Reader loads .properties style files such as sencha.cfg.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the key/value pairs of the properties file at path.
// Values are returned verbatim: ${...} references are resolved by the ant build, not here.
func (r *Reader) Read(path string) (map[string]string, error) {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	props, err := loader.LoadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load properties"), "path", path)
	}
	return props.Map(), nil
}

// Func returns Read as a domain.PropertiesReader.
func (r *Reader) Func() domain.PropertiesReader {
	return r.Read
}
