package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Source = (*RegistrySource)(nil)

const httpClientTimeout = 30 * time.Second

// RegistrySource fetches manifests from a remote package registry with a local on-disk cache.
type RegistrySource struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
	parser     ports.ManifestParser
	logger     ports.Logger
}

// NewRegistrySource creates a registry source for baseURL caching manifests in cacheDir.
func NewRegistrySource(
	baseURL string,
	cacheDir string,
	parser ports.ManifestParser,
	logger ports.Logger,
) *RegistrySource {
	return &RegistrySource{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		cacheDir: filepath.Clean(cacheDir),
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
		parser: parser,
		logger: logger,
	}
}

// WithHTTPClient replaces the HTTP client used for registry requests.
func (s *RegistrySource) WithHTTPClient(client *http.Client) *RegistrySource {
	s.httpClient = client
	return s
}

// Name returns the source name.
func (s *RegistrySource) Name() string {
	return domain.SourceRegistry
}

// Load returns the registry's manifest for name, from the cache when available.
// A 404 from the registry means not found. Only manifests that parse are cached.
func (s *RegistrySource) Load(ctx context.Context, name string, _ *domain.Framework) (*domain.Package, error) {
	if !validName(name) {
		return nil, nil
	}

	manifestURL := s.manifestURL(name)
	cachePath := s.cachePath(name)

	if data, err := s.loadFromCache(cachePath); err == nil {
		if pkg, err := s.parser.Parse(manifestURL, "", data); err == nil {
			pkg.Source = domain.SourceRegistry
			return pkg, nil
		}
	}

	data, err := s.fetch(ctx, name, manifestURL)
	if err != nil || data == nil {
		return nil, err
	}

	pkg, err := s.parser.Parse(manifestURL, "", data)
	if err != nil {
		return nil, err
	}
	pkg.Source = domain.SourceRegistry

	if err := s.saveToCache(cachePath, name, data); err != nil {
		s.logger.Warn(err.Error())
	}
	return pkg, nil
}

// cacheEntry is the on-disk form of a cached registry manifest.
type cacheEntry struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Manifest  string    `json:"manifest"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *RegistrySource) manifestURL(name string) string {
	return s.baseURL + "/" + url.PathEscape(name) + "/" + domain.ManifestFileName
}

// cachePath returns the cache file for name, keyed by registry and package.
func (s *RegistrySource) cachePath(name string) string {
	hash := sha256.Sum256([]byte(s.baseURL + "|" + name))
	return filepath.Join(s.cacheDir, hex.EncodeToString(hash[:])+".json")
}

func (s *RegistrySource) loadFromCache(path string) ([]byte, error) {
	//nolint:gosec // Path is constructed from the cache directory and a hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrRegistryCacheMiss
		}
		return nil, zerr.Wrap(err, domain.ErrRegistryCacheMiss.Error())
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Manifest == "" {
		return nil, domain.ErrRegistryCacheMiss
	}
	return []byte(entry.Manifest), nil
}

func (s *RegistrySource) saveToCache(path, name string, manifest []byte) error {
	entry := cacheEntry{
		Name:      name,
		URL:       s.manifestURL(name),
		Manifest:  string(manifest),
		Timestamp: time.Now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrRegistryCacheWriteFailed.Error())
	}

	if err := atomicWriteFile(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRegistryCacheWriteFailed.Error()), "path", path)
	}
	return nil
}

// fetch downloads the manifest for name. It returns nil, nil when the registry does not know it.
func (s *RegistrySource) fetch(ctx context.Context, name, manifestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", manifestURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(domain.Mark(domain.ErrRegistryRequestFailed), "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "package", name)
		return nil, zerr.With(apiErr, "url", manifestURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error())
	}
	return body, nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryCacheCreateFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "registry-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
