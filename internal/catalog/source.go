package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// ManifestName is the catalog manifest file listing the bundled decks.
const ManifestName = "index.json"

// maxPayload bounds the size of a manifest or deck file.
const maxPayload = 4 << 20

// ErrTooLarge reports a catalog file over the payload limit.
var ErrTooLarge = errors.New("catalog file exceeds 4 MiB")

// readPayload reads r whole, failing instead of truncating past maxPayload.
func readPayload(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxPayload {
		return nil, fmt.Errorf("read %s: %w", name, ErrTooLarge)
	}
	return data, nil
}

// Source reads catalog files by name.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
	// Exists reports whether a referenced asset, such as a step image, can
	// be loaded.
	Exists(ctx context.Context, ref string) bool
	// String describes the source for logs.
	String() string
}

// cleanName rejects names that escape the catalog root.
func cleanName(name string) (string, error) {
	cleaned := path.Clean(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if cleaned == "." || !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("invalid catalog file name %q", name)
	}
	return cleaned, nil
}

// DirSource reads a catalog from a local directory.
type DirSource struct {
	dir  string
	fsys fs.FS
}

// NewDirSource opens a catalog directory.
func NewDirSource(dir string) DirSource {
	return DirSource{dir: dir, fsys: os.DirFS(dir)}
}

// Read returns the contents of a catalog file.
func (s DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	file, err := s.fsys.Open(cleaned)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cleaned, err)
	}
	defer file.Close()
	return readPayload(file, cleaned)
}

// Exists checks remote refs over HTTP and local refs inside the directory.
func (s DirSource) Exists(ctx context.Context, ref string) bool {
	if isRemote(ref) {
		return probeURL(ctx, http.DefaultClient, ref)
	}
	cleaned, err := cleanName(ref)
	if err != nil {
		return false
	}
	info, err := fs.Stat(s.fsys, cleaned)
	return err == nil && !info.IsDir()
}

// String returns the directory path.
func (s DirSource) String() string {
	return s.dir
}

// HTTPSource reads a catalog published under a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource builds a source for baseURL. A nil client gets a 10s timeout.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("catalog url must be http or https, got %q", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{base: parsed, client: client}, nil
}

func (s *HTTPSource) resolve(name string) (string, error) {
	if isRemote(name) {
		return name, nil
	}
	cleaned, err := cleanName(name)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", name, err)
	}
	return s.base.ResolveReference(ref).String(), nil
}

// Read fetches a catalog file relative to the base URL.
func (s *HTTPSource) Read(ctx context.Context, name string) ([]byte, error) {
	target, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}
	return readPayload(resp.Body, target)
}

// Exists probes an asset relative to the base URL.
func (s *HTTPSource) Exists(ctx context.Context, ref string) bool {
	target, err := s.resolve(ref)
	if err != nil {
		return false
	}
	return probeURL(ctx, s.client, target)
}

// String returns the base URL.
func (s *HTTPSource) String() string {
	return s.base.String()
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// probeURL issues a HEAD request and falls back to GET for servers that do
// not support HEAD.
func probeURL(ctx context.Context, client *http.Client, target string) bool {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false
			}
			continue
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()
		if resp.StatusCode == http.StatusMethodNotAllowed {
			continue
		}
		return resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	return false
}
