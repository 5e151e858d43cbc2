package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizdeck/internal/deck"
	"quizdeck/internal/testutil"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		ManifestName:      `{"decks": ["capitals.json", "animals.yaml"]}`,
		"capitals.json":   `{"name": "Capitals", "icon": "🏛", "steps": [{"question": "France?", "answer": "Paris", "image": "img/paris.png"}]}`,
		"animals.yaml":    "name: Animals\nsteps:\n  - question: Cat?\n    answer: meow\n",
		"img/paris.png":   "png",
		"broken.json":     `{"name": "Broken", "steps": [`,
		"formatless.json": `{"steps": []}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// TestListDirCatalog verifies decks load from a directory in manifest order.
func TestListDirCatalog(t *testing.T) {
	ctx := testutil.Context(t, 0)
	c := New(NewDirSource(writeCatalog(t)), nil)
	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Capitals" || entries[0].Icon != "🏛" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Name != "Animals" || entries[1].Icon != deck.DefaultIcon {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

// TestDeckErrors verifies load and format failures stay distinguishable.
func TestDeckErrors(t *testing.T) {
	ctx := testutil.Context(t, 0)
	c := New(NewDirSource(writeCatalog(t)), nil)
	if _, err := c.Deck(ctx, "broken.json"); !errors.Is(err, deck.ErrDeckLoad) {
		t.Fatalf("expected load failure, got %v", err)
	}
	if _, err := c.Deck(ctx, "missing.json"); !errors.Is(err, deck.ErrDeckLoad) {
		t.Fatalf("expected load failure for missing file, got %v", err)
	}
	if _, err := c.Deck(ctx, "formatless.json"); !errors.Is(err, deck.ErrInvalidDeckFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
	if _, err := c.Deck(ctx, "../secret.json"); !errors.Is(err, deck.ErrDeckLoad) {
		t.Fatalf("expected traversal to be rejected, got %v", err)
	}
}

// TestListFailsOnBrokenDeck verifies one bad deck fails the catalog.
func TestListFailsOnBrokenDeck(t *testing.T) {
	dir := writeCatalog(t)
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(`{"decks": ["capitals.json", "broken.json"]}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	_, err := New(NewDirSource(dir), nil).List(testutil.Context(t, 0))
	if !errors.Is(err, deck.ErrDeckLoad) {
		t.Fatalf("expected load failure, got %v", err)
	}
}

// TestListHTTPCatalog verifies decks load over HTTP.
func TestListHTTPCatalog(t *testing.T) {
	server := httptest.NewServer(http.StripPrefix("/decks/", http.FileServer(http.Dir(writeCatalog(t)))))
	defer server.Close()

	source, err := NewHTTPSource(server.URL+"/decks", server.Client())
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	c := New(source, nil)
	ctx := testutil.Context(t, 2*time.Second)
	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[1].Name != "Animals" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if !c.ProbeImage(ctx, "img/paris.png") {
		t.Fatalf("expected image probe to succeed")
	}
	if c.ProbeImage(ctx, "img/missing.png") {
		t.Fatalf("expected missing image probe to fail")
	}
}

// TestHTTPSourceStatusError verifies non-200 responses are load failures.
func TestHTTPSourceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	source, err := NewHTTPSource(server.URL, server.Client())
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	_, err = New(source, nil).Manifest(testutil.Context(t, 0))
	if !errors.Is(err, deck.ErrDeckLoad) {
		t.Fatalf("expected load failure, got %v", err)
	}
}

// TestNewHTTPSourceRejectsScheme verifies only http(s) URLs are accepted.
func TestNewHTTPSourceRejectsScheme(t *testing.T) {
	if _, err := NewHTTPSource("ftp://example.com/decks", nil); err == nil {
		t.Fatalf("expected scheme error")
	}
}

// TestDirProbeImage verifies local image probes.
func TestDirProbeImage(t *testing.T) {
	c := New(NewDirSource(writeCatalog(t)), nil)
	ctx := context.Background()
	if !c.ProbeImage(ctx, "img/paris.png") {
		t.Fatalf("expected local image to exist")
	}
	if c.ProbeImage(ctx, "img") {
		t.Fatalf("expected directories to be rejected")
	}
	if c.ProbeImage(ctx, "../outside.png") {
		t.Fatalf("expected traversal to be rejected")
	}
}

// TestOversizedDeckIsRejected verifies large files fail instead of truncating.
func TestOversizedDeckIsRejected(t *testing.T) {
	dir := t.TempDir()
	padding := make([]byte, maxPayload)
	for i := range padding {
		padding[i] = ' '
	}
	big := append([]byte(`{"name": "Big", "steps": []}`), padding...)
	if err := os.WriteFile(filepath.Join(dir, "big.json"), big, 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	exact := append([]byte(`{"name": "Exact", "steps": []}`), padding[:maxPayload-len(`{"name": "Exact", "steps": []}`)]...)
	if err := os.WriteFile(filepath.Join(dir, "exact.json"), exact, 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}

	ctx := testutil.Context(t, 0)
	local := New(NewDirSource(dir), nil)
	_, err := local.Deck(ctx, "big.json")
	if !errors.Is(err, ErrTooLarge) || !errors.Is(err, deck.ErrDeckLoad) {
		t.Fatalf("expected oversized load failure, got %v", err)
	}
	if d, err := local.Deck(ctx, "exact.json"); err != nil || d.Name != "Exact" {
		t.Fatalf("expected deck at the limit to load, got %+v, %v", d, err)
	}

	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer server.Close()
	source, err := NewHTTPSource(server.URL, server.Client())
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, err := New(source, nil).Deck(ctx, "big.json"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected oversized remote deck to fail, got %v", err)
	}
}
