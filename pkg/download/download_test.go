package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sourcescout/pkg/httputil"
	"github.com/matzehuels/sourcescout/pkg/layout"
	"github.com/matzehuels/sourcescout/pkg/pool"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	base := t.TempDir()
	for _, dir := range []string{layout.GitHubDirName, layout.OfficialDirName} {
		if err := os.MkdirAll(filepath.Join(base, "alice", dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return layout.New(base, "alice")
}

func testManager(l layout.Layout, checksums bool) *Manager {
	tr := httputil.NewTransport(httputil.RetryPolicy{MaxAttempts: 1, Timeout: 5 * time.Second}, nil)
	return NewManager(tr, l, Options{Parallel: 2, Checksums: checksums})
}

func mustEntry(t *testing.T, url string) pool.Entry {
	t.Helper()
	e, ok := pool.NewEntry(url, "libfoo", pool.PolicyVersion)
	if !ok {
		t.Fatalf("NewEntry(%q) failed", url)
	}
	return e
}

func archiveServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/libfoo-2.0.tar.gz":
			w.Write([]byte("archive two"))
		case "/libfoo-1.0.tar.gz":
			w.Write([]byte("archive one"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestDownloadAll(t *testing.T) {
	server := archiveServer()
	defer server.Close()

	l := testLayout(t)
	p := pool.New("libfoo")
	p.Add(mustEntry(t, server.URL+"/libfoo-2.0.tar.gz"))
	p.Add(mustEntry(t, server.URL+"/libfoo-1.0.tar.gz"))

	res, err := testManager(l, true).DownloadAll(context.Background(), p)
	if err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if len(res.Downloaded) != 2 || len(res.Failed) != 0 {
		t.Fatalf("downloaded %d, failed %d; want 2, 0", len(res.Downloaded), len(res.Failed))
	}

	repos, _ := l.ReposDir("libfoo")
	data, err := os.ReadFile(filepath.Join(repos, "libfoo-2.0.tar.gz"))
	if err != nil || string(data) != "archive two" {
		t.Errorf("libfoo-2.0.tar.gz = %q, %v", data, err)
	}

	sum := sha256.Sum256([]byte("archive two"))
	if res.Downloaded[0].SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("SHA256 = %s", res.Downloaded[0].SHA256)
	}
	if res.Downloaded[0].Bytes != int64(len("archive two")) {
		t.Errorf("Bytes = %d", res.Downloaded[0].Bytes)
	}

	manifest, err := os.ReadFile(res.ManifestPath)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	want := "libfoo-2.0.tar.gz: " + server.URL + "/libfoo-2.0.tar.gz\n" +
		"libfoo-1.0.tar.gz: " + server.URL + "/libfoo-1.0.tar.gz\n"
	if string(manifest) != want {
		t.Errorf("manifest =\n%s\nwant\n%s", manifest, want)
	}
}

func TestDownloadAll_NotFoundStillInManifest(t *testing.T) {
	server := archiveServer()
	defer server.Close()

	l := testLayout(t)
	p := pool.New("libfoo")
	p.Add(mustEntry(t, server.URL+"/libfoo-3.0.tar.gz"))
	p.Add(mustEntry(t, server.URL+"/libfoo-1.0.tar.gz"))

	res, err := testManager(l, false).DownloadAll(context.Background(), p)
	if err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if len(res.Downloaded) != 1 || len(res.Failed) != 1 {
		t.Fatalf("downloaded %d, failed %d; want 1, 1", len(res.Downloaded), len(res.Failed))
	}
	if res.Failed[0].FileName != "libfoo-3.0.tar.gz" {
		t.Errorf("failed = %+v", res.Failed[0])
	}
	if res.Downloaded[0].SHA256 != "" {
		t.Error("checksum should be empty when disabled")
	}

	repos, _ := l.ReposDir("libfoo")
	if _, err := os.Stat(filepath.Join(repos, "libfoo-3.0.tar.gz")); !os.IsNotExist(err) {
		t.Error("404 download should leave no file in repos")
	}

	manifest, _ := os.ReadFile(res.ManifestPath)
	if !strings.Contains(string(manifest), "libfoo-3.0.tar.gz: "+server.URL+"/libfoo-3.0.tar.gz") {
		t.Errorf("manifest should list the failed entry:\n%s", manifest)
	}
}

func TestDownloadAll_EmptyPoolSkipsManifest(t *testing.T) {
	l := testLayout(t)
	res, err := testManager(l, false).DownloadAll(context.Background(), pool.New("libfoo"))
	if err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if res.ManifestPath != "" || len(res.Downloaded) != 0 {
		t.Errorf("empty pool result = %+v", res)
	}
	official, _ := l.OfficialDir()
	if _, err := os.Stat(filepath.Join(official, "libfoo")); !os.IsNotExist(err) {
		t.Error("empty pool should not create the component directory")
	}
}

func TestDownloadAll_MissingOfficialDir(t *testing.T) {
	l := layout.New(t.TempDir(), "nobody")
	p := pool.New("libfoo")
	p.Add(mustEntry(t, "https://example.org/libfoo-1.0.tar.gz"))
	if _, err := testManager(l, false).DownloadAll(context.Background(), p); err == nil {
		t.Error("expected error for missing layout")
	}
}

func TestWriteFileRemovesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.tar.gz")
	_, _, err := writeFile(path, &failingReader{}, true)
	if err == nil {
		t.Fatal("expected write error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("partial file should be removed")
	}
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, os.ErrClosed
}
