package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/sourcescout/pkg/cache"
	"github.com/matzehuels/sourcescout/pkg/config"
)

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	c, err := newCache(ctx, config.CacheConfig{Backend: config.CacheNone})
	if err != nil {
		t.Fatalf("newCache(none) error: %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("newCache(none) = %T, want *cache.NullCache", c)
	}

	dir := t.TempDir()
	c, err = newCache(ctx, config.CacheConfig{Backend: config.CacheFile, Dir: dir})
	if err != nil {
		t.Fatalf("newCache(file) error: %v", err)
	}
	defer c.Close()
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache(file) = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
}

func TestClearCacheFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range []string{"https://zlib.net/", "https://www.gnu.org/software/make/"} {
		if err := fc.Set(ctx, cache.PageKey(u), []byte("<html></html>"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, where, err := clearCache(ctx, config.CacheConfig{Backend: config.CacheFile, Dir: dir})
	if err != nil {
		t.Fatalf("clearCache() error: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d entries, want 2", n)
	}
	if where != dir {
		t.Errorf("location = %q, want %q", where, dir)
	}
	if _, ok, _ := fc.Get(ctx, cache.PageKey("https://zlib.net/")); ok {
		t.Error("entry still present after clear")
	}
}

func TestClearCacheNone(t *testing.T) {
	n, where, err := clearCache(context.Background(), config.CacheConfig{Backend: config.CacheNone})
	if err != nil || n != 0 || where != "" {
		t.Errorf("clearCache(none) = (%d, %q, %v), want (0, \"\", nil)", n, where, err)
	}
}

func TestCacheConfigMissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := c.cacheConfig()
	if err != nil {
		t.Fatalf("cacheConfig() error: %v", err)
	}
	if cfg.Backend != config.CacheFile {
		t.Errorf("Backend = %q, want %q", cfg.Backend, config.CacheFile)
	}

	c.noCache = true
	cfg, err = c.cacheConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != config.CacheNone {
		t.Errorf("--no-cache Backend = %q, want %q", cfg.Backend, config.CacheNone)
	}
}

// chdir switches to dir for the duration of the test so a stray .env in the
// working directory does not leak into config loading.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
