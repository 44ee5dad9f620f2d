package links

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/sourcescout/pkg/cache"
	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/httputil"
)

func testTransport() *httputil.Transport {
	return httputil.NewTransport(httputil.RetryPolicy{MaxAttempts: 1, Timeout: 5 * time.Second}, nil)
}

func TestFetcher_CachesPages(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<a href="foo-1.0.tar.gz">foo</a>`))
	}))
	defer server.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(testTransport(), c, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		links, err := f.Links(ctx, server.URL+"/")
		if err != nil {
			t.Fatalf("Links: %v", err)
		}
		if len(links) != 1 || links[0] != server.URL+"/foo-1.0.tar.gz" {
			t.Errorf("Links = %v", links)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch cached)", got)
	}
}

func TestFetcher_NoCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := NewFetcher(testTransport(), nil, time.Hour, nil)
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(testTransport(), c, time.Hour, nil)

	_, err = f.Fetch(context.Background(), server.URL+"/missing")
	if !errors.Is(err, errors.ErrCodeHTTPStatus) {
		t.Fatalf("expected HTTP_STATUS, got %v", err)
	}
	if _, hit, _ := c.Get(context.Background(), cache.PageKey(server.URL+"/missing")); hit {
		t.Error("failed fetch should not be cached")
	}
}
