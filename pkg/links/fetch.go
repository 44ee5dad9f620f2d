package links

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/cache"
	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/httputil"
	"github.com/matzehuels/sourcescout/pkg/observability"
)

// maxPageBytes bounds how much of a download page is read.
const maxPageBytes = 16 << 20

// Fetcher downloads page bodies, serving repeats from a cache.
type Fetcher struct {
	transport *httputil.Transport
	cache     cache.Cache
	ttl       time.Duration
	logger    *log.Logger
}

// NewFetcher creates a Fetcher. A nil cache disables caching and a nil
// logger uses log.Default().
func NewFetcher(transport *httputil.Transport, c cache.Cache, ttl time.Duration, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{transport: transport, cache: c, ttl: ttl, logger: logger}
}

// Fetch returns the body of pageURL. Non-2xx responses are reported with
// [errors.ErrCodeHTTPStatus] and are not cached.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	key := cache.PageKey(pageURL)
	if data, ok, err := f.cache.Get(ctx, key); err != nil {
		f.logger.Warn("page cache read failed", "url", pageURL, "err", err)
	} else if ok {
		observability.Cache().OnCacheHit(ctx, key)
		f.logger.Debug("page cache hit", "url", pageURL)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, key)

	f.logger.Info("fetching page", "url", pageURL)
	resp, err := f.transport.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStatusError(pageURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHTTPStatus, err, "read page %s", pageURL)
	}

	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.Warn("page cache write failed", "url", pageURL, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return data, nil
}

// Links fetches pageURL and extracts its resolved links.
func (f *Fetcher) Links(ctx context.Context, pageURL string) ([]string, error) {
	data, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	links, err := Extract(bytes.NewReader(data), pageURL)
	if err != nil {
		return nil, err
	}
	f.logger.Info("links extracted", "url", pageURL, "count", len(links))
	return links, nil
}

