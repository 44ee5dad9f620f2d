package httputil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/buildinfo"
	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/observability"
)

// Transport issues HTTP requests under a [RetryPolicy].
// It is safe for concurrent use.
type Transport struct {
	client *http.Client
	policy RetryPolicy
	header http.Header
	logger *log.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithClient replaces the underlying HTTP client. The client's Timeout is
// left as given.
func WithClient(c *http.Client) Option {
	return func(t *Transport) { t.client = c }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(t *Transport) { t.header.Set(key, value) }
}

// NewTransport creates a Transport. If logger is nil, log.Default() is used.
func NewTransport(policy RetryPolicy, logger *log.Logger, opts ...Option) *Transport {
	if logger == nil {
		logger = log.Default()
	}
	t := &Transport{
		client: &http.Client{Timeout: policy.Timeout},
		policy: policy,
		header: http.Header{"User-Agent": []string{buildinfo.UserAgent()}},
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Policy returns the transport's retry policy.
func (t *Transport) Policy() RetryPolicy { return t.policy }

// WithAttempts returns a copy of t that makes n attempts per request.
// The copy shares the HTTP client and default headers.
func (t *Transport) WithAttempts(n int) *Transport {
	c := *t
	c.policy.MaxAttempts = n
	return &c
}

// Get issues a GET request.
func (t *Transport) Get(ctx context.Context, url string) (*http.Response, error) {
	return t.Do(ctx, http.MethodGet, url, nil, nil)
}

// Head issues a HEAD request.
func (t *Transport) Head(ctx context.Context, url string) (*http.Response, error) {
	return t.Do(ctx, http.MethodHead, url, nil, nil)
}

// Post issues a POST request with body and extra headers.
func (t *Transport) Post(ctx context.Context, url string, body []byte, header http.Header) (*http.Response, error) {
	return t.Do(ctx, http.MethodPost, url, body, header)
}

// Do issues a request, retrying transport failures per the policy. Any HTTP
// status is returned as a response; the caller must close resp.Body.
// Exhaustion yields an error coded [errors.ErrCodeTransportExhausted].
func (t *Transport) Do(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Response, error) {
	base, err := t.newRequest(ctx, method, url, header)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "build %s request for %s", method, url)
	}
	host, path := base.URL.Host, base.URL.Path

	var resp *http.Response
	onRetry := func(attempt int, err error) {
		t.logger.Warn("request failed, retrying",
			"method", method,
			"url", url,
			"attempt", attempt,
			"delay", t.policy.Delay,
			"err", err)
	}

	err = Retry(ctx, t.policy.MaxAttempts, t.policy.Delay, onRetry, func() error {
		req := base.Clone(ctx)
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		observability.HTTP().OnRequest(ctx, method, host, path)
		start := time.Now()
		r, err := t.client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, method, host, path, err)
			return err
		}
		observability.HTTP().OnResponse(ctx, method, host, path, r.StatusCode, time.Since(start))
		resp = r
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeTransportExhausted, err,
			"%s %s failed after %d attempts", method, url, max(t.policy.MaxAttempts, 1))
	}
	return resp, nil
}

// Probe checks that url is reachable with a HEAD request, following
// redirects. It returns the final resolved URL and whether the request
// succeeded with a status below 400.
func (t *Transport) Probe(ctx context.Context, url string) (string, bool) {
	resp, err := t.Head(ctx, url)
	if err != nil {
		t.logger.Debug("probe failed", "url", url, "err", err)
		return "", false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.Debug("probe rejected", "url", url, "status", resp.StatusCode)
		return "", false
	}
	return resp.Request.URL.String(), true
}

func (t *Transport) newRequest(ctx context.Context, method, url string, header http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range t.header {
		req.Header[k] = v
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return req, nil
}
