package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Downloaded 12 archives (41.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Debug Hooks
// =============================================================================

// logHooks forwards observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetOracleHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnDiscoverStart(_ context.Context, component string) {
	h.logger.Debug("discover start", "component", component)
}

func (h logHooks) OnDiscoverComplete(_ context.Context, component string, available bool, d time.Duration, err error) {
	h.logger.Debug("discover done", "component", component, "available", available, "duration", d, "err", err)
}

func (h logHooks) OnClassify(_ context.Context, component, url string, accepted bool, err error) {
	h.logger.Debug("classified", "component", component, "url", url, "accepted", accepted, "err", err)
}

func (h logHooks) OnPoolBuilt(_ context.Context, component string, links, entries int, abnormal bool) {
	h.logger.Debug("pool built", "component", component, "links", links, "entries", entries, "abnormal", abnormal)
}

func (h logHooks) OnDownloadComplete(_ context.Context, component, fileName string, bytes int64, d time.Duration, err error) {
	h.logger.Debug("download done", "component", component, "file", fileName, "bytes", bytes, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "size", size)
}

func (h logHooks) OnCompletion(_ context.Context, model string, promptLen int, d time.Duration, err error) {
	h.logger.Debug("completion", "model", model, "prompt_len", promptLen, "duration", d, "err", err)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
