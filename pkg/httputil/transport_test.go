package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/buildinfo"
	scerrors "github.com/matzehuels/sourcescout/pkg/errors"
)

type failingRoundTripper struct{ calls atomic.Int32 }

func (f *failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, errors.New("connection refused")
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestTransportRetryTermination(t *testing.T) {
	rt := &failingRoundTripper{}
	policy := RetryPolicy{MaxAttempts: 3, Delay: 30 * time.Millisecond}
	tr := NewTransport(policy, quietLogger(), WithClient(&http.Client{Transport: rt}))

	start := time.Now()
	resp, err := tr.Get(context.Background(), "http://unreachable.invalid/file.tar.gz")
	elapsed := time.Since(start)

	if resp != nil {
		t.Error("expected nil response")
	}
	if !scerrors.Is(err, scerrors.ErrCodeTransportExhausted) {
		t.Fatalf("error = %v, want TRANSPORT_EXHAUSTED", err)
	}
	if got := rt.calls.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if elapsed < 60*time.Millisecond {
		t.Errorf("elapsed = %v, want at least two delays (60ms)", elapsed)
	}
	if msg := err.Error(); !strings.Contains(msg, "unreachable.invalid") || !strings.Contains(msg, "3 attempts") {
		t.Errorf("error %q should name the URL and attempt count", msg)
	}
}

func TestTransportNonSuccessStatusIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewTransport(RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}, quietLogger())
	resp, err := tr.Get(context.Background(), srv.URL+"/missing")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
}

func TestTransportPostResendsBody(t *testing.T) {
	var attempts atomic.Int32
	var lastBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastBody.Store(string(b))
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("missing request header")
		}
		if r.Header.Get("User-Agent") != buildinfo.UserAgent() {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	flaky := &flakyRoundTripper{failures: 1, next: http.DefaultTransport, attempts: &attempts}
	tr := NewTransport(RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}, quietLogger(),
		WithClient(&http.Client{Transport: flaky}))

	resp, err := tr.Post(context.Background(), srv.URL, []byte(`{"q":1}`), http.Header{"X-Test": []string{"yes"}})
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	resp.Body.Close()

	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
	if got := lastBody.Load(); got != `{"q":1}` {
		t.Errorf("body = %v, want resent payload", got)
	}
}

type flakyRoundTripper struct {
	failures int32
	next     http.RoundTripper
	attempts *atomic.Int32
}

func (f *flakyRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if n := f.attempts.Add(1); n <= f.failures {
		return nil, errors.New("connection reset by peer")
	}
	return f.next.RoundTrip(r)
}

func TestTransportInvalidURLFailsFast(t *testing.T) {
	rt := &failingRoundTripper{}
	tr := NewTransport(RetryPolicy{MaxAttempts: 3, Delay: time.Second}, quietLogger(),
		WithClient(&http.Client{Transport: rt}))

	_, err := tr.Get(context.Background(), "http://bad host/\x7f")
	if !scerrors.Is(err, scerrors.ErrCodeInvalidURL) {
		t.Errorf("error = %v, want INVALID_URL", err)
	}
	if rt.calls.Load() != 0 {
		t.Errorf("round trips = %d, want 0", rt.calls.Load())
	}
}

func TestTransportProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tr := NewTransport(RetryPolicy{MaxAttempts: 1}, quietLogger())

	final, ok := tr.Probe(context.Background(), srv.URL+"/old")
	if !ok {
		t.Fatal("Probe(/old) = false, want true")
	}
	if final != srv.URL+"/new/" {
		t.Errorf("final = %q, want %q", final, srv.URL+"/new/")
	}

	if _, ok := tr.Probe(context.Background(), srv.URL+"/forbidden"); ok {
		t.Error("Probe(/forbidden) = true, want false")
	}
}

func TestTransportWithAttempts(t *testing.T) {
	tr := NewTransport(RetryPolicy{MaxAttempts: 5, Delay: time.Second}, quietLogger())
	probe := tr.WithAttempts(2)

	if probe.Policy().MaxAttempts != 2 {
		t.Errorf("probe attempts = %d, want 2", probe.Policy().MaxAttempts)
	}
	if tr.Policy().MaxAttempts != 5 {
		t.Error("WithAttempts should not modify the receiver")
	}
	if probe.Policy().Delay != time.Second {
		t.Error("WithAttempts should keep the delay")
	}
}
