// Package download fetches the entries of a finalized pool into the
// component's repos directory and records them in a manifest.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/httputil"
	"github.com/matzehuels/sourcescout/pkg/layout"
	"github.com/matzehuels/sourcescout/pkg/observability"
	"github.com/matzehuels/sourcescout/pkg/parallel"
	"github.com/matzehuels/sourcescout/pkg/pool"
)

// Options configures a Manager.
type Options struct {
	Parallel  int  // download permits; <= 0 means 1
	Checksums bool // record the SHA-256 of each written file
	Logger    *log.Logger
}

// File is a successfully written download.
type File struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	SHA256   string `json:"sha256,omitempty"`
}

// Failure is a download that did not produce a file.
type Failure struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Err      string `json:"error"`
}

// Result summarizes DownloadAll for one component.
type Result struct {
	Component    string    `json:"component"`
	Downloaded   []File    `json:"downloaded"`
	Failed       []Failure `json:"failed"`
	ManifestPath string    `json:"manifest_path,omitempty"`
}

// Manager downloads pools under a layout.
type Manager struct {
	transport *httputil.Transport
	layout    layout.Layout
	parallel  int
	checksums bool
	logger    *log.Logger
}

// NewManager creates a Manager.
func NewManager(transport *httputil.Transport, l layout.Layout, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		transport: transport,
		layout:    l,
		parallel:  max(opts.Parallel, 1),
		checksums: opts.Checksums,
		logger:    logger,
	}
}

// DownloadAll downloads every entry of p concurrently, then writes the
// manifest listing every entry that was attempted. An empty pool is a no-op:
// nothing is downloaded and no manifest is written. Individual download
// failures are logged and reported in the result; only layout errors and
// cancellation fail the call.
func (m *Manager) DownloadAll(ctx context.Context, p *pool.Pool) (Result, error) {
	res := Result{Component: p.ComponentName}
	if p.IsEmpty() {
		return res, nil
	}

	repos, err := m.layout.ReposDir(p.ComponentName)
	if err != nil {
		return res, err
	}

	results := parallel.Map(ctx, p.Entries, m.parallel, func(ctx context.Context, e pool.Entry) (File, error) {
		return m.download(ctx, e, repos)
	})
	if err := ctx.Err(); err != nil {
		return res, err
	}

	for i, r := range results {
		e := p.Entries[i]
		if r.Err != nil {
			m.logger.Warn("download failed", "component", e.ComponentName, "url", e.URL, "err", r.Err)
			res.Failed = append(res.Failed, Failure{FileName: e.FileName, URL: e.URL, Err: errors.UserMessage(r.Err)})
			continue
		}
		res.Downloaded = append(res.Downloaded, r.Value)
	}

	manifest, err := m.layout.ManifestPath(p.ComponentName)
	if err != nil {
		return res, err
	}
	if err := WriteManifest(manifest, p.Entries); err != nil {
		return res, fmt.Errorf("write manifest for %s: %w", p.ComponentName, err)
	}
	res.ManifestPath = manifest
	return res, nil
}

// WriteManifest writes one "<file name>: <url>" line per entry.
func WriteManifest(path string, entries []pool.Entry) error {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s: %s\n", e.FileName, e.URL)
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func (m *Manager) download(ctx context.Context, e pool.Entry, dir string) (f File, err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnDownloadComplete(ctx, e.ComponentName, e.FileName, f.Bytes, time.Since(start), err)
	}()

	if err := errors.ValidateFileName(e.FileName); err != nil {
		return File{}, err
	}
	path := filepath.Join(dir, e.FileName)
	m.logger.Info("downloading", "url", e.URL, "path", path)

	resp, err := m.transport.Get(ctx, e.URL)
	if err != nil {
		return File{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return File{}, errors.NewStatusError(e.URL, resp.StatusCode)
	}

	n, sum, err := writeFile(path, resp.Body, m.checksums)
	if err != nil {
		return File{}, fmt.Errorf("write %s: %w", path, err)
	}
	m.logger.Debug("downloaded", "path", path, "bytes", n)
	return File{FileName: e.FileName, URL: e.URL, Path: path, Bytes: n, SHA256: sum}, nil
}

// writeFile streams r into path. A partially written file is removed.
func writeFile(path string, r io.Reader, checksum bool) (int64, string, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, "", err
	}

	var h hash.Hash
	w := io.Writer(out)
	if checksum {
		h = sha256.New()
		w = io.MultiWriter(out, h)
	}

	n, err := io.Copy(w, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, "", err
	}

	var sum string
	if h != nil {
		sum = hex.EncodeToString(h.Sum(nil))
	}
	return n, sum, nil
}
