package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/discovery"
	"github.com/matzehuels/sourcescout/pkg/download"
	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/layout"
	"github.com/matzehuels/sourcescout/pkg/pool"
)

// PageDiscoverer finds verified download pages. [discovery.Discoverer]
// implements it.
type PageDiscoverer interface {
	DiscoverAll(ctx context.Context, components []string) ([]discovery.PageDescriptor, error)
}

// PoolBuilder builds a ranked pool from a page. [pool.Builder] implements it.
type PoolBuilder interface {
	Build(ctx context.Context, pageURL, component string, capCount int) (*pool.Pool, bool, error)
}

// Downloader fetches a pool. [download.Manager] implements it.
type Downloader interface {
	DownloadAll(ctx context.Context, p *pool.Pool) (download.Result, error)
}

// Runner executes the batch. It keeps no state between runs; one Runner may
// serve several sequential Execute calls.
type Runner struct {
	Layout     layout.Layout
	Discoverer PageDiscoverer
	Builder    PoolBuilder
	Downloader Downloader
	Cap        int
	Logger     *log.Logger
}

// Execute runs discovery, pool building and download for every component and
// writes the available and abnormal page lists. Missing input or output
// directories and invalid names in opts.Components abort the run before any
// network traffic. Directories under GitHub with invalid names are skipped;
// per-component failures are recorded in the report.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Report, error) {
	logger := r.logger()
	report := newReport()

	if err := r.Layout.Check(); err != nil {
		return nil, err
	}

	components := opts.Components
	if len(components) == 0 {
		names, err := r.Layout.ComponentNames()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if err := errors.ValidateComponentName(name); err != nil {
				logger.Warn("skipping component directory", "name", name, "err", errors.UserMessage(err))
				continue
			}
			components = append(components, name)
		}
	} else {
		for _, c := range components {
			if err := errors.ValidateComponentName(c); err != nil {
				return nil, err
			}
		}
	}
	report.Scanned = len(components)
	logger.Info("components to scan", "count", len(components))

	pages, err := r.Discoverer.DiscoverAll(ctx, components)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	logger.Info("download pages found", "available", len(pages), "scanned", len(components))

	capCount := opts.Cap
	if capCount == 0 {
		capCount = r.Cap
	}

	for i := range pages {
		page := &pages[i]
		cr, res, err := r.processPage(ctx, page, capCount)
		if err != nil {
			return nil, err
		}
		report.Components = append(report.Components, cr)
		if res != nil {
			report.Downloads = append(report.Downloads, *res)
		}
		report.Available = append(report.Available, *page)
		if page.Abnormal {
			report.Abnormal = append(report.Abnormal, *page)
		}
	}

	if err := r.writeLists(report); err != nil {
		return nil, err
	}
	report.FinishedAt = time.Now()
	return report, nil
}

// processPage builds and downloads one page. Only cancellation and layout
// errors are returned; everything else marks the component.
func (r *Runner) processPage(ctx context.Context, page *discovery.PageDescriptor, capCount int) (ComponentReport, *download.Result, error) {
	logger := r.logger()
	cr := ComponentReport{Component: page.ComponentName, SiteURL: page.SiteURL}

	p, abnormal, err := r.Builder.Build(ctx, page.SiteURL, page.ComponentName, capCount)
	if err != nil {
		if ctx.Err() != nil {
			return cr, nil, ctx.Err()
		}
		logger.Warn("page could not be processed", "component", page.ComponentName, "url", page.SiteURL, "err", err)
		page.Abnormal = true
		cr.Abnormal = true
		cr.Error = errors.UserMessage(err)
		return cr, nil, nil
	}
	page.Abnormal = abnormal
	cr.Abnormal = abnormal
	cr.Entries = p.Len()
	if abnormal {
		logger.Warn("no source packages found", "component", page.ComponentName, "url", page.SiteURL)
	}

	res, err := r.Downloader.DownloadAll(ctx, p)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, errors.ErrCodeMissingDirectory) {
			return cr, nil, err
		}
		logger.Warn("download failed", "component", page.ComponentName, "err", err)
		cr.Error = errors.UserMessage(err)
	}
	cr.Downloaded = len(res.Downloaded)
	cr.Failed = len(res.Failed)
	return cr, &res, nil
}

func (r *Runner) writeLists(report *Report) error {
	available, err := r.Layout.AvailablePath()
	if err != nil {
		return err
	}
	if err := layout.WriteJSON(available, report.Available); err != nil {
		return fmt.Errorf("write %s: %w", available, err)
	}
	abnormal, err := r.Layout.AbnormalPath()
	if err != nil {
		return err
	}
	if err := layout.WriteJSON(abnormal, report.Abnormal); err != nil {
		return fmt.Errorf("write %s: %w", abnormal, err)
	}
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
