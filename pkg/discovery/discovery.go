package discovery

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/links"
	"github.com/matzehuels/sourcescout/pkg/observability"
	"github.com/matzehuels/sourcescout/pkg/oracle"
	"github.com/matzehuels/sourcescout/pkg/parallel"
)

// PageFinder proposes a download page for a component.
type PageFinder interface {
	FindPage(ctx context.Context, component string) (oracle.PageCandidate, error)
}

// Options configures a Discoverer.
type Options struct {
	Parallel  int        // discovery permits; <= 0 means 1
	Blocklist *Blocklist // nil means DefaultBlockedHosts only
	Logger    *log.Logger
}

// Discoverer verifies oracle page proposals.
type Discoverer struct {
	finder    PageFinder
	prober    oracle.Prober
	blocklist *Blocklist
	parallel  int
	logger    *log.Logger
}

// New creates a Discoverer. The prober should be configured with the
// liveness attempt count.
func New(finder PageFinder, prober oracle.Prober, opts Options) (*Discoverer, error) {
	d := &Discoverer{
		finder:    finder,
		prober:    prober,
		blocklist: opts.Blocklist,
		parallel:  max(opts.Parallel, 1),
		logger:    opts.Logger,
	}
	if d.blocklist == nil {
		b, err := NewBlocklist()
		if err != nil {
			return nil, err
		}
		d.blocklist = b
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	return d, nil
}

// Discover returns the verified download page of component, or nil when the
// component has no usable official page.
func (d *Discoverer) Discover(ctx context.Context, component string) (desc *PageDescriptor, err error) {
	start := time.Now()
	observability.Pipeline().OnDiscoverStart(ctx, component)
	defer func() {
		observability.Pipeline().OnDiscoverComplete(ctx, component, desc != nil, time.Since(start), err)
	}()

	d.logger.Info("querying download page", "component", component)
	cand, err := d.finder.FindPage(ctx, component)
	if err != nil {
		return nil, err
	}
	if !cand.Available || cand.SiteURL == "" {
		d.logger.Warn("component is not available", "component", component)
		return nil, nil
	}

	resolved, ok := d.prober.Probe(ctx, cand.SiteURL)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.logger.Warn("download page is not accessible", "component", component, "url", cand.SiteURL)
		return nil, nil
	}
	resolved = links.NormalizePageURL(resolved)
	if !d.blocklist.IsOfficial(resolved) {
		d.logger.Warn("download page is not an official site", "component", component, "url", resolved)
		return nil, nil
	}

	d.logger.Info("download page found", "component", component, "url", resolved)
	return &PageDescriptor{
		ComponentName: component,
		Available:     true,
		SiteURL:       resolved,
	}, nil
}

// DiscoverAll runs Discover for every component concurrently and returns the
// available pages in input order. Per-component failures are logged and
// skipped; only cancellation fails the batch.
func (d *Discoverer) DiscoverAll(ctx context.Context, components []string) ([]PageDescriptor, error) {
	results := parallel.Map(ctx, components, d.parallel, d.Discover)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pages []PageDescriptor
	for i, r := range results {
		if r.Err != nil {
			d.logger.Warn("page discovery failed", "component", components[i], "err", r.Err)
			continue
		}
		if r.Value != nil {
			pages = append(pages, *r.Value)
		}
	}
	return pages, nil
}
