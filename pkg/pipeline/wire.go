package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/cache"
	"github.com/matzehuels/sourcescout/pkg/config"
	"github.com/matzehuels/sourcescout/pkg/discovery"
	"github.com/matzehuels/sourcescout/pkg/download"
	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/httputil"
	"github.com/matzehuels/sourcescout/pkg/layout"
	"github.com/matzehuels/sourcescout/pkg/links"
	"github.com/matzehuels/sourcescout/pkg/oracle"
	"github.com/matzehuels/sourcescout/pkg/pool"
)

// Components are the collaborators of a run, built from one configuration.
// The CLI uses them directly for the single-stage commands.
type Components struct {
	Config     config.Config
	Layout     layout.Layout
	Transport  *httputil.Transport // request attempts
	Prober     *httputil.Transport // liveness attempts
	Client     *oracle.ChatClient
	Oracle     *oracle.Oracle
	Fetcher    *links.Fetcher
	Builder    *pool.Builder
	Discoverer *discovery.Discoverer
	Downloader *download.Manager
	Logger     *log.Logger
}

// Assemble builds every collaborator from cfg. The page cache may be nil.
func Assemble(cfg config.Config, pages cache.Cache, logger *log.Logger) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	policy, err := pool.ParsePolicy(cfg.Download.Canonical)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "download.canonical")
	}
	compare, err := pool.ComparatorFor(cfg.Download.Ordering)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "download.ordering")
	}
	blocklist, err := discovery.NewBlocklist(cfg.Download.BlockedHosts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "download.blocked_hosts")
	}

	transport := httputil.NewTransport(cfg.API.RetryPolicy(), logger)
	prober := transport.WithAttempts(cfg.API.CheckRetry)
	client := oracle.NewChatClient(cfg.API, transport)

	var rejected []string
	if len(cfg.Download.RejectedExtensions) > 0 {
		rejected = append(append(rejected, oracle.DefaultRejectedExtensions...), cfg.Download.RejectedExtensions...)
	}
	orc := oracle.New(client, prober, oracle.Options{RejectedExtensions: rejected, Logger: logger})

	fetcher := links.NewFetcher(transport, pages, cfg.Cache.CacheTTL(), logger)
	builder := pool.NewBuilder(fetcher, orc, pool.Options{
		Parallel: cfg.API.Parallel,
		Policy:   policy,
		Compare:  compare,
		Logger:   logger,
	})
	discoverer, err := discovery.New(orc, prober, discovery.Options{
		Parallel:  cfg.API.Parallel,
		Blocklist: blocklist,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	l := layout.New(cfg.Download.BaseDir, cfg.Download.Username)
	downloader := download.NewManager(transport, l, download.Options{
		Parallel:  cfg.API.Parallel,
		Checksums: cfg.Download.Checksums,
		Logger:    logger,
	})

	return &Components{
		Config:     cfg,
		Layout:     l,
		Transport:  transport,
		Prober:     prober,
		Client:     client,
		Oracle:     orc,
		Fetcher:    fetcher,
		Builder:    builder,
		Discoverer: discoverer,
		Downloader: downloader,
		Logger:     logger,
	}, nil
}

// Runner returns a Runner over the assembled components.
func (c *Components) Runner() *Runner {
	return &Runner{
		Layout:     c.Layout,
		Discoverer: c.Discoverer,
		Builder:    c.Builder,
		Downloader: c.Downloader,
		Cap:        c.Config.Download.MaxVersionCount,
		Logger:     c.Logger,
	}
}

// NewFromConfig assembles the components of cfg and returns their Runner.
func NewFromConfig(cfg config.Config, pages cache.Cache, logger *log.Logger) (*Runner, error) {
	c, err := Assemble(cfg, pages, logger)
	if err != nil {
		return nil, err
	}
	return c.Runner(), nil
}
