// Package cli implements the sourcescout command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sourcescout/pkg/buildinfo"
	"github.com/matzehuels/sourcescout/pkg/cache"
	"github.com/matzehuels/sourcescout/pkg/config"
	"github.com/matzehuels/sourcescout/pkg/observability"
	"github.com/matzehuels/sourcescout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sourcescout"

	// dotEnvFile is loaded before the config file so it can supply the API key.
	dotEnvFile = ".env"

	// redisNamespace prefixes every key written to a shared Redis instance.
	redisNamespace = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	baseDir    string
	parallel   int
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "sourcescout finds and downloads official source archives",
		Long: `sourcescout asks a chat-completion model for the official download page of
each component, classifies the links on that page, and downloads the newest
source archives into the Official directory of the download tree.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", config.DefaultPath, "config file (.toml, .yaml or .yml)")
	flags.StringVar(&c.baseDir, "base-dir", "", "override download.base_dir")
	flags.IntVar(&c.parallel, "parallel", 0, "override api.parallel")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the page cache")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.discoverCommand())
	root.AddCommand(c.linksCommand())
	root.AddCommand(c.oracleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads .env, the config file and the command-line overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		c.Logger.Warn("could not load .env", "err", err)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.WithOverrides(config.Overrides{
		BaseDir:  c.baseDir,
		Parallel: c.parallel,
		NoCache:  c.noCache,
	})
	return cfg, cfg.Validate()
}

// assemble loads the configuration and builds every pipeline component.
// The returned close function releases the page cache.
func (c *CLI) assemble(ctx context.Context) (*pipeline.Components, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	pages, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	comps, err := pipeline.Assemble(cfg, pages, c.Logger)
	if err != nil {
		pages.Close()
		return nil, nil, err
	}
	c.Logger.Debug("configuration loaded",
		"config", c.configPath,
		"model", cfg.API.ModelID,
		"parallel", cfg.API.Parallel,
		"cache", cfg.Cache.Backend)
	return comps, func() { pages.Close() }, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the page cache backend selected by cfg.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewScoped(rc, redisNamespace), nil
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open cache dir %s: %w", dir, err)
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// fileCacheDir returns cfg.Dir when set, else the XDG cache directory.
func fileCacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/sourcescout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
