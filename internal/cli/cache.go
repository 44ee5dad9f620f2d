package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourcescout/pkg/cache"
	"github.com/matzehuels/sourcescout/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download page cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return err
			}
			count, where, err := clearCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
			} else {
				printSuccess("Cleared %d cached pages", count)
			}
			if where != "" {
				printDetail("Location: %s", where)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the page cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return err
			}
			switch cfg.Backend {
			case config.CacheNone:
				printInfo("Cache is disabled")
			case config.CacheRedis:
				fmt.Printf("redis://%s/%d\n", cfg.RedisAddr, cfg.RedisDB)
			default:
				dir, err := fileCacheDir(cfg)
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Println(dir)
			}
			return nil
		},
	}
}

// cacheConfig returns the cache section of the configuration. Cache commands
// do not need credentials, so the file is not validated and a missing file
// falls back to the defaults.
func (c *CLI) cacheConfig() (config.CacheConfig, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		c.Logger.Warn("could not load .env", "err", err)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return config.CacheConfig{}, err
		}
		c.Logger.Debug("config file not found, using defaults", "path", c.configPath)
		cfg = config.Default()
	}
	cfg = cfg.WithOverrides(config.Overrides{NoCache: c.noCache})
	return cfg.Cache, nil
}

// clearCache removes every page entry from the configured backend and
// returns how many were removed and where they lived.
func clearCache(ctx context.Context, cfg config.CacheConfig) (int, string, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return 0, "", nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return 0, "", fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		defer rc.Close()
		n, err := rc.ClearPrefix(ctx, redisNamespace+cache.PagePrefix)
		return n, cfg.RedisAddr, err
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return 0, "", fmt.Errorf("get cache dir: %w", err)
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return 0, "", fmt.Errorf("open cache dir %s: %w", dir, err)
		}
		n, err := fc.Clear()
		return n, dir, err
	}
}
