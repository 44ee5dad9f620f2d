// Package config defines the immutable run configuration for sourcescout.
//
// A Config is decoded once at startup from a TOML file (the default
// config/config.toml) or a YAML file with the same schema, optionally
// adjusted by environment variables and command-line overrides, validated,
// and then passed by value into every component constructor. Nothing in the
// pipeline reads configuration from global state.
//
// Example config.toml:
//
//	[api]
//	key = "sk-..."
//	model_id = "gpt-4o-mini"
//	api_url = "https://api.openai.com/v1/chat/completions"
//	temperature = 0.2
//	parallel = 8
//	retry = 3
//	check_retry = 2
//	retry_delay = 5
//	time_out = 60
//
//	[download]
//	username = "alice"
//	base_dir = "/data/downloads"
//	max_version_count = 3
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sourcescout/pkg/errors"
	"github.com/matzehuels/sourcescout/pkg/httputil"
)

// DefaultPath is the config file location used when none is given.
const DefaultPath = "config/config.toml"

// EnvAPIKey overrides [APIConfig.Key] when set.
const EnvAPIKey = "SOURCESCOUT_API_KEY"

// Ordering policies for ranking pool entries.
const (
	OrderingLexical  = "lexical"
	OrderingSemantic = "semantic"
)

// Canonical-name extraction policies.
const (
	CanonicalVersion     = "version"
	CanonicalNameVersion = "name-version"
)

// Cache backends for fetched download pages.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete run configuration.
type Config struct {
	API      APIConfig      `toml:"api" yaml:"api"`
	Download DownloadConfig `toml:"download" yaml:"download"`
	Cache    CacheConfig    `toml:"cache" yaml:"cache"`
}

// APIConfig configures the completion endpoint and the shared network policy.
type APIConfig struct {
	Key         string  `toml:"key" yaml:"key"`
	ModelID     string  `toml:"model_id" yaml:"model_id"`
	URL         string  `toml:"api_url" yaml:"api_url"`
	Temperature float64 `toml:"temperature" yaml:"temperature"`
	Parallel    int     `toml:"parallel" yaml:"parallel"`       // permits per fan-out
	Retry       int     `toml:"retry" yaml:"retry"`             // attempts per request
	CheckRetry  int     `toml:"check_retry" yaml:"check_retry"` // attempts per liveness probe
	RetryDelay  int     `toml:"retry_delay" yaml:"retry_delay"` // seconds
	Timeout     int     `toml:"time_out" yaml:"time_out"`       // seconds
}

// DownloadConfig configures the input/output layout and ranking.
type DownloadConfig struct {
	Username           string   `toml:"username" yaml:"username"`
	BaseDir            string   `toml:"base_dir" yaml:"base_dir"`
	MaxVersionCount    int      `toml:"max_version_count" yaml:"max_version_count"`
	Ordering           string   `toml:"ordering" yaml:"ordering"`
	Canonical          string   `toml:"canonical" yaml:"canonical"`
	BlockedHosts       []string `toml:"blocked_hosts" yaml:"blocked_hosts"`
	RejectedExtensions []string `toml:"rejected_extensions" yaml:"rejected_extensions"`
	Checksums          bool     `toml:"checksums" yaml:"checksums"`
}

// CacheConfig configures the page-content cache.
type CacheConfig struct {
	Backend       string `toml:"backend" yaml:"backend"`
	Dir           string `toml:"dir" yaml:"dir"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
	TTLHours      int    `toml:"ttl_hours" yaml:"ttl_hours"`
}

// Default returns the baseline configuration. Credentials, model, endpoint,
// username and base directory have no sensible default and must be supplied.
func Default() Config {
	return Config{
		API: APIConfig{
			Temperature: 0.2,
			Parallel:    8,
			Retry:       3,
			CheckRetry:  2,
			RetryDelay:  5,
			Timeout:     60,
		},
		Download: DownloadConfig{
			MaxVersionCount: 3,
			Ordering:        OrderingLexical,
			Canonical:       CanonicalVersion,
		},
		Cache: CacheConfig{
			Backend:  CacheFile,
			TTLHours: 24,
		},
	}
}

// Load reads path and decodes it on top of [Default]. The decoder is chosen
// by extension: .yaml and .yml use YAML, everything else TOML. The API key is
// then overridden from [EnvAPIKey] when that variable is set.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml config %s", path)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %v", path, undecoded)
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.API.Key = key
	}
	return cfg, nil
}

// Overrides carries command-line values that take precedence over the file.
// Zero values leave the file value untouched.
type Overrides struct {
	BaseDir  string
	Parallel int
	NoCache  bool
}

// WithOverrides returns a copy of c with o applied.
func (c Config) WithOverrides(o Overrides) Config {
	if o.BaseDir != "" {
		c.Download.BaseDir = o.BaseDir
	}
	if o.Parallel > 0 {
		c.API.Parallel = o.Parallel
	}
	if o.NoCache {
		c.Cache.Backend = CacheNone
	}
	c.Download.BlockedHosts = append([]string(nil), c.Download.BlockedHosts...)
	c.Download.RejectedExtensions = append([]string(nil), c.Download.RejectedExtensions...)
	return c
}

// Validate reports every problem that would make a run impossible, joined
// into one INVALID_CONFIG error.
func (c Config) Validate() error {
	var problems []string
	if c.API.ModelID == "" {
		problems = append(problems, "api.model_id is required")
	}
	if err := errors.ValidateURL(c.API.URL); err != nil {
		problems = append(problems, fmt.Sprintf("api.api_url: %s", errors.UserMessage(err)))
	}
	if c.API.Parallel <= 0 {
		problems = append(problems, "api.parallel must be positive")
	}
	if c.API.Retry <= 0 {
		problems = append(problems, "api.retry must be positive")
	}
	if c.API.CheckRetry <= 0 {
		problems = append(problems, "api.check_retry must be positive")
	}
	if c.API.RetryDelay < 0 {
		problems = append(problems, "api.retry_delay cannot be negative")
	}
	if c.API.Timeout <= 0 {
		problems = append(problems, "api.time_out must be positive")
	}
	if c.Download.Username == "" {
		problems = append(problems, "download.username is required")
	}
	if c.Download.BaseDir == "" {
		problems = append(problems, "download.base_dir is required (or pass --base-dir)")
	}
	if c.Download.MaxVersionCount <= 0 {
		problems = append(problems, "download.max_version_count must be positive")
	}
	switch c.Download.Ordering {
	case OrderingLexical, OrderingSemantic:
	default:
		problems = append(problems, fmt.Sprintf("download.ordering %q is not one of lexical, semantic", c.Download.Ordering))
	}
	switch c.Download.Canonical {
	case CanonicalVersion, CanonicalNameVersion:
	default:
		problems = append(problems, fmt.Sprintf("download.canonical %q is not one of version, name-version", c.Download.Canonical))
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			problems = append(problems, "cache.redis_addr is required for the redis backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.backend %q is not one of file, redis, none", c.Cache.Backend))
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// RetryPolicy returns the policy applied to every outbound request.
func (c APIConfig) RetryPolicy() httputil.RetryPolicy {
	return httputil.RetryPolicy{
		MaxAttempts: c.Retry,
		Delay:       time.Duration(c.RetryDelay) * time.Second,
		Timeout:     time.Duration(c.Timeout) * time.Second,
	}
}

// CacheTTL returns the page cache time-to-live. Zero means no expiry.
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}
