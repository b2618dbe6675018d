package config

import (
	"time"

	"github.com/techurbanist/duread/internal/client/scheduler"
	"github.com/techurbanist/duread/internal/client/translator"
)

// Config holds runtime settings for the duread reader.
//
// Fields:
//   - DSN, StorageDriver: where documents and settings live ("sqlite" file
//     path or "postgres" URL).
//   - APIURL, Model, MaxTokens: the translation endpoint.
//   - RequestTimeout: bound on one translation attempt.
//   - MaxRetries, RetryDelay: retry policy for transient translation errors.
//   - ViewportSize, PrefetchMargin: how many sentences the REPL shows at once
//     and how many beyond the view count as visible.
//   - HTTPAddr: when set, serve the JSON API there instead of the REPL.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DSN            string
	StorageDriver  string
	APIURL         string
	Model          string
	MaxTokens      int
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	ViewportSize   int
	PrefetchMargin int
	HTTPAddr       string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DSN = "data/duread.db"
	c.StorageDriver = "sqlite"
	c.APIURL = translator.DefaultURL
	c.Model = translator.DefaultModel
	c.MaxTokens = translator.DefaultMaxTokens
	c.RequestTimeout = scheduler.DefaultTimeout
	c.MaxRetries = 0
	c.RetryDelay = scheduler.DefaultRetryBase
	c.ViewportSize = 5
	c.PrefetchMargin = 2
	c.HTTPAddr = ""
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.clamp()
	return cfg
}

// clamp pulls out-of-range counts back to usable values.
func (c *Config) clamp() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.PrefetchMargin < 0 {
		c.PrefetchMargin = 0
	}
	if c.ViewportSize < 1 {
		c.ViewportSize = 1
	}
	if c.MaxTokens < 1 {
		c.MaxTokens = translator.DefaultMaxTokens
	}
}
