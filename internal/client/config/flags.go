package config

import (
	"flag"
	"os"
	"time"

	"github.com/techurbanist/duread/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Flags it does
// not own are filtered out with flagx.FilterArgs first, so -c/-config can
// share os.Args with it. Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-d", "-s", "-u", "-m", "-k", "-t", "-r", "-w", "-p", "-l", "-v",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "database file (sqlite) or connection URL (postgres)")
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver: sqlite or postgres")
	fs.StringVar(&cfg.APIURL, "u", cfg.APIURL, "translation API endpoint")
	fs.StringVar(&cfg.Model, "m", cfg.Model, "translation model")
	fs.IntVar(&cfg.MaxTokens, "k", cfg.MaxTokens, "max tokens per translation")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "translation timeout (in seconds)")
	fs.IntVar(&cfg.MaxRetries, "r", cfg.MaxRetries, "retries for transient translation errors")
	fs.IntVar(&cfg.ViewportSize, "w", cfg.ViewportSize, "sentences shown per view")
	fs.IntVar(&cfg.PrefetchMargin, "p", cfg.PrefetchMargin, "sentences past the view translated ahead")
	fs.StringVar(&cfg.HTTPAddr, "l", cfg.HTTPAddr, "serve the JSON API on this address instead of the REPL")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
