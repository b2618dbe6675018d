// Package config loads runtime configuration for the duread reader.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   sqlite database file or postgres connection URL
//	-s string   storage driver: sqlite (default) or postgres
//	-u string   translation API endpoint
//	-m string   translation model
//	-k int      max tokens per translation
//	-t int      translation timeout (seconds)
//	-r int      retries for transient translation errors
//	-w int      sentences shown per view in the REPL
//	-p int      sentences past the view that are translated ahead
//	-l string   serve the JSON API on this address instead of the REPL
//	-v string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "60s" or
// integer nanoseconds. Fields left out keep their default:
//
//	{
//	  "dsn": "data/duread.db",
//	  "storage_driver": "sqlite",
//	  "model": "claude-haiku-4-5-20251001",
//	  "request_timeout": "60s",
//	  "max_retries": 2,
//	  "retry_delay": "500ms",
//	  "viewport_size": 5,
//	  "prefetch_margin": 2,
//	  "http_addr": "127.0.0.1:8080",
//	  "log_level": "info"
//	}
//
// The API key is never part of the configuration; it is entered in the
// client and kept encrypted in the document store.
package config
