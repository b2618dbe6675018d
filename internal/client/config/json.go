package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/techurbanist/duread/internal/flagx"
	"github.com/techurbanist/duread/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration, so "60s" and integer nanoseconds both work.
type JsonConfig struct {
	DSN            string         `json:"dsn"`
	StorageDriver  string         `json:"storage_driver"`
	APIURL         string         `json:"api_url"`
	Model          string         `json:"model"`
	MaxTokens      int            `json:"max_tokens"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	MaxRetries     *int           `json:"max_retries"`
	RetryDelay     timex.Duration `json:"retry_delay"`
	ViewportSize   int            `json:"viewport_size"`
	PrefetchMargin *int           `json:"prefetch_margin"`
	HTTPAddr       string         `json:"http_addr"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with the fields present in the JSON file named
// by -c or -config. Absent fields keep their current value; read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DSN, jc.DSN)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.Model, jc.Model)
	setString(&cfg.HTTPAddr, jc.HTTPAddr)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.MaxTokens > 0 {
		cfg.MaxTokens = jc.MaxTokens
	}
	if jc.ViewportSize > 0 {
		cfg.ViewportSize = jc.ViewportSize
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.PrefetchMargin != nil {
		cfg.PrefetchMargin = *jc.PrefetchMargin
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.RetryDelay.Duration > 0 {
		cfg.RetryDelay = time.Duration(jc.RetryDelay.Duration)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
