package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	defaults := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    func() *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-d", "postgres://u@db/duread", "-s", "postgres",
				"-u", "http://localhost:9999/v1/messages", "-m", "other-model", "-k", "1024",
				"-t", "10", "-r", "3", "-w", "8", "-p", "4",
				"-l", "127.0.0.1:8080", "-v", "debug",
			},
			expected: func() *Config {
				c := defaults()
				c.DSN = "postgres://u@db/duread"
				c.StorageDriver = "postgres"
				c.APIURL = "http://localhost:9999/v1/messages"
				c.Model = "other-model"
				c.MaxTokens = 1024
				c.RequestTimeout = 10 * time.Second
				c.MaxRetries = 3
				c.ViewportSize = 8
				c.PrefetchMargin = 4
				c.HTTPAddr = "127.0.0.1:8080"
				c.LogLevel = "debug"
				return c
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-x", "1", "-w", "3"},
			expected: func() *Config { c := defaults(); c.ViewportSize = 3; return c },
		},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := defaults()

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected(), config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
