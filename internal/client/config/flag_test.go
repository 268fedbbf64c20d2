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
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://api:9090", "-g", "api:50051", "-d", "/tmp/cards", "-i", "10", "-v"},
			expected: &Config{ServerURL: "http://api:9090", HealthAddr: "api:50051", DownloadDir: "/tmp/cards",
				OnlineCheckInterval: 10 * time.Second, Debug: true}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-a", "http://x"},
			expected: &Config{ServerURL: "http://x"}},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
