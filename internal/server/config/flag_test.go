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
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-l", ":8081", "-a", "127.0.0.1:9090", "-d", "memory://", "-s", "secret",
			"-t", "1", "-r", "3", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-m", "gemini-2.0-flash", "-i", "COT-4242",
		}, expected: &Config{
			EndpointAddrHTTP:             ":8081",
			EndpointAddrGRPC:             "127.0.0.1:9090",
			DatabaseDSN:                  "memory://",
			SecretKey:                    "secret",
			AccessTokenValidityDuration:  1 * time.Minute,
			RefreshTokenValidityDuration: 3 * time.Minute,
			S3RootUser:                   "user",
			S3RootPassword:               "password",
			S3Bucket:                     "bucket",
			S3Region:                     "us-west-1",
			S3BaseEndpoint:               "http://endpoint",
			GeminiModel:                  "gemini-2.0-flash",
			AdminID:                      "COT-4242",
		}},
		{name: "bad duration", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
