package config

import "time"

// Config holds runtime settings for the Entrust terminal client.
//
// Fields:
//   - ServerURL: base URL of the JSON API.
//   - HealthAddr: host:port of the server's gRPC health endpoint.
//   - DownloadDir: where card artifacts are written.
//   - OnlineCheckInterval: how often the client checks server reachability.
//   - Debug: verbose console logging.
type Config struct {
	ServerURL           string
	HealthAddr          string
	DownloadDir         string
	OnlineCheckInterval time.Duration
	Debug               bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.DownloadDir = "."
	c.OnlineCheckInterval = 3 * time.Second
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
