package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/entrust/internal/flagx"
	"github.com/dmitrijs2005/entrust/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL           string          `json:"server_url"`
	HealthAddr          string          `json:"health_addr"`
	DownloadDir         string          `json:"download_dir"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Absent keys leave the current values alone. Panics on read or unmarshal
// errors.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HealthAddr != "" {
		cfg.HealthAddr = jc.HealthAddr
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
