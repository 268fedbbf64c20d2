package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/entrust/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs so the JSON layer's -c does not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-i", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the Entrust API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "directory for downloaded cards")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
