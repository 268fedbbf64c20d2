// Package config loads runtime configuration for the Entrust terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the JSON API
//	-g string   host:port of the gRPC health endpoint
//	-d string   download directory for card artifacts
//	-i int      online status check interval (seconds)
//	-v          verbose logging
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "health_addr": "127.0.0.1:50051",
//	  "download_dir": "cards",
//	  "online_check_interval": "3s"
//	}
package config
