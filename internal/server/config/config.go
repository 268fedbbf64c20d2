// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the Entrust server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the JSON API.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint.
//   - DatabaseDSN: postgres://..., sqlite://path or memory://.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: card publishing storage.
//   - GeminiModel / GeminiAPIKey: devotional assistant. An empty key is allowed.
//   - AdminID / AdminPassword: account created on startup when absent.
type Config struct {
	EndpointAddrHTTP             string        `envconfig:"HTTP_ADDR"`
	EndpointAddrGRPC             string        `envconfig:"GRPC_ADDR"`
	DatabaseDSN                  string        `envconfig:"DATABASE_DSN"`
	SecretKey                    string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `envconfig:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `envconfig:"REFRESH_TOKEN_TTL"`
	S3RootUser                   string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword               string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket                     string        `envconfig:"S3_BUCKET"`
	S3Region                     string        `envconfig:"S3_REGION"`
	S3BaseEndpoint               string        `envconfig:"S3_BASE_ENDPOINT"`
	GeminiModel                  string        `envconfig:"GEMINI_MODEL"`
	GeminiAPIKey                 string        `envconfig:"GEMINI_API_KEY"`
	AdminID                      string        `envconfig:"ADMIN_ID"`
	AdminPassword                string        `envconfig:"ADMIN_PASSWORD"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "sqlite://entrust.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "cards"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.GeminiModel = "gemini-1.5-flash"
	c.AdminID = "COT-1000"
	c.AdminPassword = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env) and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	parseFlags(cfg)
	return cfg
}
