package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/entrust/internal/flagx"
	"github.com/dmitrijs2005/entrust/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "15m" and integer nanoseconds. Absent keys leave the
// corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	GeminiModel                  string          `json:"gemini_model"`
	GeminiAPIKey                 string          `json:"gemini_api_key"`
	AdminID                      string          `json:"admin_id"`
	AdminPassword                string          `json:"admin_password"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.GeminiModel, c.GeminiModel)
	setString(&config.GeminiAPIKey, c.GeminiAPIKey)
	setString(&config.AdminID, c.AdminID)
	setString(&config.AdminPassword, c.AdminPassword)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
