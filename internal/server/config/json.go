package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30m" and integer nanoseconds.
//
// Only keys present in the file override the current values.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	Storage                      *string         `json:"storage"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	ActiveWindow                 *timex.Duration `json:"active_window"`
	LockTimeout                  *timex.Duration `json:"lock_timeout"`
	GenerationTimeout            *timex.Duration `json:"generation_timeout"`
	MaxPageSize                  *int            `json:"max_page_size"`
	OpenAIAPIKey                 *string         `json:"openai_api_key"`
	OpenAIModel                  *string         `json:"openai_model"`
	OpenAIMaxTokens              *int            `json:"openai_max_tokens"`
	OpenAITemperature            *float64        `json:"openai_temperature"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	LogFormat                    *string         `json:"log_format"`
	AdminEmails                  []string        `json:"admin_emails"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The path comes from -c/-config or GOPHCHAT_CONFIG; if none
// is set nothing is loaded. If the file cannot be read or contains invalid
// JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.ActiveWindow, c.ActiveWindow)
	setDuration(&config.LockTimeout, c.LockTimeout)
	setDuration(&config.GenerationTimeout, c.GenerationTimeout)
	if c.MaxPageSize != nil {
		config.MaxPageSize = *c.MaxPageSize
	}
	setString(&config.OpenAIAPIKey, c.OpenAIAPIKey)
	setString(&config.OpenAIModel, c.OpenAIModel)
	if c.OpenAIMaxTokens != nil {
		config.OpenAIMaxTokens = *c.OpenAIMaxTokens
	}
	if c.OpenAITemperature != nil {
		config.OpenAITemperature = *c.OpenAITemperature
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)
	if c.AdminEmails != nil {
		config.AdminEmails = c.AdminEmails
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
