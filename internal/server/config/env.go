package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables read for them,
// in priority order. Unprefixed names (DATABASE_URL, OPENAI_API_KEY, ...)
// are accepted as fallbacks.
var envBindings = map[string][]string{
	"endpoint_addr_grpc":              {"GOPHCHAT_ENDPOINT_ADDR_GRPC"},
	"endpoint_addr_http":              {"GOPHCHAT_ENDPOINT_ADDR_HTTP", "PORT_HTTP"},
	"storage":                         {"GOPHCHAT_STORAGE"},
	"database_dsn":                    {"GOPHCHAT_DATABASE_DSN", "DATABASE_URL"},
	"secret_key":                      {"GOPHCHAT_SECRET_KEY", "JWT_ACCESS_SECRET"},
	"access_token_validity_duration":  {"GOPHCHAT_ACCESS_TOKEN_VALIDITY_DURATION", "JWT_ACCESS_EXPIRES_IN"},
	"refresh_token_validity_duration": {"GOPHCHAT_REFRESH_TOKEN_VALIDITY_DURATION", "JWT_REFRESH_EXPIRES_IN"},
	"active_window":                   {"GOPHCHAT_ACTIVE_WINDOW"},
	"lock_timeout":                    {"GOPHCHAT_LOCK_TIMEOUT"},
	"generation_timeout":              {"GOPHCHAT_GENERATION_TIMEOUT"},
	"max_page_size":                   {"GOPHCHAT_MAX_PAGE_SIZE"},
	"openai_api_key":                  {"GOPHCHAT_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"openai_model":                    {"GOPHCHAT_OPENAI_MODEL"},
	"openai_max_tokens":               {"GOPHCHAT_OPENAI_MAX_TOKENS"},
	"openai_temperature":              {"GOPHCHAT_OPENAI_TEMPERATURE"},
	"s3_root_user":                    {"GOPHCHAT_S3_ROOT_USER"},
	"s3_root_password":                {"GOPHCHAT_S3_ROOT_PASSWORD"},
	"s3_bucket":                       {"GOPHCHAT_S3_BUCKET"},
	"s3_region":                       {"GOPHCHAT_S3_REGION"},
	"s3_base_endpoint":                {"GOPHCHAT_S3_BASE_ENDPOINT"},
	"log_format":                      {"GOPHCHAT_LOG_FORMAT"},
	"admin_emails":                    {"GOPHCHAT_ADMIN_EMAILS"},
}

// parseEnv overlays values found in the environment. Unset and empty
// variables leave the current value untouched. Durations use
// time.ParseDuration syntax ("15m").
func parseEnv(config *Config) {
	v := viper.New()
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("endpoint_addr_grpc", &config.EndpointAddrGRPC)
	str("endpoint_addr_http", &config.EndpointAddrHTTP)
	str("storage", &config.Storage)
	str("database_dsn", &config.DatabaseDSN)
	str("secret_key", &config.SecretKey)
	str("openai_api_key", &config.OpenAIAPIKey)
	str("openai_model", &config.OpenAIModel)
	str("s3_root_user", &config.S3RootUser)
	str("s3_root_password", &config.S3RootPassword)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)
	str("log_format", &config.LogFormat)

	if v.IsSet("access_token_validity_duration") {
		config.AccessTokenValidityDuration = v.GetDuration("access_token_validity_duration")
	}
	if v.IsSet("refresh_token_validity_duration") {
		config.RefreshTokenValidityDuration = v.GetDuration("refresh_token_validity_duration")
	}
	if v.IsSet("active_window") {
		config.ActiveWindow = v.GetDuration("active_window")
	}
	if v.IsSet("lock_timeout") {
		config.LockTimeout = v.GetDuration("lock_timeout")
	}
	if v.IsSet("generation_timeout") {
		config.GenerationTimeout = v.GetDuration("generation_timeout")
	}
	if v.IsSet("max_page_size") {
		config.MaxPageSize = v.GetInt("max_page_size")
	}
	if v.IsSet("openai_max_tokens") {
		config.OpenAIMaxTokens = v.GetInt("openai_max_tokens")
	}
	if v.IsSet("openai_temperature") {
		config.OpenAITemperature = v.GetFloat64("openai_temperature")
	}
	if v.IsSet("admin_emails") {
		config.AdminEmails = splitList(v.GetString("admin_emails"))
	}
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
