package config

import (
	"os"
	"time"
)

// parseEnv overlays configuration from environment variables. Secrets are
// expected to arrive this way in deployed environments.
//
// Recognized variables:
//
//	ADDRESS            HTTP bind address
//	DATABASE_DSN       PostgreSQL DSN
//	JWT_SECRET         access-token signing secret
//	REFRESH_SECRET     refresh-token signing secret
//	ACCESS_TOKEN_TTL   access validity (time.ParseDuration syntax)
//	REFRESH_TOKEN_TTL  refresh validity
//	FIELD_ENC_KEY      64-hex-character field encryption key
//	APP_ENV            "development" or "production"
//	CLIENT_ORIGIN      allowed CORS origin
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.AccessSecret = v
	}
	if v := os.Getenv("REFRESH_SECRET"); v != "" {
		config.RefreshSecret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v := os.Getenv("FIELD_ENC_KEY"); v != "" {
		config.FieldEncKey = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		config.ClientOrigin = v
	}
}
