package config

import (
	"encoding/json"
	"os"
	"time"

	"taskvault/internal/flagx"
)

// JsonConfig is an intermediate DTO for reading JSON configuration files.
// Durations are strings in time.ParseDuration syntax ("15m", "168h").
type JsonConfig struct {
	EndpointAddr                 string `json:"endpoint_addr"`
	DatabaseDSN                  string `json:"database_dsn"`
	AccessSecret                 string `json:"access_secret"`
	RefreshSecret                string `json:"refresh_secret"`
	AccessTokenValidityDuration  string `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration string `json:"refresh_token_validity_duration"`
	FieldEncKey                  string `json:"field_enc_key"`
	Environment                  string `json:"environment"`
	ClientOrigin                 string `json:"client_origin"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. Missing file path means nothing to load; an
// unreadable or invalid file panics, since starting with half a config is
// worse than not starting.
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

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AccessSecret != "" {
		config.AccessSecret = c.AccessSecret
	}
	if c.RefreshSecret != "" {
		config.RefreshSecret = c.RefreshSecret
	}
	if c.AccessTokenValidityDuration != "" {
		d, err := time.ParseDuration(c.AccessTokenValidityDuration)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = d
	}
	if c.RefreshTokenValidityDuration != "" {
		d, err := time.ParseDuration(c.RefreshTokenValidityDuration)
		if err != nil {
			panic(err)
		}
		config.RefreshTokenValidityDuration = d
	}
	if c.FieldEncKey != "" {
		config.FieldEncKey = c.FieldEncKey
	}
	if c.Environment != "" {
		config.Environment = c.Environment
	}
	if c.ClientOrigin != "" {
		config.ClientOrigin = c.ClientOrigin
	}
}
