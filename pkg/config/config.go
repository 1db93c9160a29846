package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
	"twdl/app/apperr"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvClientID     = "TWDL_CLIENT_ID"
	EnvClientSecret = "TWDL_CLIENT_SECRET"
)

type Config struct {
	Log struct {
		Level    string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Telegram struct {
			Token  string `yaml:"token"`
			ChatID string `yaml:"chat_id"`
		} `yaml:"telegram"`
	} `yaml:"log"`

	Sentry struct {
		DSN              string  `yaml:"dsn"`
		Environment      string  `yaml:"environment"`
		TracesSampleRate float64 `yaml:"traces_sample_rate"`
	} `yaml:"sentry"`

	Twitch struct {
		AuthURL           string        `yaml:"auth_url" validate:"required,url"`
		HelixURL          string        `yaml:"helix_url" validate:"required,url"`
		GQLURL            string        `yaml:"gql_url" validate:"required,url"`
		GQLClientID       string        `yaml:"gql_client_id" validate:"required"`
		RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gt=0"`
		Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"twitch"`

	Download struct {
		Workers int           `yaml:"workers" validate:"min=1,max=32"`
		Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"download"`
}

// Credentials is the content of the JSON credentials file.
type Credentials struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// Load reads the YAML config at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var result Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %w", apperr.ErrConfig, err)
		}

		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML config: %w", apperr.ErrConfig, err)
		}
	}

	applyDefaults(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config: %w", apperr.ErrConfig, err)
	}

	return &result, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Sentry.TracesSampleRate == 0 {
		cfg.Sentry.TracesSampleRate = 1.0
	}
	if cfg.Sentry.Environment == "" {
		cfg.Sentry.Environment = "production"
	}

	if cfg.Twitch.AuthURL == "" {
		cfg.Twitch.AuthURL = "https://id.twitch.tv/oauth2/token"
	}
	if cfg.Twitch.HelixURL == "" {
		cfg.Twitch.HelixURL = "https://api.twitch.tv/helix"
	}
	if cfg.Twitch.GQLURL == "" {
		cfg.Twitch.GQLURL = "https://gql.twitch.tv/gql"
	}
	if cfg.Twitch.GQLClientID == "" {
		cfg.Twitch.GQLClientID = "kimne78kx3ncx6brgo4mv6wki5h1ko"
	}
	if cfg.Twitch.RequestsPerSecond == 0 {
		cfg.Twitch.RequestsPerSecond = 10
	}
	if cfg.Twitch.Timeout == 0 {
		cfg.Twitch.Timeout = 30 * time.Second
	}

	if cfg.Download.Workers == 0 {
		cfg.Download.Workers = 4
	}
	if cfg.Download.Timeout == 0 {
		cfg.Download.Timeout = 5 * time.Minute
	}
}

// LoadCredentials parses the credentials file at path.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read credentials file: %w", apperr.ErrConfig, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: credentials file has invalid formatting: %w", apperr.ErrConfig, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials file: %w", apperr.ErrConfig, err)
	}

	return &creds, nil
}

// CredentialsFromEnv returns credentials from TWDL_CLIENT_ID and TWDL_CLIENT_SECRET,
// or false when either is unset.
func CredentialsFromEnv() (*Credentials, bool) {
	id, secret := os.Getenv(EnvClientID), os.Getenv(EnvClientSecret)
	if id == "" || secret == "" {
		return nil, false
	}

	return &Credentials{ClientID: id, ClientSecret: secret}, true
}

// ResolveCredentials loads the credentials file when a path is given and falls back to the
// environment otherwise. It returns nil without error when neither source is available.
func ResolveCredentials(path string) (*Credentials, error) {
	if path != "" {
		return LoadCredentials(path)
	}

	if creds, ok := CredentialsFromEnv(); ok {
		return creds, nil
	}

	return nil, nil
}

