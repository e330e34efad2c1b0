// Package config loads duesync settings from the environment and an optional
// dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Recognized keys. The Trello credentials use the plain names found in
// existing .env files.
const (
	KeyTrelloAPIKey          = "API_KEY"
	KeyTrelloAPISecret       = "API_SECRET"
	KeyTrelloToken           = "TOKEN"
	KeyTrelloBaseURL         = "TRELLO_BASE_URL"
	KeyTrelloTimeout         = "TRELLO_TIMEOUT"
	KeyGoogleCredentialsFile = "GOOGLE_CREDENTIALS_FILE"
	KeyGoogleTokenFile       = "GOOGLE_TOKEN_FILE"
)

// Defaults.
const (
	DefaultEnvFile         = ".env"
	DefaultTrelloBaseURL   = "https://api.trello.com/1"
	DefaultTrelloTimeout   = 30 * time.Second
	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"
)

// Config is built once at process start and passed to the components that
// need it.
type Config struct {
	Trello TrelloConfig
	Google GoogleConfig
}

// TrelloConfig holds the task-board service credentials.
type TrelloConfig struct {
	APIKey    string
	APISecret string
	Token     string
	BaseURL   string
	Timeout   time.Duration
}

// GoogleConfig holds the Classroom OAuth file locations.
type GoogleConfig struct {
	// CredentialsFile is the OAuth client-secret JSON downloaded from the
	// Google Cloud console. Only read when an interactive login is needed.
	CredentialsFile string

	// TokenFile caches the authorized-user credential between runs.
	TokenFile string
}

// Load reads configuration from envFile (when it exists) and the process
// environment. Environment variables take precedence over the file.
// An empty envFile means DefaultEnvFile.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyTrelloBaseURL, DefaultTrelloBaseURL)
	v.SetDefault(KeyTrelloTimeout, DefaultTrelloTimeout)
	v.SetDefault(KeyGoogleCredentialsFile, DefaultCredentialsFile)
	v.SetDefault(KeyGoogleTokenFile, DefaultTokenFile)
	v.AutomaticEnv()

	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat env file %s: %w", envFile, err)
	}

	return &Config{
		Trello: TrelloConfig{
			APIKey:    strings.TrimSpace(v.GetString(KeyTrelloAPIKey)),
			APISecret: strings.TrimSpace(v.GetString(KeyTrelloAPISecret)),
			Token:     strings.TrimSpace(v.GetString(KeyTrelloToken)),
			BaseURL:   strings.TrimRight(v.GetString(KeyTrelloBaseURL), "/"),
			Timeout:   v.GetDuration(KeyTrelloTimeout),
		},
		Google: GoogleConfig{
			CredentialsFile: v.GetString(KeyGoogleCredentialsFile),
			TokenFile:       v.GetString(KeyGoogleTokenFile),
		},
	}, nil
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Trello.APIKey == "" {
		missing = append(missing, KeyTrelloAPIKey)
	}
	if c.Trello.APISecret == "" {
		missing = append(missing, KeyTrelloAPISecret)
	}
	if c.Trello.Token == "" {
		missing = append(missing, KeyTrelloToken)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Trello.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyTrelloTimeout, c.Trello.Timeout)
	}
	if c.Google.TokenFile == "" {
		return fmt.Errorf("%s must not be empty", KeyGoogleTokenFile)
	}
	return nil
}
