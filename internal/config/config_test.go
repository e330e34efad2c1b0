package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		KeyTrelloAPIKey, KeyTrelloAPISecret, KeyTrelloToken,
		KeyTrelloBaseURL, KeyTrelloTimeout,
		KeyGoogleCredentialsFile, KeyGoogleTokenFile,
	} {
		if old, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, old) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTrelloBaseURL, cfg.Trello.BaseURL)
	assert.Equal(t, DefaultTrelloTimeout, cfg.Trello.Timeout)
	assert.Equal(t, DefaultCredentialsFile, cfg.Google.CredentialsFile)
	assert.Equal(t, DefaultTokenFile, cfg.Google.TokenFile)
	assert.Empty(t, cfg.Trello.APIKey)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "API_KEY=file-key\nAPI_SECRET=file-secret\nTOKEN=file-token\nTRELLO_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Trello.APIKey)
	assert.Equal(t, "file-secret", cfg.Trello.APISecret)
	assert.Equal(t, "file-token", cfg.Trello.Token)
	assert.Equal(t, 5*time.Second, cfg.Trello.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_KEY=file-key\n"), 0600))
	t.Setenv(KeyTrelloAPIKey, "env-key")
	t.Setenv(KeyTrelloBaseURL, "http://localhost:9999/1/")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Trello.APIKey)
	assert.Equal(t, "http://localhost:9999/1", cfg.Trello.BaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Trello: TrelloConfig{APIKey: "k", APISecret: "s", Token: "t", Timeout: time.Second},
			Google: GoogleConfig{TokenFile: "token.json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing key", func(c *Config) { c.Trello.APIKey = "" }, "API_KEY"},
		{"missing all credentials", func(c *Config) {
			c.Trello = TrelloConfig{Timeout: time.Second}
		}, "API_KEY, API_SECRET, TOKEN"},
		{"zero timeout", func(c *Config) { c.Trello.Timeout = 0 }, "TRELLO_TIMEOUT"},
		{"no token file", func(c *Config) { c.Google.TokenFile = "" }, "GOOGLE_TOKEN_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
