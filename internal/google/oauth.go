package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	// ErrNoCachedCredential is returned by TokenCache.Load when the cache
	// file does not exist.
	ErrNoCachedCredential = errors.New("no cached credential")

	// ErrNoClientSecret is returned when an interactive login is needed but
	// the OAuth client-secret file is missing.
	ErrNoClientSecret = errors.New("OAuth client secret file not found")
)

// StoredCredential is the on-disk form of a credential.
type StoredCredential struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenURI     string     `json:"token_uri,omitempty"`
	ClientID     string     `json:"client_id,omitempty"`
	ClientSecret string     `json:"client_secret,omitempty"`
	Scopes       []string   `json:"scopes,omitempty"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}

// OAuthToken converts the stored credential to an oauth2 token.
func (c *StoredCredential) OAuthToken() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.Token,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
	}
	if c.Expiry != nil {
		tok.Expiry = *c.Expiry
	}
	return tok
}

// OAuthConfig rebuilds the client configuration carried by the credential.
// It returns nil when the credential has no client id.
func (c *StoredCredential) OAuthConfig() *oauth2.Config {
	if c.ClientID == "" {
		return nil
	}
	tokenURL := c.TokenURI
	if tokenURL == "" {
		tokenURL = google.Endpoint.TokenURL
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.Endpoint.AuthURL,
			TokenURL: tokenURL,
		},
		Scopes: c.Scopes,
	}
}

// NewStoredCredential captures tok together with the client configuration
// needed to refresh it later.
func NewStoredCredential(tok *oauth2.Token, conf *oauth2.Config) *StoredCredential {
	c := &StoredCredential{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry.UTC()
		c.Expiry = &expiry
	}
	if conf != nil {
		c.TokenURI = conf.Endpoint.TokenURL
		c.ClientID = conf.ClientID
		c.ClientSecret = conf.ClientSecret
		c.Scopes = append([]string(nil), conf.Scopes...)
	}
	return c
}

// TokenCache reads and writes the credential cache file. Concurrent runs are
// not coordinated; the last writer wins.
type TokenCache struct {
	path string
}

// NewTokenCache returns a cache backed by path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the cache file location.
func (c *TokenCache) Path() string {
	return c.path
}

// Load reads the cached credential.
func (c *TokenCache) Load() (*StoredCredential, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoCachedCredential
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var cred StoredCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", c.path, err)
	}
	if cred.Token == "" && cred.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s holds no token", c.path)
	}
	return &cred, nil
}

// Save writes cred to the cache file with owner-only permissions.
func (c *TokenCache) Save(cred *StoredCredential) error {
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadClientConfig reads an OAuth client-secret file downloaded from the
// Google Cloud console.
func LoadClientConfig(path string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoClientSecret, path)
		}
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}

	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file %s: %w", path, err)
	}
	return conf, nil
}
