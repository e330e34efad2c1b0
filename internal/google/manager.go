package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/teemow/duesync/internal/instrumentation"
	"github.com/teemow/duesync/internal/logging"
)

// Manager owns the Classroom credential for the lifetime of the process.
type Manager struct {
	cache           *TokenCache
	credentialsFile string
	scopes          []string
	authenticator   Authenticator
	metrics         *instrumentation.Metrics
	logger          *slog.Logger

	cred *StoredCredential
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithAuthenticator replaces the interactive login flow.
func WithAuthenticator(a Authenticator) ManagerOption {
	return func(m *Manager) {
		if a != nil {
			m.authenticator = a
		}
	}
}

// WithScopes overrides ClassroomScopes.
func WithScopes(scopes ...string) ManagerOption {
	return func(m *Manager) {
		m.scopes = scopes
	}
}

// WithMetrics records login and refresh results.
func WithMetrics(metrics *instrumentation.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a Manager caching credentials in tokenFile and reading
// the OAuth client from credentialsFile when a login is needed.
func NewManager(tokenFile, credentialsFile string, opts ...ManagerOption) *Manager {
	m := &Manager{
		cache:           NewTokenCache(tokenFile),
		credentialsFile: credentialsFile,
		scopes:          ClassroomScopes,
		authenticator:   NewLocalServerAuthenticator(),
		metrics:         &instrumentation.Metrics{},
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.WithService(m.logger, "google.oauth")
	return m
}

// Acquire returns a valid token. A valid cached token is returned as is; an
// expired one with a refresh token is refreshed; anything else triggers the
// interactive login. New and refreshed tokens are written to the cache.
func (m *Manager) Acquire(ctx context.Context) (*oauth2.Token, error) {
	cred, err := m.cache.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrNoCachedCredential):
		m.logger.Debug("no cached credential", "path", m.cache.Path())
	default:
		m.logger.Warn("ignoring unreadable cached credential", "path", m.cache.Path(), logging.Err(err))
		cred = nil
	}

	if cred != nil {
		tok := cred.OAuthToken()
		if tok.Valid() {
			m.logger.Debug("using cached credential", "access_token", logging.SanitizeToken(tok.AccessToken))
			m.cred = cred
			return tok, nil
		}
		if tok.RefreshToken != "" {
			return m.refresh(ctx, cred)
		}
	}

	return m.Login(ctx)
}

// Login runs the interactive flow unconditionally and caches the result.
func (m *Manager) Login(ctx context.Context) (*oauth2.Token, error) {
	conf, err := LoadClientConfig(m.credentialsFile, m.scopes...)
	if err != nil {
		return nil, err
	}

	m.logger.Info("starting interactive authorization")
	tok, err := m.authenticator.Authorize(ctx, conf)
	if err != nil {
		m.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("interactive authorization failed: %w", err)
	}
	m.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

	cred := NewStoredCredential(tok, conf)
	if err := m.cache.Save(cred); err != nil {
		return nil, err
	}
	m.cred = cred
	m.logger.Info("authorization complete", "path", m.cache.Path())
	return tok, nil
}

func (m *Manager) refresh(ctx context.Context, cred *StoredCredential) (*oauth2.Token, error) {
	conf, err := m.clientConfig(cred)
	if err != nil {
		return nil, err
	}

	tok, err := conf.TokenSource(ctx, cred.OAuthToken()).Token()
	if err != nil {
		m.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	m.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)

	refreshed := NewStoredCredential(tok, conf)
	if err := m.cache.Save(refreshed); err != nil {
		return nil, err
	}
	m.cred = refreshed
	m.logger.Debug("refreshed credential", "access_token", logging.SanitizeToken(tok.AccessToken))
	return tok, nil
}

// clientConfig prefers the client carried by the credential and falls back
// to the client-secret file.
func (m *Manager) clientConfig(cred *StoredCredential) (*oauth2.Config, error) {
	if cred != nil {
		if conf := cred.OAuthConfig(); conf != nil {
			if len(conf.Scopes) == 0 {
				conf.Scopes = m.scopes
			}
			return conf, nil
		}
	}
	return LoadClientConfig(m.credentialsFile, m.scopes...)
}

// TokenSource acquires a token and returns a source that refreshes it on
// demand and writes refreshed tokens back to the cache.
func (m *Manager) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := m.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	conf, err := m.clientConfig(m.cred)
	if err != nil {
		m.logger.Warn("token cannot be refreshed during this run", logging.Err(err))
		return oauth2.StaticTokenSource(tok), nil
	}

	persist := func(t *oauth2.Token) error {
		cred := NewStoredCredential(t, conf)
		if err := m.cache.Save(cred); err != nil {
			return err
		}
		m.cred = cred
		return nil
	}
	return NewPersistingTokenSource(oauth2.ReuseTokenSource(tok, conf.TokenSource(ctx, tok)), tok, persist, m.logger), nil
}

// HTTPClient returns an HTTP client authorized for the Classroom API.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func (m *Manager) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := m.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}
	return client, nil
}
