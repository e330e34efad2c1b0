package google

import (
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/duesync/internal/logging"
)

// PersistingTokenSource wraps a refreshing token source and hands every new
// access token to persist, so tokens refreshed mid-run survive the process.
type PersistingTokenSource struct {
	mu      sync.Mutex
	base    oauth2.TokenSource
	last    string
	persist func(*oauth2.Token) error
	logger  *slog.Logger
}

// NewPersistingTokenSource returns a token source seeded with current.
// A nil logger falls back to slog.Default().
func NewPersistingTokenSource(base oauth2.TokenSource, current *oauth2.Token, persist func(*oauth2.Token) error, logger *slog.Logger) *PersistingTokenSource {
	if logger == nil {
		logger = slog.Default()
	}
	last := ""
	if current != nil {
		last = current.AccessToken
	}
	return &PersistingTokenSource{
		base:    base,
		last:    last,
		persist: persist,
		logger:  logger,
	}
}

// Token implements oauth2.TokenSource. A failure to persist is logged and
// does not fail the request that triggered the refresh.
func (s *PersistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if s.persist != nil {
			if err := s.persist(tok); err != nil {
				s.logger.Warn("failed to persist refreshed token", logging.Err(err))
			}
		}
	}
	return tok, nil
}
