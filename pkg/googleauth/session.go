package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// Session is a user token source that persists refreshed tokens and can be
// forced to refresh after the API rejects the current access token.
type Session struct {
	mu        sync.Mutex
	cfg       *oauth2.Config
	tokenPath string
	ctx       context.Context
	src       oauth2.TokenSource
	last      *oauth2.Token
}

// NewSession loads the stored token for creds and wraps it.
func NewSession(ctx context.Context, creds Credentials) (*Session, error) {
	cfg, err := OAuthConfig(creds)
	if err != nil {
		return nil, err
	}
	tokenPath := creds.TokenPath
	if tokenPath == "" {
		tokenPath = DefaultTokenFile
	}
	tok, err := ReadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	return NewSessionFromToken(ctx, cfg, tok, tokenPath), nil
}

// NewSessionFromToken wraps an already loaded token. tokenPath may be empty to skip persistence.
func NewSessionFromToken(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, tokenPath string) *Session {
	return &Session{
		cfg:       cfg,
		tokenPath: tokenPath,
		ctx:       ctx,
		src:       cfg.TokenSource(ctx, tok),
		last:      tok,
	}
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		s.last = tok
		s.persist(tok)
	}
	return tok, nil
}

// Refresh discards the current access token and obtains a new one with the
// refresh token. It is safe to call concurrently with Token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.last.RefreshToken == "" {
		return fmt.Errorf("cannot refresh: no refresh token, run the auth command again")
	}

	stale := *s.last
	stale.AccessToken = ""
	src := s.cfg.TokenSource(ctx, &stale)
	tok, err := src.Token()
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	s.src = s.cfg.TokenSource(s.ctx, tok)
	s.last = tok
	s.persist(tok)
	return nil
}

// HTTPClient returns a client that authorizes every request with the session's current token.
func (s *Session) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, s)
}

func (s *Session) persist(tok *oauth2.Token) {
	if s.tokenPath == "" {
		return
	}
	// Persisting is best effort; the in-memory token stays valid either way.
	_ = SaveToken(s.tokenPath, tok)
}
