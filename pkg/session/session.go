package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/client"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var (
	ErrNotAuthenticated = client.ErrNotAuthenticated
	ErrLoginInProgress  = errors.New("login already in progress")
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AuthAPI is the part of the API the session talks to.
type AuthAPI interface {
	Login(ctx context.Context, email string, password string) (user.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// expiryLeeway refreshes the access token slightly before it expires.
const expiryLeeway = 10 * time.Second

const refreshTimeout = 30 * time.Second

// Session is the client's authentication state. It is an oauth2.TokenSource handing out a valid
// access token, refreshing it when it has expired.
type Session struct {
	api   AuthAPI
	store TokenStore
	clock utils.Clock

	// refreshing lets one Token call at a time talk to the API; mu is never held meanwhile.
	refreshing sync.Mutex

	mu     sync.Mutex
	state  State
	tokens StoredTokens
}

func New(api AuthAPI, store TokenStore) *Session {
	return &Session{api: api, store: store, clock: &utils.SystemClock{}}
}

// Init restores the tokens persisted by a previous run.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, ok, err := s.store.Load()
	if err != nil {
		s.reset()
		return err
	}
	if !ok {
		s.reset()
		return nil
	}
	s.tokens = tokens
	s.state = Authenticated
	log.Debugf("Session restored for %s", tokens.Email)
	return nil
}

// Login exchanges the credentials for a token pair. On failure the session ends up anonymous
// with nothing persisted.
func (s *Session) Login(ctx context.Context, email string, password string) error {
	s.mu.Lock()
	if s.state == Authenticating {
		s.mu.Unlock()
		return ErrLoginInProgress
	}
	s.state = Authenticating
	s.tokens = StoredTokens{}
	s.mu.Unlock()

	pair, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.discard()
		return err
	}
	tokens := StoredTokens{Access: pair.Access, Refresh: pair.Refresh, Email: email}
	if !tokens.complete() {
		s.discard()
		return fmt.Errorf("login response without token pair")
	}
	if err := s.store.Save(tokens); err != nil {
		s.discard()
		return err
	}
	s.tokens = tokens
	s.state = Authenticated
	log.Debugf("Logged in as %s", email)
	return nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return s.store.Clear()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Email is the identity the session was opened with.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Email
}

// Token implements oauth2.TokenSource. A failed refresh logs the session out.
func (s *Session) Token() (*oauth2.Token, error) {
	s.refreshing.Lock()
	defer s.refreshing.Unlock()

	s.mu.Lock()
	if s.state != Authenticated {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	tokens := s.tokens
	s.mu.Unlock()

	expiry, known := accessExpiry(tokens.Access)
	if known && !s.clock.Now().Add(expiryLeeway).Before(expiry) {
		refreshed, err := s.refresh(tokens)
		if err != nil {
			return nil, err
		}
		tokens = refreshed
		expiry, _ = accessExpiry(tokens.Access)
	}
	return &oauth2.Token{AccessToken: tokens.Access, TokenType: "Bearer", Expiry: expiry}, nil
}

// refresh exchanges the refresh token of current without holding mu. The result is dropped when
// the session was logged out or replaced by another login in the meantime.
func (s *Session) refresh(current StoredTokens) (StoredTokens, error) {
	log.Debug("Access token expired, refreshing")
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	access, err := s.api.Refresh(ctx, current.Refresh)
	if err == nil && access == "" {
		err = errors.New("empty access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated || s.tokens.Refresh != current.Refresh {
		log.Debug("Session changed during token refresh, dropping result")
		if s.state == Authenticated {
			return s.tokens, nil
		}
		return StoredTokens{}, ErrNotAuthenticated
	}
	if err != nil {
		log.Warnf("Token refresh failed, logging out: %v", err)
		s.discard()
		return StoredTokens{}, fmt.Errorf("%w: session expired", ErrNotAuthenticated)
	}
	s.tokens.Access = access
	if err := s.store.Save(s.tokens); err != nil {
		log.Errorf("failed to persist refreshed token: %v", err)
	}
	return s.tokens, nil
}

// discard drops the in-memory and persisted tokens. Callers hold mu.
func (s *Session) discard() {
	s.reset()
	if err := s.store.Clear(); err != nil {
		log.Errorf("failed to clear stored tokens: %v", err)
	}
}

func (s *Session) reset() {
	s.tokens = StoredTokens{}
	s.state = Anonymous
}

// accessExpiry reads the exp claim without verifying the signature; the server does that.
func accessExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
