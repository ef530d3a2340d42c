package services

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/storeapi"
)

var (
	ErrNotAuthenticated    = errors.New("no authenticated user to update")
	ErrEmailTakenOrInvalid = errors.New("email already registered or invalid data")
)

// AuthAPI is the slice of the store API the session manager needs.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error)
	Profile(ctx context.Context, accessToken string) (domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	CreateUser(ctx context.Context, reg domain.Registration) (domain.User, error)
}

// TokenStore persists the two bearer tokens across restarts.
type TokenStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// ProfileUpdate is a partial, local-only profile change. Empty fields are
// left untouched.
type ProfileUpdate struct {
	Name   string
	Email  string
	Avatar string
}

// SessionService owns the single authenticated-session truth for the
// application lifetime. Constructed once at startup; mutated only through
// Initialize, Login, Register, Logout, and UpdateProfile.
type SessionService struct {
	API    AuthAPI
	Tokens TokenStore

	mu     sync.Mutex
	user   *domain.User
	access string
	ready  bool
}

func NewSessionService(api AuthAPI, tokens TokenStore) *SessionService {
	return &SessionService{API: api, Tokens: tokens}
}

// Initialize restores a session from persisted tokens: a stored access
// token is tried first, then the refresh token. Any failure clears both
// tokens and leaves the session cleanly unauthenticated; errors are never
// surfaced since this is a recovery path. Always ends in the Ready state.
func (s *SessionService) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.ready = true }()

	access, err := s.Tokens.Get(repos.KeyAccessToken)
	if err == nil && access != "" {
		u, err := s.API.Profile(ctx, access)
		if err != nil {
			s.clearLocked()
			return
		}
		s.access = access
		s.user = &u
		return
	}

	refresh, err := s.Tokens.Get(repos.KeyRefreshToken)
	if err != nil || refresh == "" {
		return
	}
	pair, err := s.API.Refresh(ctx, refresh)
	if err != nil {
		s.clearLocked()
		return
	}
	_ = s.Tokens.Set(repos.KeyAccessToken, pair.AccessToken)
	if pair.RefreshToken != "" {
		_ = s.Tokens.Set(repos.KeyRefreshToken, pair.RefreshToken)
	}
	u, err := s.API.Profile(ctx, pair.AccessToken)
	if err != nil {
		s.clearLocked()
		return
	}
	s.access = pair.AccessToken
	s.user = &u
}

// Login exchanges credentials for a token pair, persists it (refresh token
// only when the API returns one), and fetches the profile. Errors propagate
// verbatim for the caller to render; no retry.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	pair, err := s.API.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Tokens.Set(repos.KeyAccessToken, pair.AccessToken); err != nil {
		return nil, err
	}
	if pair.RefreshToken != "" {
		if err := s.Tokens.Set(repos.KeyRefreshToken, pair.RefreshToken); err != nil {
			return nil, err
		}
	}
	s.access = pair.AccessToken

	u, err := s.API.Profile(ctx, pair.AccessToken)
	if err != nil {
		return nil, err
	}
	s.user = &u
	return &u, nil
}

// Register creates the user remotely (the created record is discarded) and
// then logs in with the same credentials. A rejected registration surfaces
// the fixed duplicate-email/invalid-data message rather than the raw HTTP
// error text.
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if _, err := s.API.CreateUser(ctx, reg); err != nil {
		if storeapi.IsValidation(err) {
			return nil, ErrEmailTakenOrInvalid
		}
		return nil, err
	}
	return s.Login(ctx, domain.Credentials{Email: reg.Email, Password: reg.Password})
}

// Logout clears both persisted tokens and resets the session. No network.
func (s *SessionService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// UpdateProfile merges a partial update into the current user record.
// Local-only: the change is not synced to the store API (the remote update
// endpoint is not part of the documented contract).
func (s *SessionService) UpdateProfile(upd ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	u := *s.user
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if upd.Avatar != "" {
		u.Avatar = upd.Avatar
	}
	s.user = &u
	return &u, nil
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Ready reports whether Initialize has completed. User-triggered operations
// are gated on this.
func (s *SessionService) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Token returns the current access token, or "".
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *SessionService) clearLocked() {
	_ = s.Tokens.Delete(repos.KeyAccessToken)
	_ = s.Tokens.Delete(repos.KeyRefreshToken)
	s.user = nil
	s.access = ""
}
