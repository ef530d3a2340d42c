package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/storeapi"
)

// fakeAuthAPI counts calls so tests can assert which paths were taken.
type fakeAuthAPI struct {
	loginFn   func(domain.Credentials) (domain.TokenPair, error)
	profileFn func(token string) (domain.User, error)
	refreshFn func(token string) (domain.TokenPair, error)
	createFn  func(domain.Registration) (domain.User, error)

	loginCalls, profileCalls, refreshCalls, createCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, c domain.Credentials) (domain.TokenPair, error) {
	f.loginCalls++
	return f.loginFn(c)
}
func (f *fakeAuthAPI) Profile(_ context.Context, tok string) (domain.User, error) {
	f.profileCalls++
	return f.profileFn(tok)
}
func (f *fakeAuthAPI) Refresh(_ context.Context, tok string) (domain.TokenPair, error) {
	f.refreshCalls++
	return f.refreshFn(tok)
}
func (f *fakeAuthAPI) CreateUser(_ context.Context, r domain.Registration) (domain.User, error) {
	f.createCalls++
	return f.createFn(r)
}

func tokenStore(t *testing.T) *repos.TokenRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return repos.NewTokenRepo(db)
}

var alice = domain.User{ID: 7, Email: "alice@example.com", Name: "Alice", Role: "customer"}

func acceptingAPI(validAccess string) *fakeAuthAPI {
	return &fakeAuthAPI{
		profileFn: func(tok string) (domain.User, error) {
			if tok != validAccess {
				return domain.User{}, &storeapi.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
			}
			return alice, nil
		},
		refreshFn: func(string) (domain.TokenPair, error) {
			return domain.TokenPair{}, &storeapi.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
		},
	}
}

func TestSessionLoginPersistsTokensAndUser(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")
	api.loginFn = func(c domain.Credentials) (domain.TokenPair, error) {
		if c.Email != alice.Email {
			return domain.TokenPair{}, &storeapi.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
		}
		return domain.TokenPair{AccessToken: "A1", RefreshToken: "R1"}, nil
	}

	s := services.NewSessionService(api, store)
	u, err := s.Login(context.Background(), domain.Credentials{Email: alice.Email, Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != alice.ID || !s.IsAuthenticated() {
		t.Fatalf("expected authenticated session for %+v", u)
	}
	if got, _ := store.Get(repos.KeyAccessToken); got != "A1" {
		t.Fatalf("access token not persisted: %q", got)
	}
	if got, _ := store.Get(repos.KeyRefreshToken); got != "R1" {
		t.Fatalf("refresh token not persisted: %q", got)
	}
}

func TestSessionLoginWithoutRefreshToken(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")
	api.loginFn = func(domain.Credentials) (domain.TokenPair, error) {
		return domain.TokenPair{AccessToken: "A1"}, nil // refresh token optional
	}

	s := services.NewSessionService(api, store)
	if _, err := s.Login(context.Background(), domain.Credentials{}); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(repos.KeyRefreshToken); got != "" {
		t.Fatalf("no refresh token should be stored, got %q", got)
	}
}

func TestSessionLoginFailurePropagates(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")
	wantMsg := "Unauthorized"
	api.loginFn = func(domain.Credentials) (domain.TokenPair, error) {
		return domain.TokenPair{}, &storeapi.APIError{Status: http.StatusUnauthorized, Message: wantMsg}
	}

	s := services.NewSessionService(api, store)
	_, err := s.Login(context.Background(), domain.Credentials{})
	if err == nil || err.Error() != wantMsg {
		t.Fatalf("API error must pass through verbatim, got %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("failed login must leave session unauthenticated")
	}
}

// A stored access token that still works must restore the session without
// touching the refresh endpoint.
func TestInitializeRoundTrip(t *testing.T) {
	store := tokenStore(t)
	if err := store.Set(repos.KeyAccessToken, "A1"); err != nil {
		t.Fatal(err)
	}
	api := acceptingAPI("A1")

	s := services.NewSessionService(api, store)
	s.Initialize(context.Background())

	if !s.Ready() {
		t.Fatal("session must be Ready after Initialize")
	}
	u := s.CurrentUser()
	if u == nil || u.ID != alice.ID {
		t.Fatalf("expected alice restored, got %+v", u)
	}
	if api.refreshCalls != 0 {
		t.Fatalf("refresh must not be called when the access token works (called %d times)", api.refreshCalls)
	}
}

func TestInitializeRefreshFallback(t *testing.T) {
	store := tokenStore(t)
	if err := store.Set(repos.KeyRefreshToken, "R1"); err != nil {
		t.Fatal(err)
	}
	api := acceptingAPI("A2")
	api.refreshFn = func(tok string) (domain.TokenPair, error) {
		if tok != "R1" {
			return domain.TokenPair{}, &storeapi.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
		}
		return domain.TokenPair{AccessToken: "A2", RefreshToken: "R2"}, nil
	}

	s := services.NewSessionService(api, store)
	s.Initialize(context.Background())

	if !s.IsAuthenticated() {
		t.Fatal("refresh fallback should authenticate")
	}
	if api.refreshCalls != 1 {
		t.Fatalf("want exactly one refresh call, got %d", api.refreshCalls)
	}
	if got, _ := store.Get(repos.KeyAccessToken); got != "A2" {
		t.Fatalf("new access token not persisted: %q", got)
	}
	if got, _ := store.Get(repos.KeyRefreshToken); got != "R2" {
		t.Fatalf("rotated refresh token not persisted: %q", got)
	}
}

func TestInitializeInvalidRefreshClearsTokens(t *testing.T) {
	store := tokenStore(t)
	if err := store.Set(repos.KeyRefreshToken, "stale"); err != nil {
		t.Fatal(err)
	}
	api := acceptingAPI("A1")

	s := services.NewSessionService(api, store)
	s.Initialize(context.Background()) // must not panic or surface an error

	if s.IsAuthenticated() {
		t.Fatal("invalid refresh token must leave session unauthenticated")
	}
	if !s.Ready() {
		t.Fatal("session must still reach Ready")
	}
	if got, _ := store.Get(repos.KeyAccessToken); got != "" {
		t.Fatalf("access token should be cleared, got %q", got)
	}
	if got, _ := store.Get(repos.KeyRefreshToken); got != "" {
		t.Fatalf("refresh token should be cleared, got %q", got)
	}
}

func TestInitializeBadAccessTokenClearsBoth(t *testing.T) {
	store := tokenStore(t)
	_ = store.Set(repos.KeyAccessToken, "expired")
	_ = store.Set(repos.KeyRefreshToken, "R1")
	api := acceptingAPI("A1")

	s := services.NewSessionService(api, store)
	s.Initialize(context.Background())

	if s.IsAuthenticated() {
		t.Fatal("expected unauthenticated after profile rejection")
	}
	if got, _ := store.Get(repos.KeyRefreshToken); got != "" {
		t.Fatalf("both tokens must be cleared, refresh=%q", got)
	}
}

func TestInitializeNoTokensStaysUnauthenticated(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")

	s := services.NewSessionService(api, store)
	s.Initialize(context.Background())

	if s.IsAuthenticated() || !s.Ready() {
		t.Fatal("empty store should yield a Ready, unauthenticated session")
	}
	if api.profileCalls != 0 || api.refreshCalls != 0 {
		t.Fatal("no network calls expected without stored tokens")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")
	api.loginFn = func(domain.Credentials) (domain.TokenPair, error) {
		return domain.TokenPair{AccessToken: "A1", RefreshToken: "R1"}, nil
	}

	s := services.NewSessionService(api, store)
	if _, err := s.Login(context.Background(), domain.Credentials{}); err != nil {
		t.Fatal(err)
	}
	s.Logout()

	if s.IsAuthenticated() || s.Token() != "" {
		t.Fatal("logout must reset session state")
	}
	if got, _ := store.Get(repos.KeyAccessToken); got != "" {
		t.Fatalf("access token should be gone, got %q", got)
	}
	if got, _ := store.Get(repos.KeyRefreshToken); got != "" {
		t.Fatalf("refresh token should be gone, got %q", got)
	}
}

func TestRegisterRejectionMapsToFixedMessage(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")
	api.createFn = func(domain.Registration) (domain.User, error) {
		// The API sends a bare {"statusCode":400} with no message.
		return domain.User{}, &storeapi.APIError{Status: http.StatusBadRequest, Message: "Invalid data. Please check the information."}
	}

	s := services.NewSessionService(api, store)
	_, err := s.Register(context.Background(), domain.Registration{Email: "dup@example.com", Password: "pw"})
	if !errors.Is(err, services.ErrEmailTakenOrInvalid) {
		t.Fatalf("want fixed duplicate-email error, got %v", err)
	}
	if api.loginCalls != 0 {
		t.Fatal("login must not run after a rejected registration")
	}
}

func TestRegisterSuccessLogsIn(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")
	api.createFn = func(r domain.Registration) (domain.User, error) {
		return domain.User{ID: 99, Email: r.Email}, nil
	}
	api.loginFn = func(c domain.Credentials) (domain.TokenPair, error) {
		if c.Email != alice.Email || c.Password != "pw" {
			return domain.TokenPair{}, &storeapi.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
		}
		return domain.TokenPair{AccessToken: "A1"}, nil
	}

	s := services.NewSessionService(api, store)
	u, err := s.Register(context.Background(), domain.Registration{Name: "Alice", Email: alice.Email, Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	// The profile, not the discarded created record, becomes the session user.
	if u.ID != alice.ID {
		t.Fatalf("want profile user %d, got %d", alice.ID, u.ID)
	}
	if api.createCalls != 1 || api.loginCalls != 1 {
		t.Fatalf("want create then login, got create=%d login=%d", api.createCalls, api.loginCalls)
	}
}

func TestUpdateProfileLocalMerge(t *testing.T) {
	store := tokenStore(t)
	api := acceptingAPI("A1")

	s := services.NewSessionService(api, store)
	if _, err := s.UpdateProfile(services.ProfileUpdate{Name: "X"}); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}

	api.loginFn = func(domain.Credentials) (domain.TokenPair, error) {
		return domain.TokenPair{AccessToken: "A1"}, nil
	}
	if _, err := s.Login(context.Background(), domain.Credentials{}); err != nil {
		t.Fatal(err)
	}

	u, err := s.UpdateProfile(services.ProfileUpdate{Name: "Alicia"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Alicia" || u.Email != alice.Email {
		t.Fatalf("partial merge wrong: %+v", u)
	}
	if got := s.CurrentUser(); got.Name != "Alicia" {
		t.Fatalf("merge not retained: %+v", got)
	}
}
