package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	html "github.com/gofiber/template/html/v2"

	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/storeapi"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// fakeStoreAPI serves just enough of the remote contract for auth flows.
func fakeStoreAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "alice@example.com" || creds.Password != "Passw0rd1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Unauthorized", "statusCode": 401})
			return
		}
		_ = json.NewEncoder(w).Encode(domain.TokenPair{AccessToken: "A1", RefreshToken: "R1"})
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": 401})
			return
		}
		_ = json.NewEncoder(w).Encode(domain.User{ID: 7, Email: "alice@example.com", Name: "Alice", Role: "customer"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newAuthApp(t *testing.T) (*fiber.App, *services.SessionService, *repos.TokenRepo) {
	t.Helper()
	srv := fakeStoreAPI(t)

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	tokens := repos.NewTokenRepo(db)
	session := services.NewSessionService(storeapi.New(srv.URL), tokens)
	session.Initialize(context.Background())
	authH := &handlers.AuthHandler{Session: session}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)
	return app, session, tokens
}

func postForm(t *testing.T, app *fiber.App, path, csrfTok, form string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestLoginSuccessAndFailure(t *testing.T) {
	app, session, tokens := newAuthApp(t)

	respForm, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respForm, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	// bad password -> 401, still unauthenticated
	resp := postForm(t, app, "/login", csrfTok, "csrf="+csrfTok+"&email=alice@example.com&password=wrongpass")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if session.IsAuthenticated() {
		t.Fatal("session must stay unauthenticated after a failed login")
	}

	// good password -> redirect, tokens persisted
	resp = postForm(t, app, "/login", csrfTok, "csrf="+csrfTok+"&email=alice@example.com&password=Passw0rd1")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if !session.IsAuthenticated() {
		t.Fatal("session should be authenticated")
	}
	if v, _ := tokens.Get(repos.KeyAccessToken); v != "A1" {
		t.Fatalf("access token not persisted: %q", v)
	}
}

func TestLogoutResetsSession(t *testing.T) {
	app, session, tokens := newAuthApp(t)

	respForm, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respForm, "csrf_")

	postForm(t, app, "/login", csrfTok, "csrf="+csrfTok+"&email=alice@example.com&password=Passw0rd1")
	if !session.IsAuthenticated() {
		t.Fatal("precondition: logged in")
	}

	resp := postForm(t, app, "/logout", csrfTok, "csrf="+csrfTok)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after logout, got %d", resp.StatusCode)
	}
	if session.IsAuthenticated() {
		t.Fatal("logout must clear the session")
	}
	if v, _ := tokens.Get(repos.KeyAccessToken); v != "" {
		t.Fatalf("tokens must be cleared, got %q", v)
	}
}
