package socialite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newProviderServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func endpointFor(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func TestRedirectURLAppliesScopesAndParameters(t *testing.T) {
	p := NewGoogle(Config{
		ClientID:    "client-1",
		RedirectURL: "http://localhost/auth/google/callback",
		Scopes:      []string{"email", "https://www.googleapis.com/auth/calendar"},
		With:        map[string]string{"hd": "example.com"},
	})

	raw := p.RedirectURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "example.com", q.Get("hd"))
	assert.Equal(t, "openid profile email https://www.googleapis.com/auth/calendar", q.Get("scope"))
}

func TestGitHubUserFallsBackToPrimaryEmail(t *testing.T) {
	srv := newProviderServer(t, map[string]any{
		"/user": map[string]any{
			"id":         1234,
			"login":      "octocat",
			"name":       "",
			"email":      nil,
			"avatar_url": "https://avatars.example/octocat.png",
		},
		"/user/emails": []map[string]any{
			{"email": "secondary@example.com", "primary": false, "verified": true},
			{"email": "octo@example.com", "primary": true, "verified": true},
		},
	})

	p := NewGitHub(Config{ClientID: "id", ClientSecret: "secret"}, WithEndpoint(endpointFor(srv), srv.URL+"/user"))
	identity, err := p.User(context.Background(), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "1234", identity.ID)
	assert.Equal(t, "octo@example.com", identity.Email)
	assert.Equal(t, "octocat", identity.Nickname)
	assert.Equal(t, "https://avatars.example/octocat.png", identity.Avatar)
	assert.Equal(t, "access-123", identity.Token)
}

func TestFacebookUserRequestsConfiguredFields(t *testing.T) {
	var gotFields string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fb-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"fb-1","name":"Mark","picture":{"data":{"url":"https://cdn.example/p.jpg"}}}`))
	})

	p := NewFacebook(Config{Fields: []string{"name", "picture"}}, WithEndpoint(endpointFor(srv), srv.URL+"/me"))
	identity, err := p.User(context.Background(), "any")
	require.NoError(t, err)

	assert.Equal(t, "name,picture", gotFields)
	assert.Equal(t, "fb-1", identity.ID)
	assert.Empty(t, identity.Email)
	assert.Equal(t, "https://cdn.example/p.jpg", identity.Avatar)
	assert.Equal(t, "fb-token", identity.Token)
}

func TestUserWrapsExchangeFailures(t *testing.T) {
	srv := newProviderServer(t, nil)
	p := NewGitHub(Config{ClientID: "id"}, WithEndpoint(endpointFor(srv), srv.URL+"/user"))

	_, err := p.User(context.Background(), "expired-code")
	require.Error(t, err)

	var exchangeErr *ExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Equal(t, "github", exchangeErr.Provider)
}

func TestManagerDriver(t *testing.T) {
	google, err := Build("Google", Config{ClientID: "g"})
	require.NoError(t, err)
	m := NewManager(google, NewGitHub(Config{ClientID: "gh"}))

	p, err := m.Driver("GOOGLE")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())
	assert.Equal(t, []string{"github", "google"}, m.Names())

	_, err = m.Driver("twitter")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = Build("twitter", Config{})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestCodeFromCallback(t *testing.T) {
	code, err := CodeFromCallback("google", url.Values{"code": {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, "abc", code)

	_, err = CodeFromCallback("google", url.Values{"error": {"access_denied"}})
	var exchangeErr *ExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Contains(t, exchangeErr.Error(), "access_denied")

	_, err = CodeFromCallback("google", url.Values{})
	assert.Error(t, err)
}
