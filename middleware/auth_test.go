package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"social_auth/internal/session"
	"social_auth/model"
	"social_auth/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddleware(t *testing.T) {
	utils.InitJWT("middleware-secret", 0)
	token, _, err := utils.GenerateJWT("ada@example.com", "github", 5)
	require.NoError(t, err)

	var seen *utils.JWTclaims
	protected := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{name: "no token", setup: func(r *http.Request) {}, status: http.StatusUnauthorized},
		{name: "malformed header", setup: func(r *http.Request) { r.Header.Set("Authorization", token) }, status: http.StatusUnauthorized},
		{name: "bad token", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, status: http.StatusOK},
		{name: "cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: token})
		}, status: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, uint(5), seen.UserID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestRequireLoginRemembersIntendedURL(t *testing.T) {
	utils.InitJWT("middleware-secret", 0)
	store := session.NewStore([]byte("0123456789abcdef0123456789abcdef"), false)
	guard := session.NewSessionGuard(store, "socialite_provider", false)
	home := RequireLogin(store, guard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	home.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home?tab=2", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	next := httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	intended, err := store.PullIntended(rec2, next)
	require.NoError(t, err)
	assert.Equal(t, "/home?tab=2", intended)

	rec3 := httptest.NewRecorder()
	login := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, guard.Login(rec3, login, &model.User{ID: 1, Email: "ada@example.com"}))
	authed := httptest.NewRequest(http.MethodGet, "/home", nil)
	for _, c := range rec3.Result().Cookies() {
		authed.AddCookie(c)
	}
	rec4 := httptest.NewRecorder()
	home.ServeHTTP(rec4, authed)
	assert.Equal(t, http.StatusTeapot, rec4.Code)
}
