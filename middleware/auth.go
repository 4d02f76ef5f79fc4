package middleware

import (
	"context"
	"net/http"
	"strings"

	"social_auth/internal/session"
	"social_auth/utils"

	"github.com/rs/zerolog/log"
)

type key int

const UserContextKey key = 0

// JWTMiddleware accepts the access token from the Authorization header or,
// for browser clients, from the access_token cookie.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Bearer token missing")
			return
		}

		claims, err := utils.ParseJWT(tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected access token")
			utils.WriteError(w, http.StatusUnauthorized, "invalid or expired access token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return ""
		}
		return strings.TrimSpace(tokenString)
	}
	if cookie, err := r.Cookie(utils.AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func ClaimsFromContext(ctx context.Context) (*utils.JWTclaims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.JWTclaims)
	return claims, ok
}

// RequireLogin sends guests to the login page and remembers where they
// were going.
func RequireLogin(store *session.Store, guard session.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := guard.UserID(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			if err := store.SetIntended(w, r, r.URL.RequestURI()); err != nil {
				log.Error().Err(err).Msg("Failed to store intended url")
			}
			http.Redirect(w, r, "/login", http.StatusFound)
		})
	}
}
