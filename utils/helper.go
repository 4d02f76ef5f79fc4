package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"social_auth/dto"

	"github.com/rs/zerolog/log"
)

const AccessTokenCookie = "access_token"

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// APIResponse builds the {data, code, message} envelope. A nil payload is
// sent as an empty list.
func APIResponse(data any, code int, message string) dto.APIResponse {
	if data == nil {
		data = []any{}
	}
	return dto.APIResponse{Data: data, Code: code, Message: message}
}

// WriteAPIResponse writes the envelope using its code as the HTTP status.
func WriteAPIResponse(w http.ResponseWriter, resp dto.APIResponse) {
	WriteJSON(w, resp.Code, resp)
}

func SetAuthCookies(w http.ResponseWriter, accessToken string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
