package session

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

const (
	CookieName = "session"

	keyAuthenticated = "authenticated"
	keyUserID        = "user_id"
	keyIntended      = "url.intended"
	keyState         = "oauth_state"
	errorsFlashKey   = "_errors"
)

type Store struct {
	store sessions.Store
}

func NewStore(secret []byte, secure bool) *Store {
	cookieStore := sessions.NewCookieStore(secret)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cookieStore}
}

// Get returns the request session. A cookie that can no longer be decoded
// yields a fresh session instead of an error.
func (s *Store) Get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, CookieName)
	if err != nil {
		sess, _ = s.store.New(r, CookieName)
		if sess == nil {
			sess = sessions.NewSession(s.store, CookieName)
		}
	}
	return sess
}

func (s *Store) Put(w http.ResponseWriter, r *http.Request, key string, value interface{}) error {
	sess := s.Get(r)
	sess.Values[key] = value
	return sess.Save(r, w)
}

func (s *Store) GetString(r *http.Request, key string) string {
	v, _ := s.Get(r).Values[key].(string)
	return v
}

// Pull reads and removes a string value.
func (s *Store) Pull(w http.ResponseWriter, r *http.Request, key string) (string, error) {
	sess := s.Get(r)
	v, _ := sess.Values[key].(string)
	if _, ok := sess.Values[key]; !ok {
		return "", nil
	}
	delete(sess.Values, key)
	return v, sess.Save(r, w)
}

// SetIntended remembers where an unauthenticated visitor was going.
func (s *Store) SetIntended(w http.ResponseWriter, r *http.Request, url string) error {
	return s.Put(w, r, keyIntended, url)
}

func (s *Store) PullIntended(w http.ResponseWriter, r *http.Request) (string, error) {
	return s.Pull(w, r, keyIntended)
}

func (s *Store) SetState(w http.ResponseWriter, r *http.Request, state string) error {
	return s.Put(w, r, keyState, state)
}

func (s *Store) PullState(w http.ResponseWriter, r *http.Request) (string, error) {
	return s.Pull(w, r, keyState)
}

// FlashError queues a field error for the next request.
func (s *Store) FlashError(w http.ResponseWriter, r *http.Request, field, message string) error {
	sess := s.Get(r)
	sess.AddFlash(field+"\x00"+message, errorsFlashKey)
	return sess.Save(r, w)
}

// Errors consumes the flashed field errors.
func (s *Store) Errors(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	sess := s.Get(r)
	flashes := sess.Flashes(errorsFlashKey)
	out := make(map[string]string, len(flashes))
	if len(flashes) == 0 {
		return out, nil
	}
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		if field, message, found := strings.Cut(raw, "\x00"); found {
			out[field] = message
		}
	}
	return out, sess.Save(r, w)
}

// Invalidate expires the session cookie.
func (s *Store) Invalidate(w http.ResponseWriter, r *http.Request) error {
	sess := s.Get(r)
	for key := range sess.Values {
		delete(sess.Values, key)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
