package session

import (
	"net/http"

	"social_auth/model"
	"social_auth/utils"
)

// Guard marks a request's session as logged in as a given user.
type Guard interface {
	Login(w http.ResponseWriter, r *http.Request, user *model.User) error
	UserID(r *http.Request) (uint, bool)
	Logout(w http.ResponseWriter, r *http.Request) error
}

// SessionGuard keeps the authenticated user id in the session cookie and
// hands out an API access token alongside it.
type SessionGuard struct {
	store         *Store
	providerKey   string
	secureCookies bool
}

func NewSessionGuard(store *Store, providerKey string, secureCookies bool) *SessionGuard {
	return &SessionGuard{store: store, providerKey: providerKey, secureCookies: secureCookies}
}

func (g *SessionGuard) Login(w http.ResponseWriter, r *http.Request, user *model.User) error {
	sess := g.store.Get(r)
	sess.Values[keyAuthenticated] = true
	sess.Values[keyUserID] = user.ID
	if err := sess.Save(r, w); err != nil {
		return err
	}

	provider, _ := sess.Values[g.providerKey].(string)
	token, expiresAt, err := utils.GenerateJWT(user.Email, provider, user.ID)
	if err != nil {
		return err
	}
	utils.SetAuthCookies(w, token, expiresAt, g.secureCookies)
	return nil
}

func (g *SessionGuard) UserID(r *http.Request) (uint, bool) {
	sess := g.store.Get(r)
	if authenticated, _ := sess.Values[keyAuthenticated].(bool); !authenticated {
		return 0, false
	}
	id, ok := sess.Values[keyUserID].(uint)
	return id, ok && id != 0
}

func (g *SessionGuard) Logout(w http.ResponseWriter, r *http.Request) error {
	utils.ClearAuthCookies(w)
	return g.store.Invalidate(w, r)
}
