package handler

import (
	"errors"
	"net/http"
	"strings"

	"social_auth/dto"
	"social_auth/internal/event"
	"social_auth/internal/session"
	"social_auth/internal/socialite"
	"social_auth/internal/usecase"
	"social_auth/model"
	"social_auth/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const DefaultSessionName = "socialite_provider"

// AuthenticatedHook may write its own response after a successful social
// login. It returns false to fall back to the default redirect.
type AuthenticatedHook func(w http.ResponseWriter, r *http.Request, user *model.User) bool

type AuthOptions struct {
	SessionName           string
	RedirectTo            string
	OnSocialAuthenticated AuthenticatedHook
}

type AuthHandler struct {
	socialite    *socialite.Manager
	loginUsecase usecase.SocialLoginUsecase
	store        *session.Store
	guard        session.Guard
	events       event.Publisher
	opts         AuthOptions
}

func NewAuthHandler(manager *socialite.Manager, loginUsecase usecase.SocialLoginUsecase, store *session.Store, guard session.Guard, events event.Publisher, opts AuthOptions) *AuthHandler {
	if opts.SessionName == "" {
		opts.SessionName = DefaultSessionName
	}
	if opts.RedirectTo == "" {
		opts.RedirectTo = "/"
	}
	return &AuthHandler{
		socialite:    manager,
		loginUsecase: loginUsecase,
		store:        store,
		guard:        guard,
		events:       events,
		opts:         opts,
	}
}

func (h *AuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	provider, err := h.socialite.Driver(mux.Vars(r)["provider"])
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	state, err := utils.GenerateState()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate login state")
		utils.WriteError(w, http.StatusInternalServerError, "failed to start login")
		return
	}
	if err := h.store.SetState(w, r, state); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to store login state")
		return
	}
	http.Redirect(w, r, provider.RedirectURL(state), http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["provider"])
	provider, err := h.socialite.Driver(name)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	expected, err := h.store.PullState(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to read login state")
		return
	}
	if !utils.ValidateState(expected, r.URL.Query().Get("state")) {
		log.Warn().Str("provider", name).Msg("Social login state mismatch")
		h.backToLogin(w, r, utils.Translate(r, "auth.state"))
		return
	}

	code, err := socialite.CodeFromCallback(name, r.URL.Query())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	identity, err := provider.User(r.Context(), code)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	user, created, err := h.loginUsecase.CompleteLogin(r.Context(), name, identity)
	if errors.Is(err, usecase.ErrSocialLoginDisabled) {
		log.Info().Uint("user_id", user.ID).Str("provider", name).Msg("Social login rejected for excluded role")
		h.backToLogin(w, r, utils.Translate(r, "auth.social"))
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	if err := h.store.Put(w, r, h.opts.SessionName, name); err != nil {
		h.writeFailure(w, err)
		return
	}

	if err := h.events.Publish(event.TypeSocialLogin, event.SocialLogin{
		User:       user,
		Provider:   name,
		ProviderID: strings.TrimSpace(identity.ID),
		Client:     provider,
		NewUser:    created,
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to publish social login event")
	}

	if err := h.guard.Login(w, r, user); err != nil {
		h.writeFailure(w, err)
		return
	}

	if hook := h.opts.OnSocialAuthenticated; hook != nil && hook(w, r, user) {
		return
	}

	target, err := h.store.PullIntended(w, r)
	if err != nil || target == "" {
		target = h.opts.RedirectTo
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// backToLogin flashes the message under the email field and sends the
// browser to the manual login form.
func (h *AuthHandler) backToLogin(w http.ResponseWriter, r *http.Request, message string) {
	if err := h.store.FlashError(w, r, "email", message); err != nil {
		log.Error().Err(err).Msg("Failed to flash login error")
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) writeFailure(w http.ResponseWriter, err error) {
	var exchangeErr *socialite.ExchangeError
	if errors.As(err, &exchangeErr) {
		log.Error().Err(err).Str("provider", exchangeErr.Provider).Msg("Provider exchange failed")
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	log.Error().Err(err).Msg("Social login failed")
	utils.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// LoginPage stands in for the manual login form and reports flashed errors.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	errs, err := h.store.Errors(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read flashed errors")
	}
	if errs == nil {
		errs = map[string]string{}
	}
	utils.WriteJSON(w, http.StatusOK, dto.LoginPageResponse{Errors: errs})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.guard.UserID(r)
	provider := h.store.GetString(r, h.opts.SessionName)

	if err := h.guard.Logout(w, r); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Info().Uint("user_id", userID).Str("provider", provider).Msg("User logged out")

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "logged out",
	})
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.guard.UserID(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	profile, err := h.loginUsecase.Profile(r.Context(), userID)
	if errors.Is(err, usecase.ErrUserNotFound) {
		utils.WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}
