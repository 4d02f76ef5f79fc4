package event

import (
	"context"
	"fmt"

	"social_auth/internal/socialite"
	"social_auth/model"

	"github.com/rs/zerolog"
)

// SocialLogin is published after a provider identity was resolved to a user
// and before the session is established.
type SocialLogin struct {
	User       *model.User
	Provider   string
	ProviderID string
	Client     socialite.Provider
	NewUser    bool
}

func socialLoginPayload(event Event) (SocialLogin, error) {
	switch p := event.Payload.(type) {
	case SocialLogin:
		return p, nil
	case *SocialLogin:
		if p != nil {
			return *p, nil
		}
	}
	return SocialLogin{}, fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
}

// AuditListener writes one structured record per social login.
type AuditListener struct {
	logger zerolog.Logger
}

func NewAuditListener(logger zerolog.Logger) *AuditListener {
	return &AuditListener{logger: logger}
}

func (l *AuditListener) CanHandle(eventType Type) bool {
	return eventType == TypeSocialLogin
}

func (l *AuditListener) Handle(_ context.Context, event Event) error {
	payload, err := socialLoginPayload(event)
	if err != nil {
		return err
	}
	if payload.User == nil {
		return fmt.Errorf("social login event %s has no user", event.ID)
	}
	l.logger.Info().
		Str("event_id", event.ID).
		Uint("user_id", payload.User.ID).
		Str("email", payload.User.Email).
		Str("provider", payload.Provider).
		Bool("new_user", payload.NewUser).
		Time("at", event.Timestamp).
		Msg("Social login")
	return nil
}

type WelcomeSender interface {
	SendWelcome(toEmail, name, provider string) error
}

// WelcomeMailListener greets users created by their first social login.
// Placeholder addresses are skipped.
type WelcomeMailListener struct {
	mailer WelcomeSender
}

func NewWelcomeMailListener(mailer WelcomeSender) *WelcomeMailListener {
	return &WelcomeMailListener{mailer: mailer}
}

func (l *WelcomeMailListener) CanHandle(eventType Type) bool {
	return eventType == TypeSocialLogin
}

func (l *WelcomeMailListener) Handle(_ context.Context, event Event) error {
	payload, err := socialLoginPayload(event)
	if err != nil {
		return err
	}
	if !payload.NewUser || payload.User == nil {
		return nil
	}
	if model.IsPlaceholderEmail(payload.User.Email, payload.ProviderID, payload.Provider) {
		return nil
	}
	return l.mailer.SendWelcome(payload.User.Email, payload.User.Name, payload.Provider)
}
