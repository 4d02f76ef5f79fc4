// Package socialite performs the OAuth handshake with third-party identity
// providers and returns the verified remote profile.
package socialite

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"social_auth/dto"
)

var ErrUnknownProvider = errors.New("socialite: provider not configured")

// ExchangeError wraps every failure that happens while turning a provider
// callback into a verified identity.
type ExchangeError struct {
	Provider string
	Err      error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("socialite: %s: %v", e.Provider, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// Config is the per-provider configuration. Scopes are merged with the
// driver defaults, With is appended to the authorization URL and Fields
// selects the profile fields requested from the user-info endpoint.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	With         map[string]string
	Fields       []string
}

type Provider interface {
	Name() string
	RedirectURL(state string) string
	User(ctx context.Context, code string) (*dto.RemoteIdentity, error)
}

type Manager struct {
	drivers map[string]Provider
}

func NewManager(providers ...Provider) *Manager {
	m := &Manager{drivers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		m.drivers[strings.ToLower(p.Name())] = p
	}
	return m
}

// Build creates the driver for one of the supported provider names.
func Build(name string, cfg Config, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google":
		return NewGoogle(cfg, opts...), nil
	case "github":
		return NewGitHub(cfg, opts...), nil
	case "facebook":
		return NewFacebook(cfg, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

func (m *Manager) Driver(name string) (Provider, error) {
	p, ok := m.drivers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.drivers))
	for name := range m.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CodeFromCallback extracts the authorization code from the callback query.
// A denied consent or a missing code is reported as an ExchangeError.
func CodeFromCallback(provider string, query url.Values) (string, error) {
	if reason := query.Get("error"); reason != "" {
		if desc := query.Get("error_description"); desc != "" {
			reason = reason + ": " + desc
		}
		return "", &ExchangeError{Provider: provider, Err: errors.New(reason)}
	}
	code := strings.TrimSpace(query.Get("code"))
	if code == "" {
		return "", &ExchangeError{Provider: provider, Err: errors.New("missing authorization code")}
	}
	return code, nil
}
