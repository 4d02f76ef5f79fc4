package socialite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"social_auth/dto"

	"github.com/coreos/go-oidc"
	"golang.org/x/oauth2"
)

type profileFunc func(ctx context.Context, d *driver, client *http.Client, token *oauth2.Token) (*dto.RemoteIdentity, error)

type driver struct {
	name        string
	conf        *oauth2.Config
	with        map[string]string
	fields      []string
	userInfoURL string
	httpClient  *http.Client
	verifier    *oidc.IDTokenVerifier
	profile     profileFunc
}

type Option func(*driver)

// WithEndpoint points the driver at another authorization server, e.g. a
// self-hosted GitHub Enterprise.
func WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) Option {
	return func(d *driver) {
		d.conf.Endpoint = endpoint
		if userInfoURL != "" {
			d.userInfoURL = userInfoURL
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(d *driver) {
		d.httpClient = client
	}
}

// WithIDTokenVerifier lets the driver trust the claims of a returned id_token
// instead of calling the user-info endpoint.
func WithIDTokenVerifier(verifier *oidc.IDTokenVerifier) Option {
	return func(d *driver) {
		d.verifier = verifier
	}
}

func newDriver(name string, cfg Config, endpoint oauth2.Endpoint, defaultScopes []string, userInfoURL string, profile profileFunc, opts []Option) *driver {
	d := &driver{
		name: name,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       mergeScopes(defaultScopes, cfg.Scopes),
			Endpoint:     endpoint,
		},
		with:        cfg.With,
		fields:      cfg.Fields,
		userInfoURL: userInfoURL,
		profile:     profile,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *driver) Name() string {
	return d.name
}

func (d *driver) RedirectURL(state string) string {
	params := make([]oauth2.AuthCodeOption, 0, len(d.with))
	for key, value := range d.with {
		params = append(params, oauth2.SetAuthURLParam(key, value))
	}
	return d.conf.AuthCodeURL(state, params...)
}

func (d *driver) User(ctx context.Context, code string) (*dto.RemoteIdentity, error) {
	if strings.TrimSpace(code) == "" {
		return nil, d.fail(errors.New("missing authorization code"))
	}
	if d.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, d.httpClient)
	}

	token, err := d.conf.Exchange(ctx, code)
	if err != nil {
		return nil, d.fail(fmt.Errorf("exchange: %w", err))
	}

	identity, err := d.profile(ctx, d, d.conf.Client(ctx, token), token)
	if err != nil {
		return nil, d.fail(err)
	}
	if identity.ID == "" {
		return nil, d.fail(errors.New("profile has no id"))
	}
	identity.Token = token.AccessToken
	return identity, nil
}

func (d *driver) fail(err error) error {
	return &ExchangeError{Provider: d.name, Err: err}
}

// profileURL returns the user-info URL with the configured fields applied.
func (d *driver) profileURL(defaultFields []string) string {
	fields := d.fields
	if len(fields) == 0 {
		fields = defaultFields
	}
	if len(fields) == 0 {
		return d.userInfoURL
	}
	u, err := url.Parse(d.userInfoURL)
	if err != nil {
		return d.userInfoURL
	}
	q := u.Query()
	q.Set("fields", strings.Join(fields, ","))
	u.RawQuery = q.Encode()
	return u.String()
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("profile request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mergeScopes(defaults, extra []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(extra))
	out := make([]string, 0, len(defaults)+len(extra))
	for _, scope := range append(append([]string{}, defaults...), extra...) {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if _, ok := seen[scope]; ok {
			continue
		}
		seen[scope] = struct{}{}
		out = append(out, scope)
	}
	return out
}
