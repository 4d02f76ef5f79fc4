package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"social_auth/internal/socialite"
	"social_auth/utils"

	"github.com/caarlos0/env/v11"
	"github.com/coreos/go-oidc"
)

const googleIssuer = "https://accounts.google.com"

// ProviderConfig is the raw per-provider environment.
type ProviderConfig struct {
	ClientID     string            `env:"CLIENT_ID"`
	ClientSecret string            `env:"CLIENT_SECRET"`
	RedirectURL  string            `env:"REDIRECT_URL"`
	Scopes       []string          `env:"SCOPES" envSeparator:","`
	With         map[string]string `env:"WITH" envSeparator:"," envKeyValSeparator:":"`
	Fields       []string          `env:"FIELDS" envSeparator:","`
}

func (p ProviderConfig) driverConfig() socialite.Config {
	return socialite.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURL,
		Scopes:       trimCSV(p.Scopes),
		With:         p.With,
		Fields:       trimCSV(p.Fields),
	}
}

type Config struct {
	AppURL     string `env:"APP_URL" envDefault:"http://localhost:8080"`
	Port       string `env:"PORT" envDefault:"8080"`
	RedirectTo string `env:"REDIRECT_TO" envDefault:"/"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON    bool   `env:"LOG_JSON" envDefault:"false"`

	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBName     string `env:"DB_NAME"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionSecure bool          `env:"SESSION_SECURE" envDefault:"false"`
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"15m"`

	ExceptRoles []string `env:"SOCIALITE_EXCEPT_ROLES" envSeparator:","`
	SessionName string   `env:"SOCIALITE_SESSION_NAME" envDefault:"socialite_provider"`

	Google   ProviderConfig `envPrefix:"GOOGLE_"`
	GitHub   ProviderConfig `envPrefix:"GITHUB_"`
	Facebook ProviderConfig `envPrefix:"FACEBOOK_"`

	EmailSender string `env:"EMAIL_SENDER"`
	AppPassword string `env:"APP_PASSWORD"`
	SMTPHost    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort    int    `env:"SMTP_PORT" envDefault:"587"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.ExceptRoles = trimCSV(cfg.ExceptRoles)
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}

// DSN is the MySQL data source name for gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, net.JoinHostPort(c.DBHost, c.DBPort), c.DBName)
}

// Services returns the configured providers keyed by name. Providers
// without a client id are left out.
func (c *Config) Services() map[string]socialite.Config {
	services := map[string]socialite.Config{}
	for name, p := range map[string]ProviderConfig{
		"google":   c.Google,
		"github":   c.GitHub,
		"facebook": c.Facebook,
	} {
		if strings.TrimSpace(p.ClientID) == "" {
			continue
		}
		services[name] = p.driverConfig()
	}
	return services
}

func (c *Config) Mail() utils.MailConfig {
	return utils.MailConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Sender:   c.EmailSender,
		Password: c.AppPassword,
		AppURL:   c.AppURL,
	}
}

func (c *Config) Addr() string {
	if _, err := strconv.Atoi(c.Port); err == nil {
		return ":" + c.Port
	}
	return c.Port
}

// NewGoogleVerifier discovers Google's signing keys for id_token checks.
func NewGoogleVerifier(ctx context.Context, clientID string) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, err
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
