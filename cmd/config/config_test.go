package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsProviders(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("PORT", "8080")
	t.Setenv("SOCIALITE_EXCEPT_ROLES", "admin, ,super-admin")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GITHUB_CLIENT_ID", "gh-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "gh-secret")
	t.Setenv("GITHUB_SCOPES", "read:user,user:email")
	t.Setenv("GITHUB_WITH", "allow_signup:false")
	t.Setenv("FACEBOOK_CLIENT_ID", "fb-id")
	t.Setenv("FACEBOOK_FIELDS", "name,email,picture")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"admin", "super-admin"}, cfg.ExceptRoles)
	assert.Equal(t, "socialite_provider", cfg.SessionName)
	assert.Equal(t, ":8080", cfg.Addr())

	services := cfg.Services()
	require.Len(t, services, 2)
	assert.NotContains(t, services, "google")
	assert.Equal(t, []string{"read:user", "user:email"}, services["github"].Scopes)
	assert.Equal(t, map[string]string{"allow_signup": "false"}, services["github"].With)
	assert.Equal(t, []string{"name", "email", "picture"}, services["facebook"].Fields)
}

func TestLoadRequiresSecrets(t *testing.T) {
	tests := []struct {
		name          string
		sessionSecret string
		jwtSecret     string
		wantErr       bool
	}{
		{name: "both set", sessionSecret: "0123456789abcdef0123456789abcdef", jwtSecret: "jwt-secret"},
		{name: "no session secret", jwtSecret: "jwt-secret", wantErr: true},
		{name: "no jwt secret", sessionSecret: "0123456789abcdef0123456789abcdef", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", tc.sessionSecret)
			t.Setenv("JWT_SECRET", tc.jwtSecret)
			_, err := Load()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "social"}
	assert.Equal(t, "app:pw@tcp(db:3306)/social?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}
