package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholderEmail(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		providerID string
		provider   string
		want       bool
	}{
		{name: "synthesized", email: "42@github.com", providerID: "42", provider: "github", want: true},
		{name: "case insensitive", email: "42@GitHub.com", providerID: "42", provider: "GitHub", want: true},
		{name: "real address on provider domain", email: "someone@github.com", providerID: "42", provider: "github"},
		{name: "other identity", email: "43@github.com", providerID: "42", provider: "github"},
		{name: "other provider", email: "42@github.com", providerID: "42", provider: "facebook"},
		{name: "no provider id", email: "@github.com", provider: "github"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPlaceholderEmail(tc.email, tc.providerID, tc.provider))
		})
	}
}

func TestHasRoles(t *testing.T) {
	user := &User{Roles: []Role{{Name: "admin"}, {Name: "editor"}}}

	assert.True(t, user.HasRoles([]string{" Admin "}))
	assert.False(t, user.HasRoles([]string{"viewer"}))
	assert.False(t, (&User{}).HasRoles([]string{"admin"}))
}
