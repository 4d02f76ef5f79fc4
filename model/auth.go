package model

import (
	"strings"
	"time"
)

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"type:varchar(255)"`
	Email          string `gorm:"type:varchar(191);unique;not null"`
	Password       string `gorm:"type:varchar(255)"`
	Roles          []Role `gorm:"many2many:user_roles;"`
	SocialAccounts []SocialAccount
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasRoles reports whether the user holds any of the given role names.
func (u *User) HasRoles(names []string) bool {
	for _, role := range u.Roles {
		for _, name := range names {
			if strings.EqualFold(role.Name, strings.TrimSpace(name)) {
				return true
			}
		}
	}
	return false
}

type Role struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(64);unique;not null"`
	CreatedAt time.Time
}

// SocialAccount links a provider identity to a local user.
// (provider, provider_id) is unique across the table.
type SocialAccount struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	User       *User  `gorm:"constraint:OnDelete:CASCADE;"`
	Provider   string `gorm:"type:varchar(50);index:idx_social_provider,unique;not null"`
	ProviderID string `gorm:"type:varchar(191);index:idx_social_provider,unique;not null"`
	Token      string `gorm:"type:text"`
	Avatar     string `gorm:"type:varchar(255)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlaceholderEmail is the address used when a provider withholds the email.
func PlaceholderEmail(providerID, provider string) string {
	return providerID + "@" + provider + ".com"
}

// IsPlaceholderEmail reports whether email is the exact address
// PlaceholderEmail would synthesize for this identity.
func IsPlaceholderEmail(email, providerID, provider string) bool {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" || provider == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), PlaceholderEmail(providerID, strings.ToLower(provider)))
}
