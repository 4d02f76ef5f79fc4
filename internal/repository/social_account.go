package repository

import (
	"context"
	"errors"
	"strings"

	"social_auth/model"

	"gorm.io/gorm"
)

type SocialAccountRepository interface {
	GetSocialAccountByProvider(ctx context.Context, provider, providerID string) (*model.SocialAccount, error)
	GetSocialAccountsByUser(ctx context.Context, userID uint) ([]model.SocialAccount, error)
	CreateSocialAccount(ctx context.Context, account *model.SocialAccount) error
	UpdateSocialAccount(ctx context.Context, account *model.SocialAccount) error
}

type socialAccountRepository struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) SocialAccountRepository {
	return &socialAccountRepository{db}
}

// GetSocialAccountByProvider loads the account together with its user and the
// user's roles. It returns (nil, nil) when no account matches.
func (r *socialAccountRepository) GetSocialAccountByProvider(ctx context.Context, provider, providerID string) (*model.SocialAccount, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	providerID = strings.TrimSpace(providerID)
	if provider == "" || providerID == "" {
		return nil, nil
	}
	var account model.SocialAccount
	err := r.db.WithContext(ctx).
		Preload("User.Roles").
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *socialAccountRepository) GetSocialAccountsByUser(ctx context.Context, userID uint) ([]model.SocialAccount, error) {
	var accounts []model.SocialAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *socialAccountRepository) CreateSocialAccount(ctx context.Context, account *model.SocialAccount) error {
	account.Provider = strings.ToLower(strings.TrimSpace(account.Provider))
	return r.db.WithContext(ctx).Omit("User").Create(account).Error
}

// UpdateSocialAccount refreshes the stored token and avatar only.
func (r *socialAccountRepository) UpdateSocialAccount(ctx context.Context, account *model.SocialAccount) error {
	return r.db.WithContext(ctx).
		Model(&model.SocialAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"token":  account.Token,
			"avatar": account.Avatar,
		}).Error
}
