package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"social_auth/dto"
	"social_auth/internal/repository"
	"social_auth/model"
	"social_auth/utils"

	"github.com/rs/zerolog/log"
)

// ErrSocialLoginDisabled is returned when the user holds an excluded role.
var ErrSocialLoginDisabled = errors.New("social login is disabled for this account")

var ErrUserNotFound = errors.New("user not found")

type SocialLoginUsecase interface {
	ResolveUser(ctx context.Context, provider string, identity *dto.RemoteIdentity) (*model.User, bool, error)
	Authorize(user *model.User) error
	CompleteLogin(ctx context.Context, provider string, identity *dto.RemoteIdentity) (*model.User, bool, error)
	Profile(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type socialLoginUsecase struct {
	userRepo    repository.UserRepository
	accountRepo repository.SocialAccountRepository
	exceptRoles []string
}

func NewSocialLoginUsecase(userRepo repository.UserRepository, accountRepo repository.SocialAccountRepository, exceptRoles []string) SocialLoginUsecase {
	roles := make([]string, 0, len(exceptRoles))
	for _, role := range exceptRoles {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return &socialLoginUsecase{userRepo: userRepo, accountRepo: accountRepo, exceptRoles: roles}
}

// ResolveUser finds or creates the local user behind a provider identity.
// The boolean reports whether a new user row was created.
func (u *socialLoginUsecase) ResolveUser(ctx context.Context, provider string, identity *dto.RemoteIdentity) (*model.User, bool, error) {
	if identity == nil || strings.TrimSpace(identity.ID) == "" {
		return nil, false, fmt.Errorf("%s identity has no id", provider)
	}
	provider = strings.ToLower(provider)
	providerID := strings.TrimSpace(identity.ID)

	account, err := u.accountRepo.GetSocialAccountByProvider(ctx, provider, providerID)
	if err != nil {
		return nil, false, fmt.Errorf("find social account: %w", err)
	}
	if account != nil {
		user, err := u.refreshAccount(ctx, account, identity)
		return user, false, err
	}

	email := strings.TrimSpace(identity.Email)
	if email == "" {
		email = model.PlaceholderEmail(providerID, provider)
	}

	user, created, err := u.findOrCreateUser(ctx, provider, email, identity)
	if err != nil {
		return nil, false, err
	}

	account = &model.SocialAccount{
		UserID:     user.ID,
		Provider:   provider,
		ProviderID: providerID,
		Token:      identity.Token,
		Avatar:     identity.Avatar,
	}
	if err := u.accountRepo.CreateSocialAccount(ctx, account); err != nil {
		// Another request linked the same identity first.
		existing, findErr := u.accountRepo.GetSocialAccountByProvider(ctx, provider, providerID)
		if findErr != nil || existing == nil {
			return nil, false, fmt.Errorf("create social account: %w", err)
		}
		log.Warn().Str("provider", provider).Str("provider_id", providerID).Msg("Social account created concurrently, reusing it")
		user, err := u.refreshAccount(ctx, existing, identity)
		return user, false, err
	}
	return user, created, nil
}

func (u *socialLoginUsecase) refreshAccount(ctx context.Context, account *model.SocialAccount, identity *dto.RemoteIdentity) (*model.User, error) {
	account.Token = identity.Token
	account.Avatar = identity.Avatar
	if err := u.accountRepo.UpdateSocialAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("update social account: %w", err)
	}
	if account.User != nil {
		return account.User, nil
	}
	user, err := u.userRepo.GetUserByID(ctx, account.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("social account %d has no user", account.ID)
	}
	return user, nil
}

func (u *socialLoginUsecase) findOrCreateUser(ctx context.Context, provider, email string, identity *dto.RemoteIdentity) (*model.User, bool, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	if user != nil {
		return user, false, nil
	}

	password, err := utils.RandomPasswordHash()
	if err != nil {
		return nil, false, err
	}
	user = &model.User{
		Name:     displayName(provider, identity),
		Email:    email,
		Password: password,
	}
	if err := u.userRepo.CreateUser(ctx, user); err != nil {
		existing, findErr := u.userRepo.GetUserByEmail(ctx, email)
		if findErr != nil || existing == nil {
			return nil, false, fmt.Errorf("create user: %w", err)
		}
		return existing, false, nil
	}
	return user, true, nil
}

func displayName(provider string, identity *dto.RemoteIdentity) string {
	if name := strings.TrimSpace(identity.Name); name != "" {
		return name
	}
	if nick := strings.TrimSpace(identity.Nickname); nick != "" {
		return nick
	}
	if provider == "" {
		return "User"
	}
	return strings.ToUpper(provider[:1]) + provider[1:] + " User"
}

// Authorize rejects users holding any of the excluded roles.
func (u *socialLoginUsecase) Authorize(user *model.User) error {
	if len(u.exceptRoles) == 0 {
		return nil
	}
	if user.HasRoles(u.exceptRoles) {
		return ErrSocialLoginDisabled
	}
	return nil
}

func (u *socialLoginUsecase) CompleteLogin(ctx context.Context, provider string, identity *dto.RemoteIdentity) (*model.User, bool, error) {
	user, created, err := u.ResolveUser(ctx, provider, identity)
	if err != nil {
		return nil, false, err
	}
	if err := u.Authorize(user); err != nil {
		return user, created, err
	}
	return user, created, nil
}

func (u *socialLoginUsecase) Profile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := u.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	accounts, err := u.accountRepo.GetSocialAccountsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Roles:     make([]string, 0, len(user.Roles)),
		Providers: make([]string, 0, len(accounts)),
	}
	for _, role := range user.Roles {
		resp.Roles = append(resp.Roles, role.Name)
	}
	for _, account := range accounts {
		resp.Providers = append(resp.Providers, account.Provider)
	}
	return resp, nil
}
