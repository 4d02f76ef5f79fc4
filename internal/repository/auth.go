package repository

import (
	"context"
	"errors"
	"strings"

	"social_auth/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	AssignRoles(ctx context.Context, user *model.User, names ...string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

// GetUserByID returns (nil, nil) when no user matches.
func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns (nil, nil) when no user matches.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Roles", "SocialAccounts").Create(user).Error
}

// AssignRoles attaches the named roles to the user, creating missing roles.
func (r *userRepository) AssignRoles(ctx context.Context, user *model.User, names ...string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := make([]model.Role, 0, len(names))
		for _, name := range names {
			role := model.Role{Name: strings.TrimSpace(name)}
			if err := tx.Where(model.Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
				return err
			}
			roles = append(roles, role)
		}
		if err := tx.Model(user).Association("Roles").Append(&roles); err != nil {
			return err
		}
		return nil
	})
}
