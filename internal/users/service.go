package users

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/security"
)

// RoleInput describes an access role keyed by its name.
type RoleInput struct {
	Name        string
	Description string
	ActorUserID int64
}

// UserInput describes an operator account keyed by username. Password is the
// plain text from the source; it is hashed before persisting. RoleNames
// replace the user's role set on every upsert.
type UserInput struct {
	Username    string
	Email       string
	FullName    string
	Password    string
	RoleNames   []string
	ActorUserID int64
}

// Service manages operator accounts and their roles.
type Service interface {
	UpsertRole(ctx context.Context, tx *gorm.DB, input RoleInput) (*models.Role, bool, error)
	UpsertUser(ctx context.Context, tx *gorm.DB, input UserInput) (*models.User, bool, error)
	FindByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	VerifyPassword(user *models.User, password string) (bool, error)
}

type service struct {
	passwordCfg config.PasswordConfig
}

// NewService wires the user service with the password hashing parameters.
func NewService(passwordCfg config.PasswordConfig) Service {
	return service{passwordCfg: passwordCfg}
}

// UpsertRole creates or refreshes a role by name.
func (s service) UpsertRole(ctx context.Context, tx *gorm.DB, input RoleInput) (*models.Role, bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, false, fmt.Errorf("role name is required")
	}

	var role models.Role
	err := tx.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err == gorm.ErrRecordNotFound {
		role = models.Role{
			Name:     name,
			IsActive: true,
			Audit:    models.Audit{CreatedBy: input.ActorUserID},
		}
		if desc := strings.TrimSpace(input.Description); desc != "" {
			role.Description = &desc
		}
		if err := tx.WithContext(ctx).Create(&role).Error; err != nil {
			return nil, false, fmt.Errorf("creating role %q: %w", name, err)
		}
		return &role, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	if desc := strings.TrimSpace(input.Description); desc != "" {
		if err := tx.WithContext(ctx).Model(&role).Updates(map[string]any{
			"description": desc,
			"modified_by": input.ActorUserID,
		}).Error; err != nil {
			return nil, false, err
		}
	}
	return &role, false, nil
}

// UpsertUser creates or refreshes a user by username and replaces its role
// associations. An existing user's password is left alone unless the input
// carries one.
func (s service) UpsertUser(ctx context.Context, tx *gorm.DB, input UserInput) (*models.User, bool, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, false, fmt.Errorf("username is required")
	}

	var user models.User
	err := tx.WithContext(ctx).Where("username = ?", username).First(&user).Error
	created := false
	switch {
	case err == gorm.ErrRecordNotFound:
		if strings.TrimSpace(input.Password) == "" {
			return nil, false, fmt.Errorf("password is required for new user %q", username)
		}
		hash, herr := security.HashPassword(input.Password, s.passwordCfg)
		if herr != nil {
			return nil, false, fmt.Errorf("hashing password: %w", herr)
		}
		user = models.User{
			Username:     username,
			PasswordHash: hash,
			IsActive:     true,
			Audit:        models.Audit{CreatedBy: input.ActorUserID},
		}
		if email := strings.TrimSpace(input.Email); email != "" {
			user.Email = &email
		}
		if full := strings.TrimSpace(input.FullName); full != "" {
			user.FullName = &full
		}
		if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, false, fmt.Errorf("creating user %q: %w", username, err)
		}
		created = true
	case err != nil:
		return nil, false, err
	default:
		updates := map[string]any{"modified_by": input.ActorUserID}
		if email := strings.TrimSpace(input.Email); email != "" {
			updates["email"] = email
		}
		if full := strings.TrimSpace(input.FullName); full != "" {
			updates["full_name"] = full
		}
		if password := strings.TrimSpace(input.Password); password != "" {
			hash, herr := security.HashPassword(password, s.passwordCfg)
			if herr != nil {
				return nil, false, fmt.Errorf("hashing password: %w", herr)
			}
			updates["password_hash"] = hash
		}
		if err := tx.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, false, err
		}
	}

	if input.RoleNames != nil {
		roles, err := s.resolveRoles(ctx, tx, input.RoleNames)
		if err != nil {
			return nil, false, err
		}
		if err := tx.WithContext(ctx).Model(&user).Association("Roles").Replace(roles); err != nil {
			return nil, false, fmt.Errorf("replacing roles for %q: %w", username, err)
		}
	}
	return &user, created, nil
}

// FindByUsername loads a user with roles preloaded.
func (s service) FindByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var user models.User
	err := tx.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyPassword checks a plain password against the user's stored hash.
func (s service) VerifyPassword(user *models.User, password string) (bool, error) {
	if user == nil {
		return false, fmt.Errorf("user is required")
	}
	return security.VerifyPassword(password, user.PasswordHash)
}

func (s service) resolveRoles(ctx context.Context, tx *gorm.DB, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		var role models.Role
		err := tx.WithContext(ctx).Where("name = ?", name).First(&role).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
