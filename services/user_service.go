package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"claims_backoffice/models"

	"gorm.io/gorm"
)

// UserInput contains the fields of a new backoffice user
type UserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,user_role"`
	Language string `json:"language" validate:"omitempty,oneof=en pt"`
}

// UserUpdate contains the fields to change, nil fields are left untouched
type UserUpdate struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Role     *string `json:"role" validate:"omitempty,user_role"`
	IsActive *bool   `json:"is_active"`
	Language *string `json:"language" validate:"omitempty,oneof=en pt"`
	Password *string `json:"password"`
}

// ListUsers returns users ordered by name
func ListUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.WithContext(ctx).Order("name ASC").Find(&users).Error
	return users, storeError("list", "user", err, nil)
}

// GetUserByID retrieves a user by ID
func GetUserByID(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storeError("get", "user", err, ErrUserNotFound)
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email, case-insensitively
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, storeError("get", "user", err, ErrUserNotFound)
	}
	return &user, nil
}

// FindActiveUserForAssignee resolves an activity assignee, either an email or a
// display name, to an active user
func FindActiveUserForAssignee(ctx context.Context, db *gorm.DB, assignee string) (*models.User, error) {
	needle := strings.ToLower(strings.TrimSpace(assignee))
	if needle == "" {
		return nil, ErrUserNotFound
	}
	var user models.User
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("LOWER(email) = ? OR LOWER(name) = ?", needle, needle).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, storeError("get", "user", err, ErrUserNotFound)
	}
	return &user, nil
}

// CreateUser validates the input, hashes the password and stores the user
func CreateUser(ctx context.Context, db *gorm.DB, actx AuditContext, input UserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Language == "" {
		input.Language = "en"
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     input.Role,
		IsActive: true,
		Language: input.Language,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("LOWER(email) = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Fields: map[string]string{"email": "is already registered"}}
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourceUser,
			ResourceID:   user.ID,
			ResourceName: user.Name,
			Description:  "User created",
			NewValues:    user,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("create", "user", err, nil)
	}
	return &user, nil
}

// UpdateUser applies a partial update. A new password is re-validated and hashed.
func UpdateUser(ctx context.Context, db *gorm.DB, actx AuditContext, id string, input UserUpdate) (*models.User, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := GetUserByID(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
		}
		updates["name"] = name
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Language != nil {
		updates["language"] = *input.Language
	}
	if input.Password != nil {
		if err := ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		return existing, nil
	}
	updates["updated_at"] = time.Now()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		audited := make(map[string]interface{}, len(updates))
		for k, v := range updates {
			if k != "password" {
				audited[k] = v
			}
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionUpdate,
			ResourceType: models.AuditResourceUser,
			ResourceID:   id,
			ResourceName: existing.Name,
			Description:  "User updated",
			OldValues:    existing,
			NewValues:    audited,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("update", "user", err, nil)
	}

	return GetUserByID(ctx, db, id)
}

// IsInvalidCredentials reports whether err is a rejected login
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
