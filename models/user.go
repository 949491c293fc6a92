package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdmin          = "admin"
	RoleClaimsManager  = "claims_manager"
	RoleClaimsAdjuster = "claims_adjuster"
	RoleUnderwriter    = "underwriter"
)

// UserRoles lists the roles in display order
var UserRoles = []string{RoleAdmin, RoleClaimsManager, RoleClaimsAdjuster, RoleUnderwriter}

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"not null;default:claims_adjuster" json:"role"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	Language    string     `gorm:"size:5;not null;default:en" json:"language"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user administers the backoffice
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidUserRole checks if the role is valid
func IsValidUserRole(role string) bool {
	return contains(UserRoles, role)
}

// GetUserRoleDisplayName returns human-readable role name
func GetUserRoleDisplayName(role string) string {
	names := map[string]string{
		RoleAdmin:          "Administrator",
		RoleClaimsManager:  "Claims Manager",
		RoleClaimsAdjuster: "Claims Adjuster",
		RoleUnderwriter:    "Underwriter",
	}
	return labelOf(names, role)
}
