package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// User roles
const (
	UserRoleMember  = "member"
	UserRoleManager = "manager"
	UserRoleAdmin   = "admin"
)

// User represents a registered account
// Table: users
// Indices: email (unique), department_id
// PasswordHash is a bcrypt digest, never serialized
type User struct {
	ID           string  `gorm:"primaryKey;size:18" json:"id"`
	DepartmentID string  `gorm:"size:18;not null;index" json:"department_id"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string  `gorm:"type:varchar(120);not null" json:"full_name"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsActive     *bool   `gorm:"default:true;index" json:"is_active,omitempty"`
	Phone        *string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID;references:ID" json:"department,omitempty"`
}

func (User) TableName() string { return "users" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID           *string `json:"id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Email        *string `json:"email,omitempty"`
	Role         *string `json:"role,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
