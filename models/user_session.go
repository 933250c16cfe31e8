package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// UserSession represents an authenticated login session
// Table: user_sessions
// One row per login; RefreshTokenHash is a SHA-256 digest of the refresh token
type UserSession struct {
	ID               string  `gorm:"primaryKey;size:18" json:"id"`
	UserID           string  `gorm:"size:18;not null;index" json:"user_id"`
	RefreshTokenHash string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	IPAddress        *string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent        *string `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	IsActive         *bool   `gorm:"default:true;index" json:"is_active,omitempty"`

	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (UserSession) TableName() string { return "user_sessions" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsExpired reports whether the session has passed its expiry time
func (s *UserSession) IsExpired() bool {
	return utils.IsExpired(s.ExpiresAt)
}

// UserSessionFilter represents filter criteria for session queries
type UserSessionFilter struct {
	ID               *string    `json:"id,omitempty"`
	UserID           *string    `json:"user_id,omitempty"`
	RefreshTokenHash *string    `json:"refresh_token_hash,omitempty"`
	IsActive         *bool      `json:"is_active,omitempty"`
	ExpiresAfter     *time.Time `json:"expires_after,omitempty"`
	ExpiresBefore    *time.Time `json:"expires_before,omitempty"`
}
