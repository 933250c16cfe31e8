package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Notification kinds
const (
	NotificationKindTaskAssigned  = "task_assigned"
	NotificationKindTaskCompleted = "task_completed"
	NotificationKindTicketReply   = "ticket_reply"
)

// Notification represents an in-app message delivered to a single user
// Table: notifications
// EntityID references the task or ticket the notification is about
type Notification struct {
	ID          string  `gorm:"primaryKey;size:18" json:"id"`
	RecipientID string  `gorm:"size:18;not null;index" json:"recipient_id"`
	Kind        string  `gorm:"type:varchar(30);not null" json:"kind"`
	Message     string  `gorm:"type:varchar(500);not null" json:"message"`
	EntityID    *string `gorm:"size:18;index" json:"entity_id,omitempty"`
	IsRead      *bool   `gorm:"default:false;index" json:"is_read,omitempty"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Recipient *User `gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE" json:"recipient,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = utils.UTCNow()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// NotificationFilter represents filter criteria for notification queries
type NotificationFilter struct {
	ID          *string `json:"id,omitempty"`
	RecipientID *string `json:"recipient_id,omitempty"`
	Kind        *string `json:"kind,omitempty"`
	EntityID    *string `json:"entity_id,omitempty"`
	IsRead      *bool   `json:"is_read,omitempty"`
}
