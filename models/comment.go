package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Comment represents a reply on a ticket, by the requester or staff
// Table: comments
// Content stored as TEXT
type Comment struct {
	ID       string `gorm:"primaryKey;size:18" json:"id"`
	TicketID string `gorm:"size:18;not null;index" json:"ticket_id"`
	AuthorID string `gorm:"size:18;not null;index" json:"author_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	IsStaff  *bool  `gorm:"default:false" json:"is_staff,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Ticket *Ticket `gorm:"foreignKey:TicketID;references:ID;constraint:OnDelete:CASCADE" json:"ticket,omitempty"`
	Author *User   `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

func (Comment) TableName() string { return "comments" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// CommentFilter represents filter criteria for comment queries
type CommentFilter struct {
	ID       *string `json:"id,omitempty"`
	TicketID *string `json:"ticket_id,omitempty"`
	AuthorID *string `json:"author_id,omitempty"`
	IsStaff  *bool   `json:"is_staff,omitempty"`
}
