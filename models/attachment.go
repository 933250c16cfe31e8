package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Attachment represents a stored file linked to a ticket
// Table: attachments
// StoredPath is the on-disk location; Size in bytes
type Attachment struct {
	ID         string `gorm:"primaryKey;size:18" json:"id"`
	TicketID   string `gorm:"size:18;not null;index" json:"ticket_id"`
	UploaderID string `gorm:"size:18;not null;index" json:"uploader_id"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	StoredPath string `gorm:"type:varchar(512);not null" json:"stored_path"`
	MimeType   string `gorm:"type:varchar(100);not null" json:"mime_type"`
	Size       int64  `gorm:"not null" json:"size"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Ticket *Ticket `gorm:"foreignKey:TicketID;references:ID;constraint:OnDelete:CASCADE" json:"ticket,omitempty"`
}

func (Attachment) TableName() string { return "attachments" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// AttachmentFilter represents filter criteria for attachment queries
type AttachmentFilter struct {
	ID         *string `json:"id,omitempty"`
	TicketID   *string `json:"ticket_id,omitempty"`
	UploaderID *string `json:"uploader_id,omitempty"`
}
