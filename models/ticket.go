package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Ticket statuses
const (
	TicketStatusOpen     = "open"
	TicketStatusAnswered = "answered"
	TicketStatusClosed   = "closed"
)

// Ticket represents a support request submitted by a user
// Table: tickets
// Indices: correlation_id, requester_id, status, created_at
// Files is a list of stored attachment paths
// Title limited to 255 characters, Content stored as TEXT
type Ticket struct {
	ID            string         `gorm:"primaryKey;size:18" json:"id"`
	CorrelationID uuid.UUID      `gorm:"type:uuid;index;not null" json:"correlation_id"`
	RequesterID   string         `gorm:"size:18;not null;index" json:"requester_id"`
	DepartmentID  string         `gorm:"size:18;not null;index" json:"department_id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Status        string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Files         pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"files"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Requester  *User       `gorm:"foreignKey:RequesterID;references:ID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:ID" json:"department,omitempty"`
}

func (Ticket) TableName() string { return "tickets" }

// BeforeCreate ensures CorrelationID is set and normalizes timestamps;
// the primary key must already be set
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.CorrelationID == uuid.Nil {
		t.CorrelationID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// TicketFilter represents filter criteria for ticket queries
type TicketFilter struct {
	ID            *string    `json:"id,omitempty"`
	CorrelationID *uuid.UUID `json:"correlation_id,omitempty"`
	RequesterID   *string    `json:"requester_id,omitempty"`
	DepartmentID  *string    `json:"department_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Title         *string    `json:"title,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
