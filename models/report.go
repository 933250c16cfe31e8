package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Report kinds
const (
	ReportKindIssuanceVolume = "issuance_volume"
)

// Report represents a generated export, stored on disk as an Excel workbook
// Table: reports
type Report struct {
	ID          string `gorm:"primaryKey;size:18" json:"id"`
	RequesterID string `gorm:"size:18;not null;index" json:"requester_id"`
	Kind        string `gorm:"type:varchar(30);not null" json:"kind"`
	FromDate    string `gorm:"size:8;not null" json:"from_date"`
	ToDate      string `gorm:"size:8;not null" json:"to_date"`
	FilePath    string `gorm:"type:varchar(512);not null" json:"file_path"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Requester *User `gorm:"foreignKey:RequesterID;references:ID" json:"requester,omitempty"`
}

func (Report) TableName() string { return "reports" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ReportFilter represents filter criteria for report queries
type ReportFilter struct {
	ID          *string `json:"id,omitempty"`
	RequesterID *string `json:"requester_id,omitempty"`
	Kind        *string `json:"kind,omitempty"`
}
