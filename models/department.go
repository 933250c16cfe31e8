package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Department represents an organizational unit users belong to
// Table: departments
// ID is an allocator-issued identifier (DEP-YYYYMMDD-NNNNN) assigned by the
// creation flow before the first durable write
type Department struct {
	ID          string  `gorm:"primaryKey;size:18" json:"id"`
	Name        string  `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	IsActive    *bool   `gorm:"default:true;index" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Department) TableName() string { return "departments" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = utils.UTCNow()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// DepartmentFilter represents filter criteria for department queries
type DepartmentFilter struct {
	ID       *string `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
