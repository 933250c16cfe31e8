package models

import (
	"time"

	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// Task statuses
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"
)

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task represents a unit of work assigned within a department
// Table: tasks
// Indices: department_id, creator_id, assignee_id, status
// Title limited to 255 characters, Description stored as TEXT
type Task struct {
	ID           string     `gorm:"primaryKey;size:18" json:"id"`
	DepartmentID string     `gorm:"size:18;not null;index" json:"department_id"`
	CreatorID    string     `gorm:"size:18;not null;index" json:"creator_id"`
	AssigneeID   *string    `gorm:"size:18;index" json:"assignee_id,omitempty"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Status       string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Priority     string     `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID;references:ID" json:"department,omitempty"`
	Creator    *User       `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Assignee   *User       `gorm:"foreignKey:AssigneeID;references:ID" json:"assignee,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// BeforeCreate normalizes timestamps; the primary key must already be set
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// TaskFilter represents filter criteria for task queries
type TaskFilter struct {
	ID            *string    `json:"id,omitempty"`
	DepartmentID  *string    `json:"department_id,omitempty"`
	CreatorID     *string    `json:"creator_id,omitempty"`
	AssigneeID    *string    `json:"assignee_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
