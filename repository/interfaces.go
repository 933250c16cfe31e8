// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id string) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SequenceCounterRepository is the Sequence Store: the single atomic
// allocate-next primitive every entity-creation path shares. Counter rows
// are never written through any other interface.
type SequenceCounterRepository interface {
	// Allocate atomically obtains the next sequence number for
	// (prefix, date), creating the counter row on first use. Returns
	// ErrSequenceExhausted once the day's capacity for the prefix is
	// spent, or a wrapped storage error on failure.
	Allocate(ctx context.Context, prefix, date string) (int, error)
	// ByFilter lists counter rows for issuance reporting
	ByFilter(ctx context.Context, filter models.SequenceCounterFilter, orderBy string, limit, offset int) ([]*models.SequenceCounter, error)
}

// DepartmentRepository defines operations for departments
type DepartmentRepository interface {
	Repository[models.Department, models.DepartmentFilter]
	ByName(ctx context.Context, name string) (*models.Department, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// UserSessionRepository defines operations for login sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	ByRefreshTokenHash(ctx context.Context, hash string) (*models.UserSession, error)
	Revoke(ctx context.Context, id string) error
	Touch(ctx context.Context, id string, at time.Time) error
}

// TaskRepository defines operations for tasks
type TaskRepository interface {
	Repository[models.Task, models.TaskFilter]
	UpdateStatus(ctx context.Context, id, status string, completedAt *time.Time) error
	Assign(ctx context.Context, id, assigneeID string) error
}

// TicketRepository defines operations for tickets
type TicketRepository interface {
	Repository[models.Ticket, models.TicketFilter]
	UpdateStatus(ctx context.Context, id, status string) error
	AppendFile(ctx context.Context, id, storedPath string) error
}

// CommentRepository defines operations for ticket comments
type CommentRepository interface {
	Repository[models.Comment, models.CommentFilter]
	ByTicketID(ctx context.Context, ticketID string) ([]*models.Comment, error)
}

// AttachmentRepository defines operations for file attachments
type AttachmentRepository interface {
	Repository[models.Attachment, models.AttachmentFilter]
	ByTicketID(ctx context.Context, ticketID string) ([]*models.Attachment, error)
}

// NotificationRepository defines operations for in-app notifications
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	MarkRead(ctx context.Context, id string, at time.Time) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// ReportRepository defines operations for generated reports
type ReportRepository interface {
	Repository[models.Report, models.ReportFilter]
}
