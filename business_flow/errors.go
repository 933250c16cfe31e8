// Package businessflow contains the core business logic and use cases for the ticketing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Department-related errors
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentInactive     = errors.New("department is inactive")
	ErrDepartmentNameExists   = errors.New("department name already exists")
	ErrDepartmentNameRequired = errors.New("department name is required")

	// Session-related errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrSessionRevoked  = errors.New("session has been revoked")

	// Task-related errors
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskTitleRequired    = errors.New("task title is required")
	ErrTaskAccessDenied     = errors.New("task access denied")
	ErrAssigneeNotFound     = errors.New("assignee not found")
	ErrAssigneeOtherDept    = errors.New("assignee belongs to another department")
	ErrTaskAlreadyCompleted = errors.New("task is already completed")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")

	// Ticket-related errors
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketClosed          = errors.New("ticket is closed")
	ErrTicketAccessDenied    = errors.New("ticket access denied")
	ErrTicketTitleRequired   = errors.New("ticket title is required")
	ErrTicketContentRequired = errors.New("ticket content is required")

	// Comment-related errors
	ErrCommentContentRequired = errors.New("comment content is required")

	// Notification-related errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Report-related errors
	ErrReportNotFound     = errors.New("report not found")
	ErrInvalidReportRange = errors.New("report from-date cannot be after to-date")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsDepartmentNotFound(err error) bool {
	return errors.Is(err, ErrDepartmentNotFound)
}

func IsDepartmentInactive(err error) bool {
	return errors.Is(err, ErrDepartmentInactive)
}

func IsDepartmentNameExists(err error) bool {
	return errors.Is(err, ErrDepartmentNameExists)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsSessionRevoked(err error) bool {
	return errors.Is(err, ErrSessionRevoked)
}

func IsTaskNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}

func IsTaskAccessDenied(err error) bool {
	return errors.Is(err, ErrTaskAccessDenied)
}

func IsAssigneeNotFound(err error) bool {
	return errors.Is(err, ErrAssigneeNotFound)
}

func IsTaskAlreadyCompleted(err error) bool {
	return errors.Is(err, ErrTaskAlreadyCompleted)
}

func IsTicketNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}

func IsTicketClosed(err error) bool {
	return errors.Is(err, ErrTicketClosed)
}

func IsTicketAccessDenied(err error) bool {
	return errors.Is(err, ErrTicketAccessDenied)
}

func IsNotificationNotFound(err error) bool {
	return errors.Is(err, ErrNotificationNotFound)
}

func IsReportNotFound(err error) bool {
	return errors.Is(err, ErrReportNotFound)
}

func IsInvalidReportRange(err error) bool {
	return errors.Is(err, ErrInvalidReportRange)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
