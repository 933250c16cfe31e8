// Package testing provides test utilities and database setup for testing the ticketing system
package testing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB  *TestDB
	seq atomic.Int64
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// NextID hands out a well-formed identifier without touching the allocator,
// so fixture rows never consume sequence numbers the test under observation
// might assert on.
func (tf *TestFixtures) NextID(prefix string) string {
	n := tf.seq.Add(1)
	return fmt.Sprintf("%s-%s-%05d", prefix, utils.DateStamp(utils.UTCNow()), n)
}

// CreateTestDepartment creates an active department with a unique name
func (tf *TestFixtures) CreateTestDepartment(name string) (*models.Department, error) {
	desc := "Test department"
	dept := &models.Department{
		ID:          tf.NextID(models.PrefixDepartment),
		Name:        name,
		Description: &desc,
		IsActive:    utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(dept).Error; err != nil {
		return nil, fmt.Errorf("failed to create test department: %w", err)
	}
	return dept, nil
}

// CreateTestUser creates an active user in the given department with the given role
func (tf *TestFixtures) CreateTestUser(departmentID, role string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := tf.NextID(models.PrefixUser)
	user := &models.User{
		ID:           id,
		DepartmentID: departmentID,
		Email:        fmt.Sprintf("%s@example.com", id),
		FullName:     "Test User",
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateInactiveTestUser creates a deactivated user for auth-rejection tests
func (tf *TestFixtures) CreateInactiveTestUser(departmentID string) (*models.User, error) {
	user, err := tf.CreateTestUser(departmentID, models.UserRoleMember)
	if err != nil {
		return nil, err
	}
	user.IsActive = utils.ToPtr(false)
	if err := tf.DB.DB.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate test user: %w", err)
	}
	return user, nil
}

// CreateTestSession creates an active session for the user
func (tf *TestFixtures) CreateTestSession(userID string) (*models.UserSession, error) {
	token := tf.NextID(models.PrefixSession)
	digest := sha256.Sum256([]byte(token))

	session := &models.UserSession{
		ID:               tf.NextID(models.PrefixSession),
		UserID:           userID,
		RefreshTokenHash: hex.EncodeToString(digest[:]),
		IsActive:         utils.ToPtr(true),
		ExpiresAt:        utils.UTCNow().Add(24 * time.Hour),
	}
	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}
	return session, nil
}

// CreateTestTask creates an open task owned by the creator
func (tf *TestFixtures) CreateTestTask(departmentID, creatorID string) (*models.Task, error) {
	task := &models.Task{
		ID:           tf.NextID(models.PrefixTask),
		DepartmentID: departmentID,
		CreatorID:    creatorID,
		Title:        "Test task",
		Description:  "Test task description",
		Status:       models.TaskStatusOpen,
		Priority:     models.TaskPriorityNormal,
	}
	if err := tf.DB.DB.Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create test task: %w", err)
	}
	return task, nil
}

// CreateTestTicket creates an open ticket raised by the requester
func (tf *TestFixtures) CreateTestTicket(departmentID, requesterID string) (*models.Ticket, error) {
	ticket := &models.Ticket{
		ID:           tf.NextID(models.PrefixTicket),
		RequesterID:  requesterID,
		DepartmentID: departmentID,
		Title:        "Test ticket",
		Content:      "Test ticket content",
		Status:       models.TicketStatusOpen,
		Files:        []string{},
	}
	if err := tf.DB.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}
	return ticket, nil
}

// SeedCounter writes a counter row directly, bypassing the allocator
func (tf *TestFixtures) SeedCounter(prefix, date string, sequence int) error {
	counter := &models.SequenceCounter{
		Prefix:   prefix,
		Date:     date,
		Sequence: sequence,
	}
	if err := tf.DB.DB.Create(counter).Error; err != nil {
		return fmt.Errorf("failed to seed counter %s/%s: %w", prefix, date, err)
	}
	return nil
}
