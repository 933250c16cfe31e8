package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	testingutil "github.com/taskdesk/taskdesk/testing"
	"github.com/taskdesk/taskdesk/utils"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		dept, err := fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.Email, found.Email)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, "USR-20250413-99998")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByEmail", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("ByFilterDepartment", func(t *testing.T) {
			users, err := repo.ByFilter(ctx, models.UserFilter{DepartmentID: &dept.ID}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})

		t.Run("UpdateLastLogin", func(t *testing.T) {
			at := utils.UTCNow()
			require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found.LastLoginAt)
			assert.WithinDuration(t, at, *found.LastLoginAt, 0)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTaskRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTaskRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		dept, err := fixtures.CreateTestDepartment("Support")
		require.NoError(t, err)
		creator, err := fixtures.CreateTestUser(dept.ID, models.UserRoleManager)
		require.NoError(t, err)
		assignee, err := fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		task, err := fixtures.CreateTestTask(dept.ID, creator.ID)
		require.NoError(t, err)

		t.Run("Assign", func(t *testing.T) {
			require.NoError(t, repo.Assign(ctx, task.ID, assignee.ID))

			found, err := repo.ByID(ctx, task.ID)
			require.NoError(t, err)
			require.NotNil(t, found.AssigneeID)
			assert.Equal(t, assignee.ID, *found.AssigneeID)
			assert.Equal(t, models.TaskStatusOpen, found.Status)
		})

		t.Run("UpdateStatusDone", func(t *testing.T) {
			now := utils.UTCNow()
			require.NoError(t, repo.UpdateStatus(ctx, task.ID, models.TaskStatusDone, &now))

			found, err := repo.ByID(ctx, task.ID)
			require.NoError(t, err)
			assert.Equal(t, models.TaskStatusDone, found.Status)
			require.NotNil(t, found.CompletedAt)
		})

		t.Run("ByFilterStatus", func(t *testing.T) {
			status := models.TaskStatusDone
			tasks, err := repo.ByFilter(ctx, models.TaskFilter{
				DepartmentID: &dept.ID,
				Status:       &status,
			}, "id DESC", 0, 0)
			require.NoError(t, err)
			assert.Len(t, tasks, 1)
		})

		t.Run("Count", func(t *testing.T) {
			count, err := repo.Count(ctx, models.TaskFilter{DepartmentID: &dept.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTicketRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTicketRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		dept, err := fixtures.CreateTestDepartment("Billing")
		require.NoError(t, err)
		requester, err := fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		ticket, err := fixtures.CreateTestTicket(dept.ID, requester.ID)
		require.NoError(t, err)

		t.Run("CorrelationIDAssigned", func(t *testing.T) {
			found, err := repo.ByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", found.CorrelationID.String())
		})

		t.Run("AppendFile", func(t *testing.T) {
			require.NoError(t, repo.AppendFile(ctx, ticket.ID, "data/uploads/tickets/a.pdf"))
			require.NoError(t, repo.AppendFile(ctx, ticket.ID, "data/uploads/tickets/b.pdf"))

			found, err := repo.ByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"data/uploads/tickets/a.pdf", "data/uploads/tickets/b.pdf"}, []string(found.Files))
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			require.NoError(t, repo.UpdateStatus(ctx, ticket.ID, models.TicketStatusAnswered))

			found, err := repo.ByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.Equal(t, models.TicketStatusAnswered, found.Status)
		})

		t.Run("ByFilterRequester", func(t *testing.T) {
			tickets, err := repo.ByFilter(ctx, models.TicketFilter{RequesterID: &requester.ID}, "id DESC", 0, 0)
			require.NoError(t, err)
			assert.Len(t, tickets, 1)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNotificationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewNotificationRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		dept, err := fixtures.CreateTestDepartment("Ops")
		require.NoError(t, err)
		recipient, err := fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)

		notification := &models.Notification{
			ID:          fixtures.NextID(models.PrefixNotification),
			RecipientID: recipient.ID,
			Kind:        models.NotificationKindTaskAssigned,
			Message:     "You have been assigned a task",
			IsRead:      utils.ToPtr(false),
		}
		require.NoError(t, repo.Save(ctx, notification))

		t.Run("CountUnread", func(t *testing.T) {
			count, err := repo.CountUnread(ctx, recipient.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("MarkRead", func(t *testing.T) {
			at := utils.UTCNow()
			require.NoError(t, repo.MarkRead(ctx, notification.ID, at))

			found, err := repo.ByID(ctx, notification.ID)
			require.NoError(t, err)
			require.NotNil(t, found.IsRead)
			assert.True(t, *found.IsRead)
			require.NotNil(t, found.ReadAt)

			count, err := repo.CountUnread(ctx, recipient.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		return nil
	})
	require.NoError(t, err)
}
