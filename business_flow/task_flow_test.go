package businessflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/app/dto"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
	"github.com/taskdesk/taskdesk/models"
	testingutil "github.com/taskdesk/taskdesk/testing"
)

func TestCreateTaskFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)
		otherDept, err := env.fixtures.CreateTestDepartment("Sales")
		require.NoError(t, err)
		creator, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleManager)
		require.NoError(t, err)
		colleague, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		outsider, err := env.fixtures.CreateTestUser(otherDept.ID, models.UserRoleMember)
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			resp, err := env.taskFlow.CreateTask(ctx, &dto.CreateTaskRequest{
				CreatorID:   creator.ID,
				Title:       "Upgrade database",
				Description: "Move to Postgres 16",
				Priority:    models.TaskPriorityHigh,
			}, testMetadata())
			require.NoError(t, err)

			assert.Regexp(t, `^TSK-\d{8}-\d{5}$`, resp.Task.ID)
			assert.Equal(t, models.TaskStatusOpen, resp.Task.Status)
			assert.Equal(t, dept.ID, resp.Task.DepartmentID)
			assert.Nil(t, resp.Task.AssigneeID)
		})

		t.Run("WithAssigneeNotifies", func(t *testing.T) {
			resp, err := env.taskFlow.CreateTask(ctx, &dto.CreateTaskRequest{
				CreatorID:   creator.ID,
				Title:       "Review PR",
				Description: "Review the storage refactor",
				AssigneeID:  &colleague.ID,
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, resp.Task.AssigneeID)
			assert.Equal(t, colleague.ID, *resp.Task.AssigneeID)

			kind := models.NotificationKindTaskAssigned
			notifications, err := env.notificationRepo.ByFilter(ctx, models.NotificationFilter{
				RecipientID: &colleague.ID,
				Kind:        &kind,
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, notifications, 1)
			require.NotNil(t, notifications[0].EntityID)
			assert.Equal(t, resp.Task.ID, *notifications[0].EntityID)
		})

		t.Run("AssigneeFromOtherDepartment", func(t *testing.T) {
			_, err := env.taskFlow.CreateTask(ctx, &dto.CreateTaskRequest{
				CreatorID:   creator.ID,
				Title:       "Cross-team task",
				Description: "Should not be assignable",
				AssigneeID:  &outsider.ID,
			}, testMetadata())
			require.Error(t, err)
		})

		t.Run("EmptyTitle", func(t *testing.T) {
			_, err := env.taskFlow.CreateTask(ctx, &dto.CreateTaskRequest{
				CreatorID:   creator.ID,
				Title:       "   ",
				Description: "No title",
			}, testMetadata())
			require.Error(t, err)
		})

		t.Run("InvalidDueAt", func(t *testing.T) {
			bad := "next tuesday"
			_, err := env.taskFlow.CreateTask(ctx, &dto.CreateTaskRequest{
				CreatorID:   creator.ID,
				Title:       "Due date test",
				Description: "Bad due date",
				DueAt:       &bad,
			}, testMetadata())
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAssignAndCompleteTaskFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)
		creator, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleManager)
		require.NoError(t, err)
		assignee, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		task, err := env.fixtures.CreateTestTask(dept.ID, creator.ID)
		require.NoError(t, err)

		t.Run("Assign", func(t *testing.T) {
			resp, err := env.taskFlow.AssignTask(ctx, &dto.AssignTaskRequest{
				ActorID:    creator.ID,
				TaskID:     task.ID,
				AssigneeID: assignee.ID,
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, resp.Task.AssigneeID)
			assert.Equal(t, assignee.ID, *resp.Task.AssigneeID)
		})

		t.Run("CompleteByAssignee", func(t *testing.T) {
			resp, err := env.taskFlow.CompleteTask(ctx, &dto.CompleteTaskRequest{
				ActorID: assignee.ID,
				TaskID:  task.ID,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, models.TaskStatusDone, resp.Task.Status)
			assert.NotNil(t, resp.Task.CompletedAt)

			// The creator hears about completion by someone else
			kind := models.NotificationKindTaskCompleted
			notifications, err := env.notificationRepo.ByFilter(ctx, models.NotificationFilter{
				RecipientID: &creator.ID,
				Kind:        &kind,
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, notifications, 1)
		})

		t.Run("CompleteTwice", func(t *testing.T) {
			_, err := env.taskFlow.CompleteTask(ctx, &dto.CompleteTaskRequest{
				ActorID: assignee.ID,
				TaskID:  task.ID,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsTaskAlreadyCompleted(err))
		})

		t.Run("AssignCompletedTask", func(t *testing.T) {
			_, err := env.taskFlow.AssignTask(ctx, &dto.AssignTaskRequest{
				ActorID:    creator.ID,
				TaskID:     task.ID,
				AssigneeID: assignee.ID,
			}, testMetadata())
			require.Error(t, err)
		})

		t.Run("UnknownTask", func(t *testing.T) {
			_, err := env.taskFlow.CompleteTask(ctx, &dto.CompleteTaskRequest{
				ActorID: creator.ID,
				TaskID:  "TSK-20250413-99998",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsTaskNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListTasksFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)
		otherDept, err := env.fixtures.CreateTestDepartment("Sales")
		require.NoError(t, err)
		member, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		outsider, err := env.fixtures.CreateTestUser(otherDept.ID, models.UserRoleMember)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := env.fixtures.CreateTestTask(dept.ID, member.ID)
			require.NoError(t, err)
		}
		_, err = env.fixtures.CreateTestTask(otherDept.ID, outsider.ID)
		require.NoError(t, err)

		t.Run("ScopedToDepartment", func(t *testing.T) {
			resp, err := env.taskFlow.ListTasks(ctx, &dto.ListTasksRequest{ActorID: member.ID})
			require.NoError(t, err)
			assert.Len(t, resp.Tasks, 3)
			assert.Equal(t, int64(3), resp.Pagination.Total)
		})

		t.Run("StatusFilter", func(t *testing.T) {
			status := models.TaskStatusDone
			resp, err := env.taskFlow.ListTasks(ctx, &dto.ListTasksRequest{
				ActorID: member.ID,
				Status:  &status,
			})
			require.NoError(t, err)
			assert.Empty(t, resp.Tasks)
		})

		t.Run("Pagination", func(t *testing.T) {
			resp, err := env.taskFlow.ListTasks(ctx, &dto.ListTasksRequest{
				ActorID:  member.ID,
				Page:     2,
				PageSize: 2,
			})
			require.NoError(t, err)
			assert.Len(t, resp.Tasks, 1)
			assert.Equal(t, 2, resp.Pagination.Page)
		})

		t.Run("PageSizeTooLarge", func(t *testing.T) {
			_, err := env.taskFlow.ListTasks(ctx, &dto.ListTasksRequest{
				ActorID:  member.ID,
				PageSize: 500,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		return nil
	})
	require.NoError(t, err)
}
