package businessflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/app/dto"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
	"github.com/taskdesk/taskdesk/models"
	testingutil "github.com/taskdesk/taskdesk/testing"
	"github.com/taskdesk/taskdesk/utils"
)

func TestNotificationFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)
		recipient, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		other, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)

		var first *models.Notification
		for i := 0; i < 3; i++ {
			n := &models.Notification{
				ID:          env.fixtures.NextID(models.PrefixNotification),
				RecipientID: recipient.ID,
				Kind:        models.NotificationKindTaskAssigned,
				Message:     "You have been assigned a task",
				IsRead:      utils.ToPtr(false),
			}
			require.NoError(t, env.notificationRepo.Save(ctx, n))
			if first == nil {
				first = n
			}
		}

		t.Run("List", func(t *testing.T) {
			resp, err := env.notificationFlow.ListNotifications(ctx, &dto.ListNotificationsRequest{
				RecipientID: recipient.ID,
			})
			require.NoError(t, err)
			assert.Len(t, resp.Notifications, 3)
			assert.Equal(t, int64(3), resp.UnreadCount)
		})

		t.Run("MarkRead", func(t *testing.T) {
			_, err := env.notificationFlow.MarkRead(ctx, &dto.MarkNotificationReadRequest{
				RecipientID:    recipient.ID,
				NotificationID: first.ID,
			})
			require.NoError(t, err)

			resp, err := env.notificationFlow.ListNotifications(ctx, &dto.ListNotificationsRequest{
				RecipientID: recipient.ID,
				UnreadOnly:  true,
			})
			require.NoError(t, err)
			assert.Len(t, resp.Notifications, 2)
			assert.Equal(t, int64(2), resp.UnreadCount)
		})

		t.Run("MarkReadIdempotent", func(t *testing.T) {
			_, err := env.notificationFlow.MarkRead(ctx, &dto.MarkNotificationReadRequest{
				RecipientID:    recipient.ID,
				NotificationID: first.ID,
			})
			require.NoError(t, err)
		})

		t.Run("ForeignNotificationHidden", func(t *testing.T) {
			// Another user's notification is indistinguishable from a
			// missing one
			_, err := env.notificationFlow.MarkRead(ctx, &dto.MarkNotificationReadRequest{
				RecipientID:    other.ID,
				NotificationID: first.ID,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsNotificationNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
