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

func TestCreateTicketFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Billing")
		require.NoError(t, err)
		requester, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			resp, err := env.ticketFlow.CreateTicket(ctx, &dto.CreateTicketRequest{
				RequesterID:  requester.ID,
				DepartmentID: dept.ID,
				Title:        "Invoice is wrong",
				Content:      "I was charged twice in April.",
			}, testMetadata())
			require.NoError(t, err)

			assert.Regexp(t, `^TKT-\d{8}-\d{5}$`, resp.Ticket.ID)
			assert.Equal(t, models.TicketStatusOpen, resp.Ticket.Status)
			assert.NotEmpty(t, resp.Ticket.CorrelationID)
			assert.Empty(t, resp.Ticket.Files)
		})

		t.Run("InactiveDepartment", func(t *testing.T) {
			closed, err := env.fixtures.CreateTestDepartment("Closed Desk")
			require.NoError(t, err)
			closed.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(closed).Error)

			_, err = env.ticketFlow.CreateTicket(ctx, &dto.CreateTicketRequest{
				RequesterID:  requester.ID,
				DepartmentID: closed.ID,
				Title:        "Anyone there?",
				Content:      "This desk is gone.",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsDepartmentInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAddCommentFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Support")
		require.NoError(t, err)
		otherDept, err := env.fixtures.CreateTestDepartment("Sales")
		require.NoError(t, err)
		requester, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		staff, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleManager)
		require.NoError(t, err)
		outsider, err := env.fixtures.CreateTestUser(otherDept.ID, models.UserRoleMember)
		require.NoError(t, err)
		ticket, err := env.fixtures.CreateTestTicket(dept.ID, requester.ID)
		require.NoError(t, err)

		t.Run("RequesterCommentKeepsStatus", func(t *testing.T) {
			resp, err := env.ticketFlow.AddComment(ctx, &dto.AddCommentRequest{
				AuthorID: requester.ID,
				TicketID: ticket.ID,
				Content:  "Any update on this?",
			}, testMetadata())
			require.NoError(t, err)
			assert.Regexp(t, `^CMT-\d{8}-\d{5}$`, resp.Comment.ID)
			assert.False(t, utils.IsTrue(resp.Comment.IsStaff))

			found, err := env.ticketRepo.ByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.Equal(t, models.TicketStatusOpen, found.Status)
		})

		t.Run("StaffReplyAnswersTicket", func(t *testing.T) {
			resp, err := env.ticketFlow.AddComment(ctx, &dto.AddCommentRequest{
				AuthorID: staff.ID,
				TicketID: ticket.ID,
				Content:  "Refund issued, please verify.",
			}, testMetadata())
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(resp.Comment.IsStaff))

			found, err := env.ticketRepo.ByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.Equal(t, models.TicketStatusAnswered, found.Status)

			// Requester is told about the reply
			kind := models.NotificationKindTicketReply
			notifications, err := env.notificationRepo.ByFilter(ctx, models.NotificationFilter{
				RecipientID: &requester.ID,
				Kind:        &kind,
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, notifications, 1)
		})

		t.Run("OutsiderDenied", func(t *testing.T) {
			_, err := env.ticketFlow.AddComment(ctx, &dto.AddCommentRequest{
				AuthorID: outsider.ID,
				TicketID: ticket.ID,
				Content:  "Let me in.",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsTicketAccessDenied(err))
		})

		t.Run("ClosedTicketRejects", func(t *testing.T) {
			_, err := env.ticketFlow.CloseTicket(ctx, &dto.CloseTicketRequest{
				ActorID:  requester.ID,
				TicketID: ticket.ID,
			}, testMetadata())
			require.NoError(t, err)

			_, err = env.ticketFlow.AddComment(ctx, &dto.AddCommentRequest{
				AuthorID: requester.ID,
				TicketID: ticket.ID,
				Content:  "One more thing...",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsTicketClosed(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAttachFileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Support")
		require.NoError(t, err)
		requester, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		ticket, err := env.fixtures.CreateTestTicket(dept.ID, requester.ID)
		require.NoError(t, err)

		resp, err := env.ticketFlow.AttachFile(ctx, &dto.AttachFileRequest{
			UploaderID: requester.ID,
			TicketID:   ticket.ID,
			FileName:   "screenshot.png",
			StoredPath: "data/uploads/tickets/2025-04-13/abc.png",
			MimeType:   "image/png",
			Size:       2048,
		}, testMetadata())
		require.NoError(t, err)
		assert.Regexp(t, `^FIL-\d{8}-\d{5}$`, resp.Attachment.ID)

		// Attachment row and the ticket's file list commit together
		found, err := env.ticketRepo.ByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"data/uploads/tickets/2025-04-13/abc.png"}, []string(found.Files))

		return nil
	})
	require.NoError(t, err)
}

func TestListTicketsFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Support")
		require.NoError(t, err)
		alice, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		bob, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)
		staff, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleManager)
		require.NoError(t, err)

		_, err = env.fixtures.CreateTestTicket(dept.ID, alice.ID)
		require.NoError(t, err)
		_, err = env.fixtures.CreateTestTicket(dept.ID, bob.ID)
		require.NoError(t, err)

		t.Run("MemberSeesOwnOnly", func(t *testing.T) {
			resp, err := env.ticketFlow.ListTickets(ctx, &dto.ListTicketsRequest{ActorID: alice.ID})
			require.NoError(t, err)
			require.Len(t, resp.Tickets, 1)
			assert.Equal(t, alice.ID, resp.Tickets[0].RequesterID)
		})

		t.Run("StaffSeesDepartmentQueue", func(t *testing.T) {
			resp, err := env.ticketFlow.ListTickets(ctx, &dto.ListTicketsRequest{ActorID: staff.ID})
			require.NoError(t, err)
			assert.Len(t, resp.Tickets, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
