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

func TestSignupFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			resp, err := env.authFlow.Signup(ctx, &dto.SignupRequest{
				Email:        "Alice@Example.com",
				FullName:     "Alice Smith",
				Password:     "Sup3rSecret!",
				DepartmentID: dept.ID,
			}, testMetadata())
			require.NoError(t, err)

			assert.Regexp(t, `^USR-\d{8}-\d{5}$`, resp.User.ID)
			assert.Regexp(t, `^SES-\d{8}-\d{5}$`, resp.Session.SessionID)
			// Email is normalized before storage
			assert.Equal(t, "alice@example.com", resp.User.Email)
			assert.Equal(t, models.UserRoleMember, resp.User.Role)
			assert.NotEmpty(t, resp.Session.AccessToken)
			assert.NotEmpty(t, resp.Session.RefreshToken)

			// The hash is durable, the password is not
			user, err := env.userRepo.ByID(ctx, resp.User.ID)
			require.NoError(t, err)
			assert.NotEqual(t, "Sup3rSecret!", user.PasswordHash)
			assert.NotEmpty(t, user.PasswordHash)
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			_, err := env.authFlow.Signup(ctx, &dto.SignupRequest{
				Email:        "alice@example.com",
				FullName:     "Alice Again",
				Password:     "An0therSecret!",
				DepartmentID: dept.ID,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("UnknownDepartment", func(t *testing.T) {
			_, err := env.authFlow.Signup(ctx, &dto.SignupRequest{
				Email:        "bob@example.com",
				FullName:     "Bob Jones",
				Password:     "Sup3rSecret!",
				DepartmentID: "DEP-20250413-99998",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsDepartmentNotFound(err))
		})

		t.Run("InactiveDepartment", func(t *testing.T) {
			closed, err := env.fixtures.CreateTestDepartment("Decommissioned")
			require.NoError(t, err)
			closed.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(closed).Error)

			_, err = env.authFlow.Signup(ctx, &dto.SignupRequest{
				Email:        "carol@example.com",
				FullName:     "Carol White",
				Password:     "Sup3rSecret!",
				DepartmentID: closed.ID,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsDepartmentInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Support")
		require.NoError(t, err)
		signup, err := env.authFlow.Signup(ctx, &dto.SignupRequest{
			Email:        "dave@example.com",
			FullName:     "Dave Green",
			Password:     "Sup3rSecret!",
			DepartmentID: dept.ID,
		}, testMetadata())
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			resp, err := env.authFlow.Login(ctx, &dto.LoginRequest{
				Email:    "DAVE@example.com",
				Password: "Sup3rSecret!",
			}, testMetadata())
			require.NoError(t, err)

			assert.Equal(t, signup.User.ID, resp.User.ID)
			// Every login mints a fresh session
			assert.NotEqual(t, signup.Session.SessionID, resp.Session.SessionID)
			assert.NotEmpty(t, resp.Session.AccessToken)

			user, err := env.userRepo.ByID(ctx, signup.User.ID)
			require.NoError(t, err)
			assert.NotNil(t, user.LastLoginAt)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := env.authFlow.Login(ctx, &dto.LoginRequest{
				Email:    "dave@example.com",
				Password: "wrong-password",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("UnknownEmail", func(t *testing.T) {
			_, err := env.authFlow.Login(ctx, &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "Sup3rSecret!",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			inactive, err := env.fixtures.CreateInactiveTestUser(dept.ID)
			require.NoError(t, err)

			_, err = env.authFlow.Login(ctx, &dto.LoginRequest{
				Email:    inactive.Email,
				Password: "TestPass123!",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLogoutFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()

		dept, err := env.fixtures.CreateTestDepartment("Engineering")
		require.NoError(t, err)
		signup, err := env.authFlow.Signup(ctx, &dto.SignupRequest{
			Email:        "erin@example.com",
			FullName:     "Erin Black",
			Password:     "Sup3rSecret!",
			DepartmentID: dept.ID,
		}, testMetadata())
		require.NoError(t, err)

		t.Run("OtherUsersSessionRejected", func(t *testing.T) {
			stranger, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
			require.NoError(t, err)

			_, err = env.authFlow.Logout(ctx, &dto.LogoutRequest{
				SessionID: signup.Session.SessionID,
			}, stranger.ID)
			require.Error(t, err)
		})

		t.Run("Success", func(t *testing.T) {
			resp, err := env.authFlow.Logout(ctx, &dto.LogoutRequest{
				SessionID: signup.Session.SessionID,
			}, signup.User.ID)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Message)

			session, err := env.sessionRepo.ByID(ctx, signup.Session.SessionID)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(session.IsActive))
		})

		t.Run("UnknownSession", func(t *testing.T) {
			_, err := env.authFlow.Logout(ctx, &dto.LogoutRequest{
				SessionID: "SES-20250413-99998",
			}, signup.User.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
