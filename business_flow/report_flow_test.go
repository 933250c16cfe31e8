package businessflow_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/app/dto"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
	"github.com/taskdesk/taskdesk/models"
	testingutil "github.com/taskdesk/taskdesk/testing"
	"github.com/xuri/excelize/v2"
)

func TestGenerateReportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env, err := newTestEnv(testDB)
		require.NoError(t, err)
		ctx := testingutil.CreateTestContext()
		reportFlow := env.newReportFlow(t.TempDir())

		dept, err := env.fixtures.CreateTestDepartment("Ops")
		require.NoError(t, err)
		manager, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleManager)
		require.NoError(t, err)
		member, err := env.fixtures.CreateTestUser(dept.ID, models.UserRoleMember)
		require.NoError(t, err)

		require.NoError(t, env.fixtures.SeedCounter(models.PrefixUser, "20250410", 12))
		require.NoError(t, env.fixtures.SeedCounter(models.PrefixTicket, "20250411", 3))
		require.NoError(t, env.fixtures.SeedCounter(models.PrefixUser, "20250420", 5))

		t.Run("MemberDenied", func(t *testing.T) {
			_, err := reportFlow.GenerateReport(ctx, &dto.GenerateReportRequest{
				RequesterID: member.ID,
				FromDate:    "20250401",
				ToDate:      "20250430",
			}, testMetadata())
			require.Error(t, err)
		})

		t.Run("InvalidDate", func(t *testing.T) {
			_, err := reportFlow.GenerateReport(ctx, &dto.GenerateReportRequest{
				RequesterID: manager.ID,
				FromDate:    "2025-04-01",
				ToDate:      "20250430",
			}, testMetadata())
			require.Error(t, err)
		})

		t.Run("InvertedRange", func(t *testing.T) {
			_, err := reportFlow.GenerateReport(ctx, &dto.GenerateReportRequest{
				RequesterID: manager.ID,
				FromDate:    "20250430",
				ToDate:      "20250401",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidReportRange(err))
		})

		t.Run("Success", func(t *testing.T) {
			resp, err := reportFlow.GenerateReport(ctx, &dto.GenerateReportRequest{
				RequesterID: manager.ID,
				FromDate:    "20250410",
				ToDate:      "20250415",
			}, testMetadata())
			require.NoError(t, err)

			assert.Regexp(t, `^RPT-\d{8}-\d{5}$`, resp.Report.ID)
			assert.Equal(t, "20250410", resp.Report.FromDate)
			assert.Equal(t, "20250415", resp.Report.ToDate)

			// The workbook exists and carries one row per counter in
			// range plus header and total
			info, err := os.Stat(resp.Report.FilePath)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))

			wb, err := excelize.OpenFile(resp.Report.FilePath)
			require.NoError(t, err)
			defer wb.Close()
			rows, err := wb.GetRows("issuance")
			require.NoError(t, err)
			// header + USR/20250410 + TKT/20250411 + total; the
			// 20250420 counter is out of range
			assert.Len(t, rows, 4)
		})

		t.Run("ListReports", func(t *testing.T) {
			resp, err := reportFlow.ListReports(ctx, &dto.ListReportsRequest{
				RequesterID: manager.ID,
			})
			require.NoError(t, err)
			assert.Len(t, resp.Reports, 1)
		})

		return nil
	})
	require.NoError(t, err)
}
