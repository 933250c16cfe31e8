package businessflow_test

import (
	"time"

	"github.com/taskdesk/taskdesk/app/services"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
	"github.com/taskdesk/taskdesk/repository"
	testingutil "github.com/taskdesk/taskdesk/testing"
)

// testEnv bundles the flows under test with the repositories backing them,
// all sharing one test database.
type testEnv struct {
	fixtures *testingutil.TestFixtures

	userRepo         repository.UserRepository
	sessionRepo      repository.UserSessionRepository
	taskRepo         repository.TaskRepository
	ticketRepo       repository.TicketRepository
	commentRepo      repository.CommentRepository
	notificationRepo repository.NotificationRepository
	reportRepo       repository.ReportRepository
	counterRepo      repository.SequenceCounterRepository

	authFlow         businessflow.AuthFlow
	departmentFlow   businessflow.DepartmentFlow
	taskFlow         businessflow.TaskFlow
	ticketFlow       businessflow.TicketFlow
	notificationFlow businessflow.NotificationFlow

	newReportFlow func(outputDir string) businessflow.ReportFlow
}

const testJWTSecret = "test-secret-key-at-least-32-chars-long!!"

func newTestEnv(testDB *testingutil.TestDB) (*testEnv, error) {
	db := testDB.DB

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	counterRepo := repository.NewSequenceCounterRepository(db)

	idGen := services.NewIDGenerator(counterRepo, time.UTC, 3, time.Millisecond)

	tokenService, err := services.NewTokenService(time.Hour, 24*time.Hour, "taskdesk-test", "taskdesk-test-api", testJWTSecret)
	if err != nil {
		return nil, err
	}

	notifier := services.NewNotificationService(idGen, notificationRepo)

	return &testEnv{
		fixtures:         testingutil.NewTestFixtures(testDB),
		userRepo:         userRepo,
		sessionRepo:      sessionRepo,
		taskRepo:         taskRepo,
		ticketRepo:       ticketRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
		reportRepo:       reportRepo,
		counterRepo:      counterRepo,
		authFlow:         businessflow.NewAuthFlow(db, userRepo, sessionRepo, departmentRepo, idGen, tokenService, nil),
		departmentFlow:   businessflow.NewDepartmentFlow(departmentRepo, idGen),
		taskFlow:         businessflow.NewTaskFlow(taskRepo, userRepo, idGen, notifier),
		ticketFlow:       businessflow.NewTicketFlow(db, ticketRepo, commentRepo, attachmentRepo, userRepo, departmentRepo, idGen, notifier),
		notificationFlow: businessflow.NewNotificationFlow(notificationRepo, userRepo),
		newReportFlow: func(outputDir string) businessflow.ReportFlow {
			return businessflow.NewReportFlow(reportRepo, counterRepo, userRepo, idGen, outputDir)
		},
	}, nil
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("203.0.113.10", "go-test")
}
