package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskdesk/taskdesk/app/dto"
	"github.com/taskdesk/taskdesk/app/services"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	"github.com/taskdesk/taskdesk/utils"
)

// TaskFlow defines operations for creating, assigning and completing tasks
type TaskFlow interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest, metadata *ClientMetadata) (*dto.CreateTaskResponse, error)
	AssignTask(ctx context.Context, req *dto.AssignTaskRequest, metadata *ClientMetadata) (*dto.AssignTaskResponse, error)
	CompleteTask(ctx context.Context, req *dto.CompleteTaskRequest, metadata *ClientMetadata) (*dto.CompleteTaskResponse, error)
	ListTasks(ctx context.Context, req *dto.ListTasksRequest) (*dto.ListTasksResponse, error)
}

// TaskFlowImpl implements TaskFlow
type TaskFlowImpl struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	idGen    services.IDGenerator
	notifier services.NotificationService
}

func NewTaskFlow(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	idGen services.IDGenerator,
	notifier services.NotificationService,
) TaskFlow {
	return &TaskFlowImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
		idGen:    idGen,
		notifier: notifier,
	}
}

func (f *TaskFlowImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest, metadata *ClientMetadata) (*dto.CreateTaskResponse, error) {
	creator, err := getUser(ctx, f.userRepo, req.CreatorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityNormal
	}
	switch priority {
	case models.TaskPriorityLow, models.TaskPriorityNormal, models.TaskPriorityHigh, models.TaskPriorityUrgent:
	default:
		return nil, ErrInvalidTaskPriority
	}

	var assignee *models.User
	if req.AssigneeID != nil {
		assignee, err = f.lookupAssignee(ctx, *req.AssigneeID, creator.DepartmentID)
		if err != nil {
			return nil, err
		}
	}

	var dueAt *time.Time
	if req.DueAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			return nil, NewBusinessError("INVALID_DUE_AT", "due_at must be RFC3339", err)
		}
		dueAt = utils.TimeToUTCPtr(&parsed)
	}

	// ID assigned before the entity is made durable
	id, err := f.idGen.Generate(ctx, models.PrefixTask)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate task ID", err)
	}

	task := models.Task{
		ID:           id,
		DepartmentID: creator.DepartmentID,
		CreatorID:    creator.ID,
		AssigneeID:   req.AssigneeID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatusOpen,
		Priority:     priority,
		DueAt:        dueAt,
	}

	if err := f.taskRepo.Save(ctx, &task); err != nil {
		return nil, NewBusinessError("TASK_CREATE_FAILED", "Failed to create task", err)
	}

	// Notify the assignee (best-effort)
	if assignee != nil && f.notifier != nil {
		msg := fmt.Sprintf("Task %s assigned to you: %s", task.ID, truncate(task.Title, 50))
		_ = f.notifier.Notify(ctx, assignee.ID, models.NotificationKindTaskAssigned, msg, &task.ID)
	}

	return &dto.CreateTaskResponse{
		Message: "Task created successfully",
		Task:    toTaskDTO(task),
	}, nil
}

func (f *TaskFlowImpl) AssignTask(ctx context.Context, req *dto.AssignTaskRequest, metadata *ClientMetadata) (*dto.AssignTaskResponse, error) {
	actor, err := getUser(ctx, f.userRepo, req.ActorID)
	if err != nil {
		return nil, err
	}

	task, err := f.taskRepo.ByID(ctx, req.TaskID)
	if err != nil {
		return nil, NewBusinessError("TASK_LOOKUP_FAILED", "Failed to look up task", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.DepartmentID != actor.DepartmentID {
		return nil, ErrTaskAccessDenied
	}
	if task.Status == models.TaskStatusDone {
		return nil, ErrTaskAlreadyCompleted
	}

	assignee, err := f.lookupAssignee(ctx, req.AssigneeID, task.DepartmentID)
	if err != nil {
		return nil, err
	}

	if err := f.taskRepo.Assign(ctx, task.ID, assignee.ID); err != nil {
		return nil, NewBusinessError("TASK_ASSIGN_FAILED", "Failed to assign task", err)
	}
	task.AssigneeID = &assignee.ID

	if f.notifier != nil {
		msg := fmt.Sprintf("Task %s assigned to you: %s", task.ID, truncate(task.Title, 50))
		_ = f.notifier.Notify(ctx, assignee.ID, models.NotificationKindTaskAssigned, msg, &task.ID)
	}

	return &dto.AssignTaskResponse{
		Message: "Task assigned successfully",
		Task:    toTaskDTO(*task),
	}, nil
}

func (f *TaskFlowImpl) CompleteTask(ctx context.Context, req *dto.CompleteTaskRequest, metadata *ClientMetadata) (*dto.CompleteTaskResponse, error) {
	actor, err := getUser(ctx, f.userRepo, req.ActorID)
	if err != nil {
		return nil, err
	}

	task, err := f.taskRepo.ByID(ctx, req.TaskID)
	if err != nil {
		return nil, NewBusinessError("TASK_LOOKUP_FAILED", "Failed to look up task", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.DepartmentID != actor.DepartmentID {
		return nil, ErrTaskAccessDenied
	}
	if task.Status == models.TaskStatusDone {
		return nil, ErrTaskAlreadyCompleted
	}

	now := utils.UTCNow()
	if err := f.taskRepo.UpdateStatus(ctx, task.ID, models.TaskStatusDone, &now); err != nil {
		return nil, NewBusinessError("TASK_UPDATE_FAILED", "Failed to complete task", err)
	}
	task.Status = models.TaskStatusDone
	task.CompletedAt = &now

	// Tell the creator their task is done
	if f.notifier != nil && task.CreatorID != actor.ID {
		msg := fmt.Sprintf("Task %s completed by %s", task.ID, actor.FullName)
		_ = f.notifier.Notify(ctx, task.CreatorID, models.NotificationKindTaskCompleted, msg, &task.ID)
	}

	return &dto.CompleteTaskResponse{
		Message: "Task completed successfully",
		Task:    toTaskDTO(*task),
	}, nil
}

func (f *TaskFlowImpl) ListTasks(ctx context.Context, req *dto.ListTasksRequest) (*dto.ListTasksResponse, error) {
	actor, err := getUser(ctx, f.userRepo, req.ActorID)
	if err != nil {
		return nil, err
	}

	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	limit, offset, err := validatePagination(page, pageSize)
	if err != nil {
		return nil, err
	}

	filter := models.TaskFilter{
		DepartmentID: &actor.DepartmentID,
		Status:       req.Status,
		AssigneeID:   req.AssigneeID,
	}

	rows, err := f.taskRepo.ByFilter(ctx, filter, "id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("TASK_LIST_FAILED", "Failed to list tasks", err)
	}

	total, err := f.taskRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("TASK_COUNT_FAILED", "Failed to count tasks", err)
	}

	out := make([]dto.TaskDTO, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTaskDTO(*t))
	}

	return &dto.ListTasksResponse{
		Message:    "Tasks retrieved successfully",
		Tasks:      out,
		Pagination: dto.PaginationDTO{Page: page, PageSize: pageSize, Total: total},
	}, nil
}

// lookupAssignee validates the assignee exists, is active, and shares the department
func (f *TaskFlowImpl) lookupAssignee(ctx context.Context, assigneeID, departmentID string) (*models.User, error) {
	assignee, err := f.userRepo.ByID(ctx, assigneeID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up assignee", err)
	}
	if assignee == nil || !utils.IsTrue(assignee.IsActive) {
		return nil, ErrAssigneeNotFound
	}
	if assignee.DepartmentID != departmentID {
		return nil, ErrAssigneeOtherDept
	}
	return assignee, nil
}

func toTaskDTO(t models.Task) dto.TaskDTO {
	out := dto.TaskDTO{
		ID:           t.ID,
		DepartmentID: t.DepartmentID,
		CreatorID:    t.CreatorID,
		AssigneeID:   t.AssigneeID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
	if t.DueAt != nil {
		out.DueAt = utils.ToPtr(t.DueAt.Format(time.RFC3339))
	}
	if t.CompletedAt != nil {
		out.CompletedAt = utils.ToPtr(t.CompletedAt.Format(time.RFC3339))
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
