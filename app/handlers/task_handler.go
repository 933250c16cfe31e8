// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/taskdesk/taskdesk/app/dto"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
)

// TaskHandlerInterface defines the contract for task handlers
type TaskHandlerInterface interface {
	Create(c fiber.Ctx) error
	Assign(c fiber.Ctx) error
	Complete(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	flow      businessflow.TaskFlow
	validator *validator.Validate
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(flow businessflow.TaskFlow) *TaskHandler {
	return &TaskHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *TaskHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TaskHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create opens a new task for the authenticated user's department
func (h *TaskHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.CreateTaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.CreatorID = userID

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateTask(h.createRequestContext(c, "/api/v1/tasks"), &req, metadata)
	if err != nil {
		return h.taskError(c, err, "CREATE_TASK_FAILED", "Failed to create task")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Task created successfully", result)
}

// Assign hands a task to a department colleague
func (h *TaskHandler) Assign(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.AssignTaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ActorID = userID
	if req.TaskID == "" {
		req.TaskID = c.Params("id")
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.AssignTask(h.createRequestContext(c, "/api/v1/tasks/assign"), &req, metadata)
	if err != nil {
		return h.taskError(c, err, "ASSIGN_TASK_FAILED", "Failed to assign task")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Task assigned successfully", result)
}

// Complete marks a task done
func (h *TaskHandler) Complete(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.CompleteTaskRequest{
		ActorID: userID,
		TaskID:  c.Params("id"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CompleteTask(h.createRequestContext(c, "/api/v1/tasks/complete"), &req, metadata)
	if err != nil {
		return h.taskError(c, err, "COMPLETE_TASK_FAILED", "Failed to complete task")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Task completed successfully", result)
}

// List returns a page of the department's tasks
func (h *TaskHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := &dto.ListTasksRequest{
		ActorID:  userID,
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}
	if v := c.Query("assignee_id"); v != "" {
		req.AssigneeID = &v
	}

	result, err := h.flow.ListTasks(h.createRequestContext(c, "/api/v1/tasks"), req)
	if err != nil {
		return h.taskError(c, err, "LIST_TASKS_FAILED", "Failed to list tasks")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tasks retrieved successfully", result)
}

// taskError maps flow errors onto HTTP responses shared by all task endpoints
func (h *TaskHandler) taskError(c fiber.Ctx, err error, fallbackCode, fallbackMsg string) error {
	switch {
	case businessflow.IsUserNotFound(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
	case businessflow.IsAccountInactive(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
	case businessflow.IsTaskNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Task not found", "TASK_NOT_FOUND", nil)
	case businessflow.IsTaskAccessDenied(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Task belongs to another department", "TASK_ACCESS_DENIED", nil)
	case businessflow.IsAssigneeNotFound(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Assignee not found", "ASSIGNEE_NOT_FOUND", nil)
	case businessflow.IsTaskAlreadyCompleted(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Task is already completed", "TASK_ALREADY_COMPLETED", nil)
	case businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
	}
	if be, ok := err.(*businessflow.BusinessError); ok {
		switch be.Code {
		case "INVALID_DUE_AT":
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid due date", be.Code, be.Error())
		case "ID_ALLOCATION_FAILED":
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation failed", be.Code, nil)
		}
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMsg, fallbackCode, nil)
}

func (h *TaskHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return buildRequestContext(c, endpoint, 30*time.Second)
}
