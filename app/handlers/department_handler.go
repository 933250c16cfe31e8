// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/taskdesk/taskdesk/app/dto"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
)

// DepartmentHandlerInterface defines the contract for department handlers
type DepartmentHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// DepartmentHandler handles department-related HTTP requests
type DepartmentHandler struct {
	flow      businessflow.DepartmentFlow
	validator *validator.Validate
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(flow businessflow.DepartmentFlow) *DepartmentHandler {
	return &DepartmentHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *DepartmentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DepartmentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create registers a new department
func (h *DepartmentHandler) Create(c fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateDepartment(h.createRequestContext(c, "/api/v1/departments"), &req, metadata)
	if err != nil {
		if businessflow.IsDepartmentNameExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Department name already exists", "DEPARTMENT_NAME_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create department", "CREATE_DEPARTMENT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Department created successfully", result)
}

// List returns a page of departments
func (h *DepartmentHandler) List(c fiber.Ctx) error {
	req := &dto.ListDepartmentsRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	result, err := h.flow.ListDepartments(h.createRequestContext(c, "/api/v1/departments"), req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list departments", "LIST_DEPARTMENTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Departments retrieved successfully", result)
}

func (h *DepartmentHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return buildRequestContext(c, endpoint, 30*time.Second)
}

// queryInt reads an integer query parameter, zero when absent or malformed
func queryInt(c fiber.Ctx, key string) int {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
