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

// ReportHandlerInterface defines the contract for report handlers
type ReportHandlerInterface interface {
	Generate(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// ReportHandler handles issuance-report HTTP requests
type ReportHandler struct {
	flow      businessflow.ReportFlow
	validator *validator.Validate
}

// NewReportHandler creates a new report handler
func NewReportHandler(flow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ReportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ReportHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Generate builds an issuance-volume workbook for a date range
func (h *ReportHandler) Generate(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.GenerateReportRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.RequesterID = userID

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.GenerateReport(h.createRequestContext(c, "/api/v1/reports"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidReportRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "from_date cannot be after to_date", "INVALID_REPORT_RANGE", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "REPORT_ACCESS_DENIED":
				return h.ErrorResponse(c, fiber.StatusForbidden, "Only managers and admins may generate reports", be.Code, nil)
			case "INVALID_DATE":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Dates must be YYYYMMDD", be.Code, be.Error())
			case "ID_ALLOCATION_FAILED":
				return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation failed", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", "GENERATE_REPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Report generated successfully", result)
}

// List returns a page of the requester's reports
func (h *ReportHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := &dto.ListReportsRequest{
		RequesterID: userID,
		Page:        queryInt(c, "page"),
		PageSize:    queryInt(c, "page_size"),
	}

	result, err := h.flow.ListReports(h.createRequestContext(c, "/api/v1/reports"), req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list reports", "LIST_REPORTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reports retrieved successfully", result)
}

func (h *ReportHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return buildRequestContext(c, endpoint, 30*time.Second)
}
