// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/app/dto"
	businessflow "github.com/taskdesk/taskdesk/business_flow"
	"github.com/taskdesk/taskdesk/utils"
)

// TicketHandlerInterface defines the contract for ticket handlers
type TicketHandlerInterface interface {
	Create(c fiber.Ctx) error
	AddComment(c fiber.Ctx) error
	AttachFile(c fiber.Ctx) error
	Close(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// TicketHandler handles ticket-related HTTP requests
type TicketHandler struct {
	flow      businessflow.TicketFlow
	validator *validator.Validate
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(flow businessflow.TicketFlow) *TicketHandler {
	return &TicketHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *TicketHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TicketHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create opens a new support ticket
func (h *TicketHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.CreateTicketRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.RequesterID = userID

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateTicket(h.createRequestContext(c, "/api/v1/tickets"), &req, metadata)
	if err != nil {
		return h.ticketError(c, err, "CREATE_TICKET_FAILED", "Failed to create ticket")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Ticket created successfully", result)
}

// AddComment posts a reply on a ticket
func (h *TicketHandler) AddComment(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.AddCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AuthorID = userID
	if req.TicketID == "" {
		req.TicketID = c.Params("id")
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.AddComment(h.createRequestContext(c, "/api/v1/tickets/comments"), &req, metadata)
	if err != nil {
		return h.ticketError(c, err, "ADD_COMMENT_FAILED", "Failed to add comment")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Comment added successfully", result)
}

// AttachFile uploads a file and links it to a ticket
func (h *TicketHandler) AttachFile(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Multipart form required", "INVALID_REQUEST", nil)
	}

	fileHeader := getFirstFile(form.File["file"])
	if fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "No file provided", "MISSING_FILE", nil)
	}

	storedPath, err := h.saveUploadedFile(fileHeader)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "File upload failed", "FILE_UPLOAD_FAILED", err.Error())
	}

	req := dto.AttachFileRequest{
		UploaderID: userID,
		TicketID:   c.Params("id"),
		FileName:   fileHeader.Filename,
		StoredPath: storedPath,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		Size:       fileHeader.Size,
	}

	if err := h.validator.Struct(&req); err != nil {
		_ = os.Remove(storedPath)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.AttachFile(h.createRequestContext(c, "/api/v1/tickets/files"), &req, metadata)
	if err != nil {
		_ = os.Remove(storedPath)
		return h.ticketError(c, err, "ATTACH_FILE_FAILED", "Failed to attach file")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "File attached successfully", result)
}

// Close marks a ticket closed
func (h *TicketHandler) Close(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.CloseTicketRequest{
		ActorID:  userID,
		TicketID: c.Params("id"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", buildValidationDetails(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CloseTicket(h.createRequestContext(c, "/api/v1/tickets/close"), &req, metadata)
	if err != nil {
		return h.ticketError(c, err, "CLOSE_TICKET_FAILED", "Failed to close ticket")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ticket closed successfully", result)
}

// List returns a page of tickets visible to the authenticated user
func (h *TicketHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := &dto.ListTicketsRequest{
		ActorID:  userID,
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}

	result, err := h.flow.ListTickets(h.createRequestContext(c, "/api/v1/tickets"), req)
	if err != nil {
		return h.ticketError(c, err, "LIST_TICKETS_FAILED", "Failed to list tickets")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tickets retrieved successfully", result)
}

// ticketError maps flow errors onto HTTP responses shared by all ticket endpoints
func (h *TicketHandler) ticketError(c fiber.Ctx, err error, fallbackCode, fallbackMsg string) error {
	switch {
	case businessflow.IsUserNotFound(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
	case businessflow.IsAccountInactive(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
	case businessflow.IsTicketNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
	case businessflow.IsTicketClosed(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Ticket is closed", "TICKET_CLOSED", nil)
	case businessflow.IsTicketAccessDenied(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Ticket access denied", "TICKET_ACCESS_DENIED", nil)
	case businessflow.IsDepartmentNotFound(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Department not found", "DEPARTMENT_NOT_FOUND", nil)
	case businessflow.IsDepartmentInactive(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Department is inactive", "DEPARTMENT_INACTIVE", nil)
	case businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
	}
	if be, ok := err.(*businessflow.BusinessError); ok {
		if be.Code == "ID_ALLOCATION_FAILED" {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation failed", be.Code, nil)
		}
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMsg, fallbackCode, nil)
}

func (h *TicketHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return buildRequestContext(c, endpoint, 30*time.Second)
}

func getFirstFile(files []*multipart.FileHeader) *multipart.FileHeader {
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// saveUploadedFile writes a multipart upload to disk under data/uploads/tickets/YYYY-MM-DD/
func (h *TicketHandler) saveUploadedFile(fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".png", ".pdf", ".docx", ".xlsx", ".zip":
	default:
		return "", fmt.Errorf("invalid file type")
	}
	// 10MB limit
	if fileHeader.Size > 10*1024*1024 {
		return "", fmt.Errorf("file too large")
	}

	dateDir := utils.UTCNow().Format("2006-01-02")
	baseDir := filepath.Join("data", "uploads", "tickets", dateDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	fname := uuid.New().String() + ext
	fullPath := filepath.Join(baseDir, fname)

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return filepath.ToSlash(fullPath), nil
}
