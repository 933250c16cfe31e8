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
	"gorm.io/gorm"
)

// TicketFlow defines operations for the support-ticket lifecycle
type TicketFlow interface {
	CreateTicket(ctx context.Context, req *dto.CreateTicketRequest, metadata *ClientMetadata) (*dto.CreateTicketResponse, error)
	AddComment(ctx context.Context, req *dto.AddCommentRequest, metadata *ClientMetadata) (*dto.AddCommentResponse, error)
	AttachFile(ctx context.Context, req *dto.AttachFileRequest, metadata *ClientMetadata) (*dto.AttachFileResponse, error)
	CloseTicket(ctx context.Context, req *dto.CloseTicketRequest, metadata *ClientMetadata) (*dto.CloseTicketResponse, error)
	ListTickets(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error)
}

// TicketFlowImpl implements TicketFlow
type TicketFlowImpl struct {
	db             *gorm.DB
	ticketRepo     repository.TicketRepository
	commentRepo    repository.CommentRepository
	attachmentRepo repository.AttachmentRepository
	userRepo       repository.UserRepository
	deptRepo       repository.DepartmentRepository
	idGen          services.IDGenerator
	notifier       services.NotificationService
}

func NewTicketFlow(
	db *gorm.DB,
	ticketRepo repository.TicketRepository,
	commentRepo repository.CommentRepository,
	attachmentRepo repository.AttachmentRepository,
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	idGen services.IDGenerator,
	notifier services.NotificationService,
) TicketFlow {
	return &TicketFlowImpl{
		db:             db,
		ticketRepo:     ticketRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		userRepo:       userRepo,
		deptRepo:       deptRepo,
		idGen:          idGen,
		notifier:       notifier,
	}
}

func (f *TicketFlowImpl) CreateTicket(ctx context.Context, req *dto.CreateTicketRequest, metadata *ClientMetadata) (*dto.CreateTicketResponse, error) {
	requester, err := getUser(ctx, f.userRepo, req.RequesterID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTicketTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrTicketContentRequired
	}

	dept, err := f.deptRepo.ByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, NewBusinessError("DEPARTMENT_LOOKUP_FAILED", "Failed to look up department", err)
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}
	if !utils.IsTrue(dept.IsActive) {
		return nil, ErrDepartmentInactive
	}

	// ID assigned before the entity is made durable
	id, err := f.idGen.Generate(ctx, models.PrefixTicket)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate ticket ID", err)
	}

	ticket := models.Ticket{
		ID:           id,
		RequesterID:  requester.ID,
		DepartmentID: dept.ID,
		Title:        req.Title,
		Content:      req.Content,
		Status:       models.TicketStatusOpen,
		Files:        []string{},
	}

	if err := f.ticketRepo.Save(ctx, &ticket); err != nil {
		return nil, NewBusinessError("TICKET_CREATE_FAILED", "Failed to create ticket", err)
	}

	return &dto.CreateTicketResponse{
		Message: "Ticket created successfully",
		Ticket:  toTicketDTO(ticket),
	}, nil
}

func (f *TicketFlowImpl) AddComment(ctx context.Context, req *dto.AddCommentRequest, metadata *ClientMetadata) (*dto.AddCommentResponse, error) {
	author, err := getUser(ctx, f.userRepo, req.AuthorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrCommentContentRequired
	}

	ticket, err := f.loadOpenTicket(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}
	if err := f.checkTicketAccess(ticket, author); err != nil {
		return nil, err
	}

	// ID assigned before the entity is made durable
	id, err := f.idGen.Generate(ctx, models.PrefixComment)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate comment ID", err)
	}

	isStaff := author.ID != ticket.RequesterID
	comment := models.Comment{
		ID:       id,
		TicketID: ticket.ID,
		AuthorID: author.ID,
		Content:  req.Content,
		IsStaff:  utils.ToPtr(isStaff),
	}

	// A staff reply flips the ticket to answered; both writes commit together.
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.commentRepo.Save(txCtx, &comment); err != nil {
			return err
		}
		if isStaff && ticket.Status == models.TicketStatusOpen {
			return f.ticketRepo.UpdateStatus(txCtx, ticket.ID, models.TicketStatusAnswered)
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("COMMENT_CREATE_FAILED", "Failed to add comment", err)
	}

	// Tell the requester their ticket got a reply (best-effort)
	if isStaff && f.notifier != nil {
		msg := fmt.Sprintf("New reply on ticket %s", ticket.ID)
		_ = f.notifier.Notify(ctx, ticket.RequesterID, models.NotificationKindTicketReply, msg, &ticket.ID)
	}

	return &dto.AddCommentResponse{
		Message: "Comment added successfully",
		Comment: toCommentDTO(comment),
	}, nil
}

func (f *TicketFlowImpl) AttachFile(ctx context.Context, req *dto.AttachFileRequest, metadata *ClientMetadata) (*dto.AttachFileResponse, error) {
	uploader, err := getUser(ctx, f.userRepo, req.UploaderID)
	if err != nil {
		return nil, err
	}

	ticket, err := f.loadOpenTicket(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}
	if err := f.checkTicketAccess(ticket, uploader); err != nil {
		return nil, err
	}

	// ID assigned before the entity is made durable
	id, err := f.idGen.Generate(ctx, models.PrefixAttachment)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate attachment ID", err)
	}

	attachment := models.Attachment{
		ID:         id,
		TicketID:   ticket.ID,
		UploaderID: uploader.ID,
		FileName:   req.FileName,
		StoredPath: req.StoredPath,
		MimeType:   req.MimeType,
		Size:       req.Size,
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.attachmentRepo.Save(txCtx, &attachment); err != nil {
			return err
		}
		return f.ticketRepo.AppendFile(txCtx, ticket.ID, attachment.StoredPath)
	})
	if err != nil {
		return nil, NewBusinessError("ATTACHMENT_CREATE_FAILED", "Failed to attach file", err)
	}

	return &dto.AttachFileResponse{
		Message:    "File attached successfully",
		Attachment: toAttachmentDTO(attachment),
	}, nil
}

func (f *TicketFlowImpl) CloseTicket(ctx context.Context, req *dto.CloseTicketRequest, metadata *ClientMetadata) (*dto.CloseTicketResponse, error) {
	actor, err := getUser(ctx, f.userRepo, req.ActorID)
	if err != nil {
		return nil, err
	}

	ticket, err := f.ticketRepo.ByID(ctx, req.TicketID)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to look up ticket", err)
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if err := f.checkTicketAccess(ticket, actor); err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, ErrTicketClosed
	}

	if err := f.ticketRepo.UpdateStatus(ctx, ticket.ID, models.TicketStatusClosed); err != nil {
		return nil, NewBusinessError("TICKET_UPDATE_FAILED", "Failed to close ticket", err)
	}
	ticket.Status = models.TicketStatusClosed

	return &dto.CloseTicketResponse{
		Message: "Ticket closed successfully",
		Ticket:  toTicketDTO(*ticket),
	}, nil
}

func (f *TicketFlowImpl) ListTickets(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error) {
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

	filter := models.TicketFilter{Status: req.Status}
	// Members only see their own tickets; managers and admins see the
	// whole department queue.
	if actor.Role == models.UserRoleMember {
		filter.RequesterID = &actor.ID
	} else {
		filter.DepartmentID = &actor.DepartmentID
	}

	rows, err := f.ticketRepo.ByFilter(ctx, filter, "id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("TICKET_LIST_FAILED", "Failed to list tickets", err)
	}

	total, err := f.ticketRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("TICKET_COUNT_FAILED", "Failed to count tickets", err)
	}

	out := make([]dto.TicketDTO, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTicketDTO(*t))
	}

	return &dto.ListTicketsResponse{
		Message:    "Tickets retrieved successfully",
		Tickets:    out,
		Pagination: dto.PaginationDTO{Page: page, PageSize: pageSize, Total: total},
	}, nil
}

// loadOpenTicket fetches a ticket that is still accepting replies
func (f *TicketFlowImpl) loadOpenTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ticket, err := f.ticketRepo.ByID(ctx, ticketID)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to look up ticket", err)
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, ErrTicketClosed
	}
	return ticket, nil
}

// checkTicketAccess allows the requester plus same-department staff
func (f *TicketFlowImpl) checkTicketAccess(ticket *models.Ticket, user *models.User) error {
	if user.ID == ticket.RequesterID {
		return nil
	}
	if user.DepartmentID == ticket.DepartmentID && user.Role != models.UserRoleMember {
		return nil
	}
	return ErrTicketAccessDenied
}

func toTicketDTO(t models.Ticket) dto.TicketDTO {
	return dto.TicketDTO{
		ID:            t.ID,
		CorrelationID: t.CorrelationID.String(),
		RequesterID:   t.RequesterID,
		DepartmentID:  t.DepartmentID,
		Title:         t.Title,
		Content:       t.Content,
		Status:        t.Status,
		Files:         t.Files,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTO(c models.Comment) dto.CommentDTO {
	return dto.CommentDTO{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		IsStaff:   c.IsStaff,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toAttachmentDTO(a models.Attachment) dto.AttachmentDTO {
	return dto.AttachmentDTO{
		ID:         a.ID,
		TicketID:   a.TicketID,
		FileName:   a.FileName,
		StoredPath: a.StoredPath,
		MimeType:   a.MimeType,
		Size:       a.Size,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
