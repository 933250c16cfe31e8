package businessflow

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/app/dto"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	"github.com/taskdesk/taskdesk/utils"
)

// NotificationFlow defines operations for reading in-app notifications
type NotificationFlow interface {
	ListNotifications(ctx context.Context, req *dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, req *dto.MarkNotificationReadRequest) (*dto.MarkNotificationReadResponse, error)
}

// NotificationFlowImpl implements NotificationFlow
type NotificationFlowImpl struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationFlow(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) NotificationFlow {
	return &NotificationFlowImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (f *NotificationFlowImpl) ListNotifications(ctx context.Context, req *dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error) {
	recipient, err := getUser(ctx, f.userRepo, req.RecipientID)
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

	filter := models.NotificationFilter{RecipientID: &recipient.ID}
	if req.UnreadOnly {
		filter.IsRead = utils.ToPtr(false)
	}

	rows, err := f.notificationRepo.ByFilter(ctx, filter, "id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Failed to list notifications", err)
	}

	total, err := f.notificationRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_COUNT_FAILED", "Failed to count notifications", err)
	}

	unread, err := f.notificationRepo.CountUnread(ctx, recipient.ID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_COUNT_FAILED", "Failed to count unread notifications", err)
	}

	out := make([]dto.NotificationDTO, 0, len(rows))
	for _, n := range rows {
		out = append(out, toNotificationDTO(*n))
	}

	return &dto.ListNotificationsResponse{
		Message:       "Notifications retrieved successfully",
		Notifications: out,
		UnreadCount:   unread,
		Pagination:    dto.PaginationDTO{Page: page, PageSize: pageSize, Total: total},
	}, nil
}

func (f *NotificationFlowImpl) MarkRead(ctx context.Context, req *dto.MarkNotificationReadRequest) (*dto.MarkNotificationReadResponse, error) {
	recipient, err := getUser(ctx, f.userRepo, req.RecipientID)
	if err != nil {
		return nil, err
	}

	notification, err := f.notificationRepo.ByID(ctx, req.NotificationID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to look up notification", err)
	}
	if notification == nil || notification.RecipientID != recipient.ID {
		return nil, ErrNotificationNotFound
	}

	if !utils.IsTrue(notification.IsRead) {
		if err := f.notificationRepo.MarkRead(ctx, notification.ID, utils.UTCNow()); err != nil {
			return nil, NewBusinessError("NOTIFICATION_UPDATE_FAILED", "Failed to mark notification read", err)
		}
	}

	return &dto.MarkNotificationReadResponse{Message: "Notification marked as read"}, nil
}

func toNotificationDTO(n models.Notification) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:        n.ID,
		Kind:      n.Kind,
		Message:   n.Message,
		EntityID:  n.EntityID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
