package dto

// ListNotificationsRequest represents the query for listing notifications
type ListNotificationsRequest struct {
	RecipientID string `json:"-"`
	UnreadOnly  bool   `json:"unread_only"`
	Page        int    `json:"page" validate:"omitempty,gte=1"`
	PageSize    int    `json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListNotificationsResponse represents a page of notifications
type ListNotificationsResponse struct {
	Message       string            `json:"message"`
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	Pagination    PaginationDTO     `json:"pagination"`
}

// MarkNotificationReadRequest represents the payload for marking a notification read
type MarkNotificationReadRequest struct {
	RecipientID    string `json:"-"`
	NotificationID string `json:"notification_id" validate:"required,len=18"`
}

// MarkNotificationReadResponse represents the result of marking a notification read
type MarkNotificationReadResponse struct {
	Message string `json:"message"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Message   string  `json:"message"`
	EntityID  *string `json:"entity_id,omitempty"`
	IsRead    *bool   `json:"is_read,omitempty"`
	CreatedAt string  `json:"created_at"`
}
