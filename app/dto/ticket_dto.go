package dto

// CreateTicketRequest represents the payload for creating a ticket
type CreateTicketRequest struct {
	RequesterID  string `json:"-"`
	DepartmentID string `json:"department_id" validate:"required,len=18"`
	Title        string `json:"title" validate:"required,min=2,max=255"`
	Content      string `json:"content" validate:"required,max=10000"`
}

// CreateTicketResponse represents the result of creating a ticket
type CreateTicketResponse struct {
	Message string    `json:"message"`
	Ticket  TicketDTO `json:"ticket"`
}

// AddCommentRequest represents the payload for commenting on a ticket
type AddCommentRequest struct {
	AuthorID string `json:"-"`
	TicketID string `json:"ticket_id" validate:"required,len=18"`
	Content  string `json:"content" validate:"required,max=10000"`
}

// AddCommentResponse represents the result of commenting on a ticket
type AddCommentResponse struct {
	Message string     `json:"message"`
	Comment CommentDTO `json:"comment"`
}

// AttachFileRequest represents the payload for attaching a file to a ticket
type AttachFileRequest struct {
	UploaderID string `json:"-"`
	TicketID   string `json:"ticket_id" validate:"required,len=18"`
	FileName   string `json:"file_name" validate:"required,max=255"`
	StoredPath string `json:"stored_path" validate:"required,max=512"`
	MimeType   string `json:"mime_type" validate:"required,max=100"`
	Size       int64  `json:"size" validate:"required,gte=1"`
}

// AttachFileResponse represents the result of attaching a file
type AttachFileResponse struct {
	Message    string        `json:"message"`
	Attachment AttachmentDTO `json:"attachment"`
}

// CloseTicketRequest represents the payload for closing a ticket
type CloseTicketRequest struct {
	ActorID  string `json:"-"`
	TicketID string `json:"ticket_id" validate:"required,len=18"`
}

// CloseTicketResponse represents the result of closing a ticket
type CloseTicketResponse struct {
	Message string    `json:"message"`
	Ticket  TicketDTO `json:"ticket"`
}

// ListTicketsRequest represents the query for listing tickets
type ListTicketsRequest struct {
	ActorID  string  `json:"-"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=open answered closed"`
	Page     int     `json:"page" validate:"omitempty,gte=1"`
	PageSize int     `json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListTicketsResponse represents a page of tickets
type ListTicketsResponse struct {
	Message    string        `json:"message"`
	Tickets    []TicketDTO   `json:"tickets"`
	Pagination PaginationDTO `json:"pagination"`
}

// TicketDTO represents a ticket in API responses
type TicketDTO struct {
	ID            string   `json:"id"`
	CorrelationID string   `json:"correlation_id"`
	RequesterID   string   `json:"requester_id"`
	DepartmentID  string   `json:"department_id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Status        string   `json:"status"`
	Files         []string `json:"files"`
	CreatedAt     string   `json:"created_at"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	IsStaff   *bool  `json:"is_staff,omitempty"`
	CreatedAt string `json:"created_at"`
}

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	FileName   string `json:"file_name"`
	StoredPath string `json:"stored_path"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	CreatedAt  string `json:"created_at"`
}
