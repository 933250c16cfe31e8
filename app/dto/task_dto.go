package dto

// CreateTaskRequest represents the payload for creating a task
type CreateTaskRequest struct {
	CreatorID   string  `json:"-"`
	Title       string  `json:"title" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"required,max=5000"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	AssigneeID  *string `json:"assignee_id,omitempty" validate:"omitempty,len=18"`
	DueAt       *string `json:"due_at,omitempty" validate:"omitempty"`
}

// CreateTaskResponse represents the result of creating a task
type CreateTaskResponse struct {
	Message string  `json:"message"`
	Task    TaskDTO `json:"task"`
}

// AssignTaskRequest represents the payload for assigning a task
type AssignTaskRequest struct {
	ActorID    string `json:"-"`
	TaskID     string `json:"task_id" validate:"required,len=18"`
	AssigneeID string `json:"assignee_id" validate:"required,len=18"`
}

// AssignTaskResponse represents the result of assigning a task
type AssignTaskResponse struct {
	Message string  `json:"message"`
	Task    TaskDTO `json:"task"`
}

// CompleteTaskRequest represents the payload for completing a task
type CompleteTaskRequest struct {
	ActorID string `json:"-"`
	TaskID  string `json:"task_id" validate:"required,len=18"`
}

// CompleteTaskResponse represents the result of completing a task
type CompleteTaskResponse struct {
	Message string  `json:"message"`
	Task    TaskDTO `json:"task"`
}

// ListTasksRequest represents the query for listing tasks
type ListTasksRequest struct {
	ActorID    string  `json:"-"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=open in_progress done cancelled"`
	AssigneeID *string `json:"assignee_id,omitempty" validate:"omitempty,len=18"`
	Page       int     `json:"page" validate:"omitempty,gte=1"`
	PageSize   int     `json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListTasksResponse represents a page of tasks
type ListTasksResponse struct {
	Message    string        `json:"message"`
	Tasks      []TaskDTO     `json:"tasks"`
	Pagination PaginationDTO `json:"pagination"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           string  `json:"id"`
	DepartmentID string  `json:"department_id"`
	CreatorID    string  `json:"creator_id"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	DueAt        *string `json:"due_at,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
