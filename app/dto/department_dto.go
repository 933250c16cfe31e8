package dto

// CreateDepartmentRequest represents the payload for creating a department
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// CreateDepartmentResponse represents the result of creating a department
type CreateDepartmentResponse struct {
	Message    string        `json:"message"`
	Department DepartmentDTO `json:"department"`
}

// ListDepartmentsRequest represents the query for listing departments
type ListDepartmentsRequest struct {
	Page     int `json:"page" validate:"omitempty,gte=1"`
	PageSize int `json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListDepartmentsResponse represents a page of departments
type ListDepartmentsResponse struct {
	Message     string          `json:"message"`
	Departments []DepartmentDTO `json:"departments"`
	Pagination  PaginationDTO   `json:"pagination"`
}

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
