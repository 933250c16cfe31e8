package dto

// GenerateReportRequest represents the payload for generating an issuance report
type GenerateReportRequest struct {
	RequesterID string `json:"-"`
	FromDate    string `json:"from_date" validate:"required,len=8,numeric"`
	ToDate      string `json:"to_date" validate:"required,len=8,numeric"`
}

// GenerateReportResponse represents the result of generating a report
type GenerateReportResponse struct {
	Message string    `json:"message"`
	Report  ReportDTO `json:"report"`
}

// ListReportsRequest represents the query for listing reports
type ListReportsRequest struct {
	RequesterID string `json:"-"`
	Page        int    `json:"page" validate:"omitempty,gte=1"`
	PageSize    int    `json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListReportsResponse represents a page of reports
type ListReportsResponse struct {
	Message    string        `json:"message"`
	Reports    []ReportDTO   `json:"reports"`
	Pagination PaginationDTO `json:"pagination"`
}

// ReportDTO represents a generated report in API responses
type ReportDTO struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	FilePath  string `json:"file_path"`
	CreatedAt string `json:"created_at"`
}
