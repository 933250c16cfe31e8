package dto

// SignupRequest represents the payload for account registration
type SignupRequest struct {
	Email        string  `json:"email" validate:"required,email,max=255"`
	FullName     string  `json:"full_name" validate:"required,min=2,max=120"`
	Password     string  `json:"password" validate:"required,min=8,max=128"`
	DepartmentID string  `json:"department_id" validate:"required,len=18"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// SignupResponse represents the result of account registration
type SignupResponse struct {
	Message string     `json:"message"`
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// LoginRequest represents the payload for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the result of login
type LoginResponse struct {
	Message string     `json:"message"`
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// LogoutRequest represents the payload for logout
type LogoutRequest struct {
	SessionID string `json:"session_id" validate:"required,len=18"`
}

// LogoutResponse represents the result of logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	IsActive     *bool  `json:"is_active,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// SessionDTO represents an issued session in API responses
type SessionDTO struct {
	SessionID    string `json:"session_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	CreatedAt    string `json:"created_at"`
}
