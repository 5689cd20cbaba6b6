package dto

// RegisterRequest describes the account creation payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents an account in API responses.
type UserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token,omitempty"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
