package dto

import "github.com/kyra/interntrack/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"student123"`
	Role     string `json:"role" binding:"required,role" example:"Student"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"3600"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID           int64   `json:"id" example:"1"`
	Name         string  `json:"name" example:"Alice"`
	Email        string  `json:"email" example:"student@example.com"`
	Role         string  `json:"role" example:"Student"`
	Mobile       *string `json:"mobile,omitempty"`
	Organization *string `json:"org,omitempty"`
}

// NewUserResponse converts a user model
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		Mobile:       u.Mobile,
		Organization: u.Organization,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *UserResponse `json:"user"`
}
