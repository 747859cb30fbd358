package dto

import "shop_backend/internal/models"

// RegisterRequest is the registration body.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
}

// LoginRequest is bound from query parameters.
type LoginRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// ForgotPasswordRequest carries the email and the replacement password.
type ForgotPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SendMailRequest is bound from query parameters.
type SendMailRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Fullname string `form:"fullname" binding:"required"`
}

// UserDTO is the safe projection of a user embedded in responses and
// session tokens. It never includes the password hash.
type UserDTO struct {
	ID        uint            `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Gender    string          `json:"gender"`
	Role      models.UserRole `json:"role"`
}

// AuthResponse is returned by login and keep-login.
type AuthResponse struct {
	Success bool    `json:"success"`
	Result  UserDTO `json:"result"`
	Token   string  `json:"token"`
}

// MessageResponse is the plain acknowledgement shape.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserListResponse is the admin listing shape.
type UserListResponse struct {
	Success bool          `json:"success"`
	Total   int64         `json:"total"`
	Users   []models.User `json:"users"`
}

// NewUserDTO builds the projection from a user record.
func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Gender:    user.Gender,
		Role:      user.Role,
	}
}
