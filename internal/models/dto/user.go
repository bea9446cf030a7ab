package dto

import "github.com/pharmvigil/medreport-be/internal/models"

type CreateUserRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

// UpdateUserRequest carries partial fields; empty strings leave the stored
// value unchanged.
type UpdateUserRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

type UserResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

type UsersResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Users   []models.User `json:"users"`
}

// DeletedUserResponse mirrors the delete contract: an empty user object.
type DeletedUserResponse struct {
	Success bool     `json:"success"`
	User    struct{} `json:"user"`
}
