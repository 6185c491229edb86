package dto

import "github.com/spec-kit/complaint-service/internal/domain"

// RegisterRequest payload.
type RegisterRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Phone        string      `json:"phone"`
	Role         domain.Role `json:"role"`
	PolicyNumber string      `json:"policyNumber"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NotificationTokenRequest payload.
type NotificationTokenRequest struct {
	Token string `json:"token"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	PolicyNumber string      `json:"policyNumber,omitempty"`
}

// FromUser maps an account to its response shape.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		PolicyNumber: u.PolicyNumber,
	}
}

// FromActor maps a session actor to the response shape.
func FromActor(a *domain.Actor) UserResponse {
	return UserResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Role:         a.Role,
		PolicyNumber: a.PolicyNumber,
	}
}
