package domain

import "time"

// Role differentiates customers from support agents.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAgent
}

// User is the account model for customers and agents.
type User struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	PasswordHash      string
	Role              Role
	PolicyNumber      string
	NotificationToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Actor is the request-scoped identity resolved from a session or token.
// It is passed explicitly into every service call.
type Actor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PolicyNumber string `json:"policyNumber,omitempty"`
}

// ActorFromUser snapshots the fields services need from an account.
func ActorFromUser(u *User) *Actor {
	return &Actor{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		PolicyNumber: u.PolicyNumber,
	}
}
