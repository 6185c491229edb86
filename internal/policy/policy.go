package policy

import "github.com/spec-kit/complaint-service/internal/domain"

// Action enumerates operations gated by the access policy.
type Action string

const (
	ActionCreate         Action = "create"
	ActionList           Action = "list"
	ActionView           Action = "view"
	ActionUpdateStatus   Action = "update_status"
	ActionUpdatePriority Action = "update_priority"
	ActionComment        Action = "comment"
	ActionArchive        Action = "archive"
	ActionViewStats      Action = "view_stats"
)

// Allows decides whether the actor may perform the action. For per-entity
// actions (view, comment) the complaint must be supplied; for the rest it
// may be nil. The function is pure and performs no I/O.
func Allows(actor *domain.Actor, action Action, complaint *domain.Complaint) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAgent:
		// Agents may do everything except file complaints.
		return action != ActionCreate
	case domain.RoleCustomer:
		switch action {
		case ActionCreate, ActionList, ActionViewStats:
			return true
		case ActionView, ActionComment:
			return complaint != nil && complaint.CustomerID == actor.ID
		}
	}
	return false
}

// Scope returns the customer id listing and stats queries must be
// restricted to, or nil when the actor sees everything.
func Scope(actor *domain.Actor) *string {
	if actor != nil && actor.Role == domain.RoleCustomer {
		id := actor.ID
		return &id
	}
	return nil
}
