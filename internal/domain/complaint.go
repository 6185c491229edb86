package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusSubmitted  ComplaintStatus = "Submitted"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
)

// Valid reports whether the status is a member of the closed set.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "Low"
	PriorityMedium   ComplaintPriority = "Medium"
	PriorityHigh     ComplaintPriority = "High"
	PriorityCritical ComplaintPriority = "Critical"
)

// Valid reports whether the priority is a member of the closed set.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ComplaintCategory enumerates complaint subject areas.
type ComplaintCategory string

const (
	CategoryClaims          ComplaintCategory = "Claims"
	CategoryPolicyIssues    ComplaintCategory = "Policy Issues"
	CategoryBilling         ComplaintCategory = "Billing"
	CategoryCustomerService ComplaintCategory = "Customer Service"
	CategoryOther           ComplaintCategory = "Other"
)

// Valid reports whether the category is a member of the closed set.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryClaims, CategoryPolicyIssues, CategoryBilling, CategoryCustomerService, CategoryOther:
		return true
	}
	return false
}

// StatusEntry is an immutable audit record of a status transition.
// Name and role are captured at the time of the change so the trail
// survives later profile edits.
type StatusEntry struct {
	ID            string
	ComplaintID   string
	Status        ComplaintStatus
	ChangedBy     *string
	ChangedByName string
	ChangedByRole Role
	ChangedAt     time.Time
	Notes         string
}

// Comment is a message on a complaint thread.
type Comment struct {
	ID          string
	ComplaintID string
	UserID      string
	UserName    string
	UserRole    Role
	Text        string
	CreatedAt   time.Time
}

// Complaint is the aggregate for customer-filed support complaints.
type Complaint struct {
	ID            string
	ComplaintID   string
	CustomerID    string
	CustomerName  string
	PolicyNumber  string
	Category      ComplaintCategory
	Priority      ComplaintPriority
	Status        ComplaintStatus
	Subject       string
	Description   string
	Resolution    string
	StatusHistory []StatusEntry
	Comments      []Comment
	IsArchived    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComplaintStats aggregates counts over non-archived complaints.
type ComplaintStats struct {
	Total      int64
	Submitted  int64
	InProgress int64
	Resolved   int64
	Closed     int64
	Critical   int64
}
