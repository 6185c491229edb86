package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	PolicyNumber string                   `json:"policyNumber"`
	Category     domain.ComplaintCategory `json:"category"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Subject      string                   `json:"subject"`
	Description  string                   `json:"description"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
	Notes  string                 `json:"notes"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.ComplaintPriority `json:"priority"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// StatusEntryResponse is one audit-trail record.
type StatusEntryResponse struct {
	Status        domain.ComplaintStatus `json:"status"`
	ChangedBy     *string                `json:"changedBy,omitempty"`
	ChangedByName string                 `json:"changedByName"`
	ChangedByRole domain.Role            `json:"changedByRole"`
	ChangedAt     time.Time              `json:"changedAt"`
	Notes         string                 `json:"notes,omitempty"`
}

// CommentResponse is one thread comment.
type CommentResponse struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	UserName  string      `json:"userName"`
	UserRole  domain.Role `json:"userRole"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ComplaintResponse provides full complaint info.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	ComplaintID   string                   `json:"complaintId"`
	CustomerID    string                   `json:"customerId"`
	CustomerName  string                   `json:"customerName"`
	PolicyNumber  string                   `json:"policyNumber"`
	Category      domain.ComplaintCategory `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	Status        domain.ComplaintStatus   `json:"status"`
	Subject       string                   `json:"subject"`
	Description   string                   `json:"description"`
	Resolution    string                   `json:"resolution,omitempty"`
	StatusHistory []StatusEntryResponse    `json:"statusHistory"`
	Comments      []CommentResponse        `json:"comments"`
	IsArchived    bool                     `json:"isArchived"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// Pagination describes page metadata for listings.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// ListComplaintsResponse wraps a page of complaints.
type ListComplaintsResponse struct {
	Complaints []ComplaintResponse `json:"complaints"`
	Pagination Pagination          `json:"pagination"`
}

// StatsResponse aggregates complaint counts.
type StatsResponse struct {
	Total      int64 `json:"total"`
	Submitted  int64 `json:"submitted"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Critical   int64 `json:"critical"`
}

// FromComplaint maps the domain aggregate to its response shape.
func FromComplaint(c *domain.Complaint) ComplaintResponse {
	history := make([]StatusEntryResponse, 0, len(c.StatusHistory))
	for _, entry := range c.StatusHistory {
		history = append(history, StatusEntryResponse{
			Status:        entry.Status,
			ChangedBy:     entry.ChangedBy,
			ChangedByName: entry.ChangedByName,
			ChangedByRole: entry.ChangedByRole,
			ChangedAt:     entry.ChangedAt,
			Notes:         entry.Notes,
		})
	}
	comments := make([]CommentResponse, 0, len(c.Comments))
	for _, comment := range c.Comments {
		comments = append(comments, CommentResponse{
			ID:        comment.ID,
			UserID:    comment.UserID,
			UserName:  comment.UserName,
			UserRole:  comment.UserRole,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		})
	}
	return ComplaintResponse{
		ID:            c.ID,
		ComplaintID:   c.ComplaintID,
		CustomerID:    c.CustomerID,
		CustomerName:  c.CustomerName,
		PolicyNumber:  c.PolicyNumber,
		Category:      c.Category,
		Priority:      c.Priority,
		Status:        c.Status,
		Subject:       c.Subject,
		Description:   c.Description,
		Resolution:    c.Resolution,
		StatusHistory: history,
		Comments:      comments,
		IsArchived:    c.IsArchived,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
