package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated  EventType = "complaint_created"
	EventStatusChanged     EventType = "complaint_status_changed"
	EventPriorityChanged   EventType = "complaint_priority_changed"
	EventCommentAdded      EventType = "complaint_comment_added"
	EventComplaintArchived EventType = "complaint_archived"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ComplaintRef string                   `json:"complaint_ref"`
	Category     domain.ComplaintCategory `json:"category"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Subject      string                   `json:"subject"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Notes     string                 `json:"notes,omitempty"`
}

// PriorityChangedPayload payload.
type PriorityChangedPayload struct {
	OldPriority domain.ComplaintPriority `json:"old_priority"`
	NewPriority domain.ComplaintPriority `json:"new_priority"`
}

// CommentAddedPayload payload. OwnerID lets subscribers decide whether
// the complaint owner should be notified without refetching the complaint.
type CommentAddedPayload struct {
	CommentID    string      `json:"comment_id"`
	ComplaintRef string      `json:"complaint_ref"`
	OwnerID      string      `json:"owner_id"`
	AuthorID     string      `json:"author_id"`
	AuthorRole   domain.Role `json:"author_role"`
	TextPreview  string      `json:"text_preview"`
}

// ComplaintArchivedPayload payload.
type ComplaintArchivedPayload struct {
	ComplaintRef string `json:"complaint_ref"`
}
