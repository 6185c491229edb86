package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/sequence"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const (
	subjectMinLen     = 5
	subjectMaxLen     = 200
	descriptionMinLen = 10
	descriptionMaxLen = 2000
	commentMaxLen     = 1000
)

// ComplaintService coordinates the complaint lifecycle under the access
// policy. Every operation takes the request-scoped actor explicitly.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	sequencer  *sequence.Sequencer
	dispatcher events.Dispatcher
}

// NewComplaintService constructs the service.
func NewComplaintService(complaints repository.ComplaintRepository, sequencer *sequence.Sequencer, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		sequencer:  sequencer,
		dispatcher: dispatcher,
	}
}

// CreateInput describes complaint creation payload.
type CreateInput struct {
	PolicyNumber string
	Category     domain.ComplaintCategory
	Priority     domain.ComplaintPriority
	Subject      string
	Description  string
}

// ListInput describes listing filters and pagination.
type ListInput struct {
	Status    *domain.ComplaintStatus
	Priority  *domain.ComplaintPriority
	Category  *domain.ComplaintCategory
	Search    *string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ListResult bundles a page of complaints with pagination metadata.
type ListResult struct {
	Complaints []domain.Complaint
	Page       int
	Limit      int
	Total      int
}

// CreateComplaint files a new complaint on behalf of the acting customer.
// Validation is rejected before any write; the initial history entry is
// persisted together with the complaint.
func (s *ComplaintService) CreateComplaint(ctx context.Context, actor *domain.Actor, input CreateInput) (*domain.Complaint, error) {
	if !policy.Allows(actor, policy.ActionCreate, nil) {
		return nil, apperrors.NewForbidden("customer role required")
	}
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	complaintID, err := s.sequencer.Next(ctx)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, apperrors.NewDependencyError("complaint store", err)
	}

	actorID := actor.ID
	complaint := &domain.Complaint{
		ComplaintID:  complaintID,
		CustomerID:   actor.ID,
		CustomerName: actor.Name,
		PolicyNumber: input.PolicyNumber,
		Category:     input.Category,
		Priority:     input.Priority,
		Status:       domain.StatusSubmitted,
		Subject:      strings.TrimSpace(input.Subject),
		Description:  strings.TrimSpace(input.Description),
		StatusHistory: []domain.StatusEntry{{
			Status:        domain.StatusSubmitted,
			ChangedBy:     &actorID,
			ChangedByName: actor.Name,
			ChangedByRole: actor.Role,
			Notes:         "Complaint submitted",
		}},
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		if apperrors.IsUniqueViolation(err) {
			// Two concurrent creations computed the same sequence number;
			// the caller retries.
			return nil, apperrors.NewConflict("complaint id already assigned, retry creation", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintCreatedPayload{
			ComplaintRef: complaint.ComplaintID,
			Category:     complaint.Category,
			Priority:     complaint.Priority,
			Subject:      complaint.Subject,
		},
	})
	return complaint, nil
}

// ListComplaints returns a page of non-archived complaints scoped per the
// access policy.
func (s *ComplaintService) ListComplaints(ctx context.Context, actor *domain.Actor, input ListInput) (*ListResult, error) {
	if !policy.Allows(actor, policy.ActionList, nil) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if err := validateListInput(&input); err != nil {
		return nil, err
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	filter := repository.ComplaintFilter{
		CustomerID: policy.Scope(actor),
		Status:     input.Status,
		Priority:   input.Priority,
		Category:   input.Category,
		Search:     input.Search,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	complaints, total, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ListResult{
		Complaints: complaints,
		Page:       page,
		Limit:      limit,
		Total:      total,
	}, nil
}

// GetComplaint fetches a single complaint with its history and comments.
func (s *ComplaintService) GetComplaint(ctx context.Context, actor *domain.Actor, id string) (*domain.Complaint, error) {
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.ActionView, complaint) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return complaint, nil
}

// UpdateStatus sets the complaint status and appends an audit entry. Any
// status may follow any other; re-applying the current status is allowed
// and still recorded.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, newStatus domain.ComplaintStatus, notes string) (*domain.Complaint, error) {
	if !policy.Allows(actor, policy.ActionUpdateStatus, nil) {
		return nil, apperrors.NewForbidden("agent role required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}

	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	actorID := actor.ID
	entry := domain.StatusEntry{
		Status:        newStatus,
		ChangedBy:     &actorID,
		ChangedByName: actor.Name,
		ChangedByRole: actor.Role,
		Notes:         notes,
	}
	if err := s.complaints.SetStatus(ctx, complaint.ID, newStatus, &entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Notes:     notes,
		},
	})
	return s.fetch(ctx, complaint.ID)
}

// UpdatePriority sets the complaint priority.
func (s *ComplaintService) UpdatePriority(ctx context.Context, actor *domain.Actor, id string, newPriority domain.ComplaintPriority) (*domain.Complaint, error) {
	if !policy.Allows(actor, policy.ActionUpdatePriority, nil) {
		return nil, apperrors.NewForbidden("agent role required")
	}
	if !newPriority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": newPriority})
	}

	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPriority := complaint.Priority
	if err := s.complaints.SetPriority(ctx, complaint.ID, newPriority); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventPriorityChanged,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.PriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return s.fetch(ctx, complaint.ID)
}

// AddComment appends a comment to a complaint the actor may view. The
// comment is the effect of record; notification delivery is best-effort
// behind the dispatcher and never rolls the comment back.
func (s *ComplaintService) AddComment(ctx context.Context, actor *domain.Actor, id, text string) (*domain.Complaint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}
	if len(text) > commentMaxLen {
		return nil, apperrors.NewValidationError("comment text too long", map[string]any{"max": commentMaxLen})
	}

	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.ActionComment, complaint) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := domain.Comment{
		UserID:   actor.ID,
		UserName: actor.Name,
		UserRole: actor.Role,
		Text:     text,
	}
	if err := s.complaints.AddComment(ctx, complaint.ID, &comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventCommentAdded,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.CommentAddedPayload{
			CommentID:    comment.ID,
			ComplaintRef: complaint.ComplaintID,
			OwnerID:      complaint.CustomerID,
			AuthorID:     actor.ID,
			AuthorRole:   actor.Role,
			TextPreview:  textPreview(text, 120),
		},
	})
	return s.fetch(ctx, complaint.ID)
}

// ArchiveComplaint soft-deletes a complaint. There is no unarchive.
func (s *ComplaintService) ArchiveComplaint(ctx context.Context, actor *domain.Actor, id string) (*domain.Complaint, error) {
	if !policy.Allows(actor, policy.ActionArchive, nil) {
		return nil, apperrors.NewForbidden("agent role required")
	}

	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.complaints.Archive(ctx, complaint.ID); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintArchived,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintArchivedPayload{
			ComplaintRef: complaint.ComplaintID,
		},
	})
	return s.fetch(ctx, complaint.ID)
}

// GetStats aggregates counts over non-archived complaints, scoped per the
// access policy.
func (s *ComplaintService) GetStats(ctx context.Context, actor *domain.Actor) (*domain.ComplaintStats, error) {
	if !policy.Allows(actor, policy.ActionViewStats, nil) {
		return nil, apperrors.NewForbidden("access denied")
	}
	stats, err := s.complaints.Stats(ctx, policy.Scope(actor))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *ComplaintService) fetch(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint")
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func validateCreateInput(input *CreateInput) error {
	input.PolicyNumber = strings.TrimSpace(input.PolicyNumber)
	if input.PolicyNumber == "" {
		return apperrors.NewValidationError("policy number is required", nil)
	}
	if !input.Category.Valid() {
		return apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if !input.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	subject := strings.TrimSpace(input.Subject)
	if len(subject) < subjectMinLen {
		return apperrors.NewValidationError("subject too short", map[string]any{"min": subjectMinLen})
	}
	if len(subject) > subjectMaxLen {
		return apperrors.NewValidationError("subject too long", map[string]any{"max": subjectMaxLen})
	}
	description := strings.TrimSpace(input.Description)
	if len(description) < descriptionMinLen {
		return apperrors.NewValidationError("description too short", map[string]any{"min": descriptionMinLen})
	}
	if len(description) > descriptionMaxLen {
		return apperrors.NewValidationError("description too long", map[string]any{"max": descriptionMaxLen})
	}
	return nil
}

func validateListInput(input *ListInput) error {
	if input.Status != nil && !input.Status.Valid() {
		return apperrors.NewValidationError("invalid status filter", nil)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority filter", nil)
	}
	if input.Category != nil && !input.Category.Valid() {
		return apperrors.NewValidationError("invalid category filter", nil)
	}
	return nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor *domain.Actor) events.Actor {
	return events.Actor{
		ID:   actor.ID,
		Name: actor.Name,
		Role: actor.Role,
	}
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
