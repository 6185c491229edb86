package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// fakeComplaintRepo is an in-memory ComplaintRepository with the same
// observable behavior as the Postgres implementation.
type fakeComplaintRepo struct {
	complaints map[string]*domain.Complaint
	nextID     int
	failWith   error
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[string]*domain.Complaint)}
}

func (f *fakeComplaintRepo) genID() string {
	f.nextID++
	return fmt.Sprintf("row-%04d", f.nextID)
}

func (f *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	if f.failWith != nil {
		return f.failWith
	}
	complaint.ID = f.genID()
	now := time.Now()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	for i := range complaint.StatusHistory {
		complaint.StatusHistory[i].ID = f.genID()
		complaint.StatusHistory[i].ComplaintID = complaint.ID
		complaint.StatusHistory[i].ChangedAt = now
	}
	stored := *complaint
	stored.StatusHistory = append([]domain.StatusEntry{}, complaint.StatusHistory...)
	f.complaints[complaint.ID] = &stored
	return nil
}

func (f *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	stored, ok := f.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	copied.StatusHistory = append([]domain.StatusEntry{}, stored.StatusHistory...)
	copied.Comments = append([]domain.Comment{}, stored.Comments...)
	return &copied, nil
}

func (f *fakeComplaintRepo) LatestComplaintID(_ context.Context, prefix string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	latest := ""
	for _, c := range f.complaints {
		if strings.HasPrefix(c.ComplaintID, prefix) && c.ComplaintID > latest {
			latest = c.ComplaintID
		}
	}
	return latest, nil
}

func (f *fakeComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, int, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	var matched []domain.Complaint
	for _, c := range f.complaints {
		if c.IsArchived {
			continue
		}
		if filter.CustomerID != nil && c.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			if needle != "" &&
				!strings.Contains(strings.ToLower(c.Subject), needle) &&
				!strings.Contains(strings.ToLower(c.Description), needle) &&
				!strings.Contains(strings.ToLower(c.ComplaintID), needle) {
				continue
			}
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ComplaintID < matched[j].ComplaintID
	})

	total := len(matched)
	offset := filter.Offset
	if offset > total {
		offset = total
	}
	end := offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeComplaintRepo) SetStatus(_ context.Context, id string, status domain.ComplaintStatus, entry *domain.StatusEntry) error {
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	entry.ID = f.genID()
	entry.ComplaintID = id
	entry.ChangedAt = time.Now()
	stored.Status = status
	stored.StatusHistory = append(stored.StatusHistory, *entry)
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeComplaintRepo) SetPriority(_ context.Context, id string, priority domain.ComplaintPriority) error {
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Priority = priority
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeComplaintRepo) AddComment(_ context.Context, id string, comment *domain.Comment) error {
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	comment.ID = f.genID()
	comment.ComplaintID = id
	comment.CreatedAt = time.Now()
	stored.Comments = append(stored.Comments, *comment)
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeComplaintRepo) Archive(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.IsArchived = true
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeComplaintRepo) Stats(_ context.Context, customerID *string) (*domain.ComplaintStats, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var stats domain.ComplaintStats
	for _, c := range f.complaints {
		if c.IsArchived {
			continue
		}
		if customerID != nil && c.CustomerID != *customerID {
			continue
		}
		stats.Total++
		switch c.Status {
		case domain.StatusSubmitted:
			stats.Submitted++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusResolved:
			stats.Resolved++
		case domain.StatusClosed:
			stats.Closed++
		}
		if c.Priority == domain.PriorityCritical {
			stats.Critical++
		}
	}
	return &stats, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%04d", len(f.users)+1)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) SetNotificationToken(_ context.Context, id, token string) error {
	stored, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.NotificationToken = token
	return nil
}

// capturingDispatcher records published events.
type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) ofType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range d.published {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
