package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/sequence"
)

type capturedPush struct {
	Token        string            `json:"token"`
	Notification map[string]string `json:"notification"`
}

func commentEvent(ownerID, authorID string, authorRole domain.Role) events.Event {
	return events.Event{
		Type:        events.EventCommentAdded,
		ComplaintID: "row-0001",
		Payload: events.CommentAddedPayload{
			CommentID:    "row-0002",
			ComplaintRef: "COMP-2026-0001",
			OwnerID:      ownerID,
			AuthorID:     authorID,
			AuthorRole:   authorRole,
			TextPreview:  "We reviewed your case",
		},
	}
}

func TestNotification_CommentByAgentPushesToOwner(t *testing.T) {
	var received []capturedPush
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var push capturedPush
		require.NoError(t, json.NewDecoder(r.Body).Decode(&push))
		received = append(received, push)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	users := newFakeUserRepo()
	owner := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), owner))
	require.NoError(t, users.SetNotificationToken(context.Background(), owner.ID, "device-token-1"))

	svc := NewNotificationService(nil, users, zap.NewNop(), config.NotificationConfig{WebhookURL: server.URL})
	err := svc.handleCommentAdded(context.Background(), commentEvent(owner.ID, "agent-1", domain.RoleAgent))
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "device-token-1", received[0].Token)
	assert.Equal(t, "New Update on Your Complaint", received[0].Notification["title"])
	assert.Contains(t, received[0].Notification["body"], "COMP-2026-0001")
}

func TestNotification_SelfCommentSkipped(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	users := newFakeUserRepo()
	owner := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), owner))
	require.NoError(t, users.SetNotificationToken(context.Background(), owner.ID, "device-token-1"))

	svc := NewNotificationService(nil, users, zap.NewNop(), config.NotificationConfig{WebhookURL: server.URL})
	err := svc.handleCommentAdded(context.Background(), commentEvent(owner.ID, owner.ID, domain.RoleCustomer))
	require.NoError(t, err)
	assert.Zero(t, requests)
}

func TestNotification_OwnerWithoutTokenSkipped(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	users := newFakeUserRepo()
	owner := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), owner))

	svc := NewNotificationService(nil, users, zap.NewNop(), config.NotificationConfig{WebhookURL: server.URL})
	err := svc.handleCommentAdded(context.Background(), commentEvent(owner.ID, "agent-1", domain.RoleAgent))
	require.NoError(t, err)
	assert.Zero(t, requests)
}

func TestNotification_DeliveryFailureSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	users := newFakeUserRepo()
	owner := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), owner))
	require.NoError(t, users.SetNotificationToken(context.Background(), owner.ID, "device-token-1"))

	svc := NewNotificationService(nil, users, zap.NewNop(), config.NotificationConfig{WebhookURL: server.URL})
	assert.NoError(t, svc.handleCommentAdded(context.Background(), commentEvent(owner.ID, "agent-1", domain.RoleAgent)))
}

func TestNotification_MissingOwnerSwallowed(t *testing.T) {
	svc := NewNotificationService(nil, newFakeUserRepo(), zap.NewNop(), config.NotificationConfig{WebhookURL: "http://localhost:1"})
	assert.NoError(t, svc.handleCommentAdded(context.Background(), commentEvent("ghost", "agent-1", domain.RoleAgent)))
}

// Wired through the dispatcher: an agent comment on a customer complaint
// produces exactly one push.
func TestNotification_EndToEndThroughDispatcher(t *testing.T) {
	var received []capturedPush
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var push capturedPush
		require.NoError(t, json.NewDecoder(r.Body).Decode(&push))
		received = append(received, push)
	}))
	defer server.Close()

	users := newFakeUserRepo()
	owner := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), owner))
	require.NoError(t, users.SetNotificationToken(context.Background(), owner.ID, "device-token-1"))

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, users, zap.NewNop(), config.NotificationConfig{WebhookURL: server.URL}).RegisterHandlers()

	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, sequence.NewSequencer(repo), dispatcher)

	created, err := svc.CreateComplaint(context.Background(), &domain.Actor{ID: owner.ID, Name: owner.Name, Role: domain.RoleCustomer}, validInput())
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), agentActor("agent-1", "Bob"), created.ID, "We reviewed your case")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "device-token-1", received[0].Token)

	// Owner replying to their own complaint stays quiet.
	_, err = svc.AddComment(context.Background(), &domain.Actor{ID: owner.ID, Name: owner.Name, Role: domain.RoleCustomer}, created.ID, "Thanks for the update")
	require.NoError(t, err)
	assert.Len(t, received, 1)
}
