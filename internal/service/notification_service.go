package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// NotificationService delivers best-effort push notifications for domain
// events. Delivery failures are logged and swallowed; they never affect
// the operation that emitted the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: timeout},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("StatusChanged", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}

// handleCommentAdded pushes to the complaint owner. Owner-authored
// comments produce no notification.
func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	if payload.AuthorID == payload.OwnerID {
		n.logger.Debug("skipping self-comment notification", zap.String("complaint_id", event.ComplaintID))
		return nil
	}

	owner, err := n.users.GetByID(ctx, payload.OwnerID)
	if err != nil {
		n.logger.Warn("notification owner lookup failed", zap.String("complaint_id", event.ComplaintID), zap.Error(err))
		return nil
	}
	if strings.TrimSpace(owner.NotificationToken) == "" {
		return nil
	}

	n.sendPush(ctx, owner.NotificationToken, payload.ComplaintRef)
	return nil
}

func (n *NotificationService) sendPush(ctx context.Context, deviceToken, complaintRef string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}

	message := map[string]any{
		"token": deviceToken,
		"notification": map[string]string{
			"title": "New Update on Your Complaint",
			"body":  fmt.Sprintf("An agent has responded to your complaint %s. Tap to view details.", complaintRef),
		},
	}
	body, err := json.Marshal(message)
	if err != nil {
		n.logger.Warn("notification payload encode failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("notification request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("notification dispatch failed", zap.String("complaint_ref", complaintRef), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("notification dispatch rejected",
			zap.String("complaint_ref", complaintRef),
			zap.Int("status", resp.StatusCode))
		return
	}
	n.logger.Debug("notification sent", zap.String("complaint_ref", complaintRef))
}
