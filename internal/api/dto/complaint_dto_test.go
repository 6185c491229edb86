package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestFromComplaint(t *testing.T) {
	changedBy := "cust-1"
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	complaint := &domain.Complaint{
		ID:           "row-0001",
		ComplaintID:  "COMP-2026-0001",
		CustomerID:   "cust-1",
		CustomerName: "Alice",
		PolicyNumber: "POL-1001",
		Category:     domain.CategoryBilling,
		Priority:     domain.PriorityHigh,
		Status:       domain.StatusInProgress,
		Subject:      "Double charge on premium",
		Description:  "I was charged twice for my July premium payment.",
		StatusHistory: []domain.StatusEntry{
			{Status: domain.StatusSubmitted, ChangedBy: &changedBy, ChangedByName: "Alice", ChangedByRole: domain.RoleCustomer, ChangedAt: now, Notes: "Complaint submitted"},
			{Status: domain.StatusInProgress, ChangedByName: "Bob", ChangedByRole: domain.RoleAgent, ChangedAt: now, Notes: "Investigating"},
		},
		Comments: []domain.Comment{
			{ID: "row-0002", UserID: "agent-1", UserName: "Bob", UserRole: domain.RoleAgent, Text: "Looking into it", CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := FromComplaint(complaint)

	assert.Equal(t, "COMP-2026-0001", resp.ComplaintID)
	require.Len(t, resp.StatusHistory, 2)
	assert.Equal(t, domain.StatusSubmitted, resp.StatusHistory[0].Status)
	require.NotNil(t, resp.StatusHistory[0].ChangedBy)
	assert.Equal(t, "cust-1", *resp.StatusHistory[0].ChangedBy)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "Bob", resp.Comments[0].UserName)
}

// The wire names are part of the client contract.
func TestComplaintResponse_JSONKeys(t *testing.T) {
	complaint := &domain.Complaint{ComplaintID: "COMP-2026-0001"}

	raw, err := json.Marshal(FromComplaint(complaint))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"id", "complaintId", "customerId", "customerName", "policyNumber",
		"category", "priority", "status", "subject", "description",
		"statusHistory", "comments", "isArchived", "createdAt", "updatedAt",
	} {
		assert.Contains(t, decoded, key)
	}
	// Empty slices marshal as [], not null.
	assert.Equal(t, []any{}, decoded["statusHistory"])
	assert.Equal(t, []any{}, decoded["comments"])
	// resolution is omitted when empty.
	assert.NotContains(t, decoded, "resolution")
}

func TestStatsResponse_JSONKeys(t *testing.T) {
	raw, err := json.Marshal(StatsResponse{Total: 3, Submitted: 2, InProgress: 1, Critical: 1})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"total", "submitted", "inProgress", "resolved", "closed", "critical"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, float64(1), decoded["inProgress"])
}
