package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
)

var (
	customer = &domain.Actor{ID: "cust-1", Name: "Asha", Role: domain.RoleCustomer}
	agent    = &domain.Actor{ID: "agent-1", Name: "Miro", Role: domain.RoleAgent}

	ownComplaint     = &domain.Complaint{ID: "c1", CustomerID: "cust-1"}
	foreignComplaint = &domain.Complaint{ID: "c2", CustomerID: "cust-2"}
)

func TestAllows_RoleMatrix(t *testing.T) {
	cases := []struct {
		name      string
		actor     *domain.Actor
		action    Action
		complaint *domain.Complaint
		want      bool
	}{
		{"customer creates", customer, ActionCreate, nil, true},
		{"agent denied create", agent, ActionCreate, nil, false},
		{"customer lists", customer, ActionList, nil, true},
		{"agent lists", agent, ActionList, nil, true},
		{"customer views own", customer, ActionView, ownComplaint, true},
		{"customer denied foreign view", customer, ActionView, foreignComplaint, false},
		{"agent views any", agent, ActionView, foreignComplaint, true},
		{"customer denied status update", customer, ActionUpdateStatus, ownComplaint, false},
		{"agent updates status", agent, ActionUpdateStatus, ownComplaint, true},
		{"customer denied priority update", customer, ActionUpdatePriority, ownComplaint, false},
		{"agent updates priority", agent, ActionUpdatePriority, ownComplaint, true},
		{"customer comments on own", customer, ActionComment, ownComplaint, true},
		{"customer denied foreign comment", customer, ActionComment, foreignComplaint, false},
		{"agent comments on any", agent, ActionComment, foreignComplaint, true},
		{"customer denied archive", customer, ActionArchive, ownComplaint, false},
		{"agent archives", agent, ActionArchive, ownComplaint, true},
		{"customer views stats", customer, ActionViewStats, nil, true},
		{"agent views stats", agent, ActionViewStats, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allows(tc.actor, tc.action, tc.complaint))
		})
	}
}

func TestAllows_NilActorAlwaysDenied(t *testing.T) {
	assert.False(t, Allows(nil, ActionList, nil))
	assert.False(t, Allows(nil, ActionView, ownComplaint))
}

func TestAllows_ViewWithoutComplaintDeniedForCustomer(t *testing.T) {
	assert.False(t, Allows(customer, ActionView, nil))
	assert.False(t, Allows(customer, ActionComment, nil))
}

func TestScope(t *testing.T) {
	scope := Scope(customer)
	if assert.NotNil(t, scope) {
		assert.Equal(t, "cust-1", *scope)
	}
	assert.Nil(t, Scope(agent))
	assert.Nil(t, Scope(nil))
}
