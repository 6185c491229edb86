package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LatestIDLookup finds the lexicographically greatest complaint id with
// the given prefix, or "" when none exists.
type LatestIDLookup interface {
	LatestComplaintID(ctx context.Context, prefix string) (string, error)
}

// Sequencer produces year-scoped, monotonically increasing complaint ids
// of the form COMP-<year>-<seq>. Uniqueness under concurrent creation is
// enforced by the store's unique constraint, not here.
type Sequencer struct {
	complaints LatestIDLookup
	now        func() time.Time
}

// NewSequencer builds a sequencer over the given lookup.
func NewSequencer(complaints LatestIDLookup) *Sequencer {
	return &Sequencer{complaints: complaints, now: time.Now}
}

// Next computes the next complaint id for the current year. The numeric
// segment is zero-padded to 4 digits; values beyond 9999 render unpadded.
func (s *Sequencer) Next(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("COMP-%d-", s.now().Year())

	latest, err := s.complaints.LatestComplaintID(ctx, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if latest != "" {
		segment := latest[strings.LastIndex(latest, "-")+1:]
		last, err := strconv.Atoi(segment)
		if err != nil {
			return "", fmt.Errorf("malformed complaint id %q: %w", latest, err)
		}
		next = last + 1
	}

	return fmt.Sprintf("%s%04d", prefix, next), nil
}
