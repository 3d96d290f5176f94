// Package postulation owns the hiring-pipeline state machine and the
// transition side effects. Status writes go through Service.Transition only.
package postulation

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusSubmitted            Status = "submitted"
	StatusAccepted             Status = "accepted"
	StatusPrescreenCall        Status = "prescreen_call"
	StatusPersonalityTestReady Status = "personality_test_ready"
	StatusInterviewScheduled   Status = "interview_scheduled"
	StatusSelectionPending     Status = "selection_pending"
	StatusHired                Status = "hired"
	StatusRejected             Status = "rejected"
)

// StatusNone is the empty previous state of a freshly created record.
const StatusNone Status = ""

var validStatuses = map[Status]bool{
	StatusSubmitted:            true,
	StatusAccepted:             true,
	StatusPrescreenCall:        true,
	StatusPersonalityTestReady: true,
	StatusInterviewScheduled:   true,
	StatusSelectionPending:     true,
	StatusHired:                true,
	StatusRejected:             true,
}

// allowedFrom lists, per target, the states a transition may come from.
// rejected is reachable from every non-terminal state (cancellation at any
// point); hired only from selection_pending; re-accepting a rejected
// postulation reopens it.
var allowedFrom = map[Status][]Status{
	StatusAccepted:             {StatusSubmitted, StatusNone, StatusRejected},
	StatusPrescreenCall:        {StatusAccepted},
	StatusPersonalityTestReady: {StatusPrescreenCall},
	StatusInterviewScheduled:   {StatusPersonalityTestReady},
	StatusSelectionPending:     {StatusInterviewScheduled},
	StatusHired:                {StatusSelectionPending},
	StatusRejected: {
		StatusSubmitted,
		StatusAccepted,
		StatusPrescreenCall,
		StatusPersonalityTestReady,
		StatusInterviewScheduled,
		StatusSelectionPending,
	},
}

var ErrUnknownStatus = errors.New("unknown status")

// IllegalTransitionError reports a legality-table violation.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "∅"
	}
	return fmt.Sprintf("transition not permitted: %s → %s", from, e.To)
}

func Valid(s Status) bool {
	return validStatuses[s]
}

// CanTransition is the pure legality check over (current, target). It returns
// nil when the transition is allowed, ErrUnknownStatus for a target outside
// the state set, and *IllegalTransitionError for a table violation.
func CanTransition(from, to Status) error {
	if !Valid(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	preds, constrained := allowedFrom[to]
	if !constrained {
		return nil
	}
	for _, p := range preds {
		if p == from {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to}
}
