package postulation

import (
	"errors"
	"testing"
)

func TestCanTransitionPipelineChain(t *testing.T) {
	chain := []Status{
		StatusAccepted,
		StatusPrescreenCall,
		StatusPersonalityTestReady,
		StatusInterviewScheduled,
		StatusSelectionPending,
		StatusHired,
	}

	from := StatusSubmitted
	for _, to := range chain {
		if err := CanTransition(from, to); err != nil {
			t.Fatalf("CanTransition(%q, %q) = %v, want nil", from, to, err)
		}
		from = to
	}
}

func TestCanTransitionAccepted(t *testing.T) {
	for _, from := range []Status{StatusSubmitted, StatusNone, StatusRejected} {
		if err := CanTransition(from, StatusAccepted); err != nil {
			t.Errorf("CanTransition(%q, accepted) = %v, want nil", from, err)
		}
	}
	for _, from := range []Status{StatusHired, StatusPrescreenCall, StatusSelectionPending} {
		if err := CanTransition(from, StatusAccepted); err == nil {
			t.Errorf("CanTransition(%q, accepted) = nil, want error", from)
		}
	}
}

func TestCanTransitionRejectedFromAnyNonTerminal(t *testing.T) {
	allowed := []Status{
		StatusSubmitted,
		StatusAccepted,
		StatusPrescreenCall,
		StatusPersonalityTestReady,
		StatusInterviewScheduled,
		StatusSelectionPending,
	}
	for _, from := range allowed {
		if err := CanTransition(from, StatusRejected); err != nil {
			t.Errorf("CanTransition(%q, rejected) = %v, want nil", from, err)
		}
	}

	for _, from := range []Status{StatusHired, StatusRejected} {
		err := CanTransition(from, StatusRejected)
		var illegal *IllegalTransitionError
		if !errors.As(err, &illegal) {
			t.Errorf("CanTransition(%q, rejected) = %v, want IllegalTransitionError", from, err)
		}
	}
}

func TestCanTransitionHiredOnlyFromSelectionPending(t *testing.T) {
	if err := CanTransition(StatusSelectionPending, StatusHired); err != nil {
		t.Fatalf("CanTransition(selection_pending, hired) = %v, want nil", err)
	}
	for _, from := range []Status{
		StatusSubmitted,
		StatusAccepted,
		StatusPrescreenCall,
		StatusPersonalityTestReady,
		StatusInterviewScheduled,
		StatusRejected,
		StatusNone,
	} {
		if err := CanTransition(from, StatusHired); err == nil {
			t.Errorf("CanTransition(%q, hired) = nil, want error", from)
		}
	}
}

func TestCanTransitionSkippingStep(t *testing.T) {
	err := CanTransition(StatusAccepted, StatusInterviewScheduled)
	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("got %v, want IllegalTransitionError", err)
	}
	if illegal.From != StatusAccepted || illegal.To != StatusInterviewScheduled {
		t.Fatalf("error carries %q -> %q", illegal.From, illegal.To)
	}
}

func TestCanTransitionUnknownTarget(t *testing.T) {
	err := CanTransition(StatusSubmitted, Status("archived"))
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("got %v, want ErrUnknownStatus", err)
	}
}

func TestIllegalTransitionErrorRendersEmptyFrom(t *testing.T) {
	e := &IllegalTransitionError{From: StatusNone, To: StatusHired}
	want := "transition not permitted: ∅ → hired"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestValid(t *testing.T) {
	if !Valid(StatusPersonalityTestReady) {
		t.Error("personality_test_ready should be valid")
	}
	if Valid(Status("archived")) {
		t.Error("archived should not be valid")
	}
	if Valid(StatusNone) {
		t.Error("empty status should not be valid")
	}
}
