package fsm

import "testing"

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusOpen, StatusInProgress) {
		t.Fatal("expected open -> in_progress to be allowed")
	}
	if !CanTransition(StatusOpen, StatusCancelled) {
		t.Fatal("expected open -> cancelled to be allowed")
	}
	if !CanTransition(StatusInProgress, StatusCompleted) {
		t.Fatal("expected in_progress -> completed to be allowed")
	}
	if !CanTransition(StatusInProgress, StatusCancelled) {
		t.Fatal("expected in_progress -> cancelled to be allowed")
	}
	if CanTransition(StatusOpen, StatusCompleted) {
		t.Fatal("unexpected transition open -> completed allowed")
	}
	if CanTransition(StatusCompleted, StatusOpen) {
		t.Fatal("completed must be terminal")
	}
	if CanTransition(StatusCancelled, StatusInProgress) {
		t.Fatal("cancelled must be terminal")
	}
	if CanTransition(StatusOpen, StatusOpen) {
		t.Fatal("same-status transition must be rejected")
	}
	if CanTransition("unknown", StatusOpen) {
		t.Fatal("unknown status must not transition")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{StatusCompleted, StatusCancelled} {
		if !IsTerminal(status) {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []string{StatusOpen, StatusInProgress} {
		if IsTerminal(status) {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}
