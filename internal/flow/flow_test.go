package flow

import (
	"context"
	"errors"
	"testing"
)

type memStore struct {
	sessions map[int]Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int]Session)}
}

func (m *memStore) Get(ctx context.Context, userID int) (Session, bool, error) {
	sess, ok := m.sessions[userID]
	return sess, ok, nil
}

func (m *memStore) Save(ctx context.Context, sess Session) error {
	m.sessions[sess.UserID] = sess
	return nil
}

func (m *memStore) Delete(ctx context.Context, userID int) error {
	delete(m.sessions, userID)
	return nil
}

func TestNextSequencing(t *testing.T) {
	cases := []struct {
		name string
		flow []State
		from State
		want State
	}{
		{"offer category to title", OfferCreation, OfferCategory, OfferTitle},
		{"offer last step ends", OfferCreation, OfferContacts, StateEnd},
		{"request budget to deadline", RequestCreation, RequestBudget, RequestDeadline},
		{"registration phone confirm", Registration, RegisterPhone, RegisterConfirmPhone},
		{"registration code to email", Registration, RegisterVerifyCode, RegisterEmail},
		{"login ends after password", Login, LoginPassword, StateEnd},
		{"feedback rating to comment", ReviewSubmission, FeedbackRating, FeedbackComment},
		{"foreign state ends", Login, OfferTitle, StateEnd},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.flow, tc.from); got != tc.want {
				t.Fatalf("Next(%v) = %v, want %v", tc.from, got, tc.want)
			}
		})
	}
}

func TestRouterWalksFlow(t *testing.T) {
	store := newMemStore()
	router := NewRouter(store)

	for _, s := range OfferCreation {
		state := s
		router.Handle(state, func(ctx context.Context, sess *Session, ev Event) (Result, error) {
			sess.Data[state.String()] = ev.Text
			return Result{Next: Next(OfferCreation, state), Reply: "ok"}, nil
		})
	}

	ctx := context.Background()
	if _, err := router.Start(ctx, 7, OfferCategory, "choose a category", []string{"programming"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	inputs := []string{"programming", "Fix my site", "The layout breaks on mobile", "@helper"}
	for i, text := range inputs {
		res, err := router.Dispatch(ctx, Event{UserID: 7, Text: text})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		last := i == len(inputs)-1
		if last && res.Next != StateEnd {
			t.Fatalf("expected flow to end, got state %v", res.Next)
		}
		if !last && res.Next == StateEnd {
			t.Fatalf("flow ended early at step %d", i)
		}
	}

	if _, active, _ := store.Get(ctx, 7); active {
		t.Fatal("session must be cleared after terminal state")
	}
}

func TestRouterValidationKeepsState(t *testing.T) {
	store := newMemStore()
	router := NewRouter(store)
	router.Handle(OfferTitle, func(ctx context.Context, sess *Session, ev Event) (Result, error) {
		if len(ev.Text) < 3 {
			return Result{Next: OfferTitle, Reply: "title too short"}, nil
		}
		return Result{Next: StateEnd}, nil
	})

	ctx := context.Background()
	if _, err := router.Start(ctx, 1, OfferTitle, "", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	res, err := router.Dispatch(ctx, Event{UserID: 1, Text: "ab"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Next != OfferTitle {
		t.Fatalf("expected re-prompt in same state, got %v", res.Next)
	}
	sess, active, _ := store.Get(ctx, 1)
	if !active || sess.State != OfferTitle {
		t.Fatalf("session state changed on validation failure: %v", sess.State)
	}
}

func TestRouterCancellationClearsSession(t *testing.T) {
	store := newMemStore()
	router := NewRouter(store)
	router.Handle(RequestCategory, func(ctx context.Context, sess *Session, ev Event) (Result, error) {
		return Result{}, ErrCancelled
	})

	ctx := context.Background()
	if _, err := router.Start(ctx, 3, RequestCategory, "", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := router.Dispatch(ctx, Event{UserID: 3, Text: "/cancel"}); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if _, active, _ := store.Get(ctx, 3); active {
		t.Fatal("session must be cleared on cancellation")
	}
}

func TestRouterNoActiveFlow(t *testing.T) {
	router := NewRouter(newMemStore())
	if _, err := router.Dispatch(context.Background(), Event{UserID: 9, Text: "hi"}); !errors.Is(err, ErrNoActiveFlow) {
		t.Fatalf("expected ErrNoActiveFlow, got %v", err)
	}
}

func TestRouterRejectsSecondFlow(t *testing.T) {
	store := newMemStore()
	router := NewRouter(store)
	ctx := context.Background()
	if _, err := router.Start(ctx, 4, LoginEmail, "", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := router.Start(ctx, 4, OfferCategory, "", nil); !errors.Is(err, ErrFlowActive) {
		t.Fatalf("expected ErrFlowActive, got %v", err)
	}
}

func TestRouterUnknownStateDropsSession(t *testing.T) {
	store := newMemStore()
	router := NewRouter(store)
	ctx := context.Background()
	store.Save(ctx, Session{UserID: 5, State: State(999), Data: map[string]string{}})

	if _, err := router.Dispatch(ctx, Event{UserID: 5, Text: "hi"}); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if _, active, _ := store.Get(ctx, 5); active {
		t.Fatal("stale session must be dropped")
	}
}
