package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"vzaimoBack/internal/flow"
	"vzaimoBack/internal/models"
)

type memStore struct {
	sessions map[int]flow.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int]flow.Session)}
}

func (s *memStore) Get(ctx context.Context, userID int) (flow.Session, bool, error) {
	sess, ok := s.sessions[userID]
	return sess, ok, nil
}

func (s *memStore) Save(ctx context.Context, sess flow.Session) error {
	s.sessions[sess.UserID] = sess
	return nil
}

func (s *memStore) Delete(ctx context.Context, userID int) error {
	delete(s.sessions, userID)
	return nil
}

// TestRequestFlowSteps walks the request intake up to the contacts step. The
// earlier steps are pure session mutation, so no backing stores are needed.
func TestRequestFlowSteps(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewDialogService(store, nil, nil, nil, nil)

	const userID = 7

	res, err := svc.StartRequest(ctx, userID)
	if err != nil {
		t.Fatalf("StartRequest: %v", err)
	}
	if res.Next != flow.RequestCategory {
		t.Fatalf("start state = %v, want %v", res.Next, flow.RequestCategory)
	}

	steps := []struct {
		text string
		want flow.State
	}{
		{"cooking", flow.RequestCategory}, // unknown category re-prompts
		{"design", flow.RequestDescription},
		{"коротко", flow.RequestDescription}, // too short re-prompts
		{"Нужен логотип для небольшой кофейни", flow.RequestBudget},
		{"не знаю", flow.RequestBudget}, // unparsable budget re-prompts
		{"1500", flow.RequestDeadline},
		{"пропустить", flow.RequestContacts},
	}
	for _, step := range steps {
		res, err = svc.Dispatch(ctx, flow.Event{UserID: userID, Text: step.text})
		if err != nil {
			t.Fatalf("Dispatch(%q): %v", step.text, err)
		}
		if res.Next != step.want {
			t.Fatalf("after %q state = %v, want %v", step.text, res.Next, step.want)
		}
	}

	sess := store.sessions[userID]
	if sess.Data["category"] != "design" {
		t.Errorf("category = %q, want design", sess.Data["category"])
	}
	if sess.Data["budget"] != "1500" {
		t.Errorf("budget = %q, want 1500", sess.Data["budget"])
	}
	if _, ok := sess.Data["deadline"]; ok {
		t.Error("skipped deadline should not be stored")
	}

	// Cancellation clears the session mid-flow.
	if _, err := svc.Dispatch(ctx, flow.Event{UserID: userID, Text: "/cancel"}); !errors.Is(err, flow.ErrCancelled) {
		t.Fatalf("cancel err = %v, want ErrCancelled", err)
	}
	if _, ok := store.sessions[userID]; ok {
		t.Error("session not cleared after cancel")
	}
}

func TestStartWhileFlowActive(t *testing.T) {
	ctx := context.Background()
	svc := NewDialogService(newMemStore(), nil, nil, nil, nil)

	if _, err := svc.StartOffer(ctx, 1); err != nil {
		t.Fatalf("StartOffer: %v", err)
	}
	if _, err := svc.StartRequest(ctx, 1); !errors.Is(err, flow.ErrFlowActive) {
		t.Fatalf("second start err = %v, want ErrFlowActive", err)
	}
}

func TestIsYes(t *testing.T) {
	yes := []string{"да", "Да", " ДА ", "yes", "y"}
	for _, s := range yes {
		if !isYes(s) {
			t.Errorf("isYes(%q) = false, want true", s)
		}
	}
	no := []string{"нет", "no", "", "д а", "ага"}
	for _, s := range no {
		if isYes(s) {
			t.Errorf("isYes(%q) = true, want false", s)
		}
	}
}

func TestIsSkip(t *testing.T) {
	skip := []string{"", "пропустить", "Пропустить", "skip", "-", "  skip  "}
	for _, s := range skip {
		if !isSkip(s) {
			t.Errorf("isSkip(%q) = false, want true", s)
		}
	}
	if isSkip("1000") {
		t.Error("isSkip(\"1000\") = true, want false")
	}
}

func TestMatchCategory(t *testing.T) {
	got, ok := matchCategory(" Design ")
	if !ok || got != "design" {
		t.Fatalf("matchCategory(\" Design \") = %q, %v", got, ok)
	}
	if _, ok := matchCategory("cooking"); ok {
		t.Error("matchCategory(\"cooking\") matched, want no match")
	}
}

func TestRequestTitle(t *testing.T) {
	short := "Нужна помощь с сайтом"
	if got := requestTitle(short); got != short {
		t.Errorf("requestTitle(short) = %q, want unchanged", got)
	}

	long := strings.Repeat("о", 300)
	got := requestTitle(long)
	if utf8.RuneCountInString(got) != TitleMaxLen {
		t.Errorf("requestTitle(long) rune length = %d, want %d", utf8.RuneCountInString(got), TitleMaxLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("requestTitle(long) = %q, want ellipsis suffix", got)
	}
}

func TestListingSummary(t *testing.T) {
	listing := models.Listing{Title: "Нужен перевод", Description: "Перевести статью на английский"}

	got := listingSummary(listing)
	if !strings.Contains(got, "Бюджет: Не указан") {
		t.Errorf("listingSummary without budget = %q, want sentinel line", got)
	}
	if !strings.Contains(got, "Срок: Не указан") {
		t.Errorf("listingSummary without deadline = %q, want sentinel line", got)
	}

	budget := 1500.0
	deadline := "до пятницы"
	listing.Budget = &budget
	listing.Deadline = &deadline
	got = listingSummary(listing)
	if !strings.Contains(got, "Бюджет: 1500") {
		t.Errorf("listingSummary with budget = %q, want amount", got)
	}
	if !strings.Contains(got, "Срок: до пятницы") {
		t.Errorf("listingSummary with deadline = %q, want deadline", got)
	}
}
