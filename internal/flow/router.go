package flow

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCancelled is returned by a handler to abort the whole flow.
	ErrCancelled = errors.New("flow: cancelled")
	// ErrNoActiveFlow means the user has no in-progress conversation.
	ErrNoActiveFlow = errors.New("flow: no active flow")
	// ErrUnknownState means the stored session points at a state with no handler.
	ErrUnknownState = errors.New("flow: no handler for state")
	// ErrFlowActive means a new flow was started while another is in progress.
	ErrFlowActive = errors.New("flow: another flow is already active")
)

// Event is one inbound chat message from the transport layer.
type Event struct {
	UserID int
	Text   string
}

// Result is what the dialog layer sends back: the next state, the reply text
// and optional selectable options (rendered as a keyboard by the transport).
type Result struct {
	Next    State
	Reply   string
	Options []string
}

// Session is the per-user conversation state. Data holds the intake fields
// collected so far.
type Session struct {
	UserID    int               `json:"user_id"`
	State     State             `json:"state"`
	Data      map[string]string `json:"data"`
	StartedAt time.Time         `json:"started_at"`
}

// Store persists sessions between events. The redis implementation expires
// abandoned sessions after 24 hours.
type Store interface {
	Get(ctx context.Context, userID int) (Session, bool, error)
	Save(ctx context.Context, sess Session) error
	Delete(ctx context.Context, userID int) error
}

// HandlerFunc processes one event in a given state. It returns the next state
// in Result.Next (StateEnd terminates the flow), or ErrCancelled to abort.
// Handlers own all business logic; the router only dispatches.
type HandlerFunc func(ctx context.Context, sess *Session, ev Event) (Result, error)

type Router struct {
	store    Store
	handlers map[State]HandlerFunc
}

func NewRouter(store Store) *Router {
	return &Router{
		store:    store,
		handlers: make(map[State]HandlerFunc),
	}
}

// Handle registers the handler for a state. Registering a state twice
// replaces the previous handler.
func (r *Router) Handle(s State, h HandlerFunc) {
	r.handlers[s] = h
}

// Start opens a new flow for the user at the given first state and returns
// the prompt produced by an optional greeter.
func (r *Router) Start(ctx context.Context, userID int, first State, prompt string, options []string) (Result, error) {
	if _, active, err := r.store.Get(ctx, userID); err != nil {
		return Result{}, err
	} else if active {
		return Result{}, ErrFlowActive
	}
	sess := Session{
		UserID:    userID,
		State:     first,
		Data:      make(map[string]string),
		StartedAt: time.Now(),
	}
	if err := r.store.Save(ctx, sess); err != nil {
		return Result{}, err
	}
	return Result{Next: first, Reply: prompt, Options: options}, nil
}

// Dispatch routes one inbound event to the handler registered for the user's
// current state and persists the resulting state.
func (r *Router) Dispatch(ctx context.Context, ev Event) (Result, error) {
	sess, active, err := r.store.Get(ctx, ev.UserID)
	if err != nil {
		return Result{}, err
	}
	if !active {
		return Result{}, ErrNoActiveFlow
	}

	handler, ok := r.handlers[sess.State]
	if !ok {
		// A stale session from an older deployment; drop it.
		_ = r.store.Delete(ctx, ev.UserID)
		return Result{}, ErrUnknownState
	}

	res, err := handler(ctx, &sess, ev)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			if derr := r.store.Delete(ctx, ev.UserID); derr != nil {
				return Result{}, derr
			}
		}
		return Result{}, err
	}

	if res.Next == StateEnd {
		if err := r.store.Delete(ctx, ev.UserID); err != nil {
			return Result{}, err
		}
		return res, nil
	}

	sess.State = res.Next
	if err := r.store.Save(ctx, sess); err != nil {
		return Result{}, err
	}
	return res, nil
}
