package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vzaimoBack/internal/flow"
	"vzaimoBack/internal/services"
)

// DialogHandler bridges the chat transport to the flow engine. A transport
// adapter posts every inbound message here and renders the returned reply.
type DialogHandler struct {
	Service *services.DialogService
}

type dialogEventRequest struct {
	UserID int    `json:"user_id"`
	Text   string `json:"text"`
}

type dialogStartRequest struct {
	UserID     int    `json:"user_id"`
	Flow       string `json:"flow"`
	ReviewedID int    `json:"reviewed_id,omitempty"`
	ListingID  *int   `json:"listing_id,omitempty"`
}

type dialogReply struct {
	State   string   `json:"state"`
	Reply   string   `json:"reply"`
	Options []string `json:"options,omitempty"`
	Done    bool     `json:"done"`
}

// StartFlow opens one of the named flows for a user.
func (h *DialogHandler) StartFlow(w http.ResponseWriter, r *http.Request) {
	var req dialogStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	var (
		res flow.Result
		err error
	)
	ctx := r.Context()
	switch req.Flow {
	case "registration":
		res, err = h.Service.StartRegistration(ctx, req.UserID)
	case "login":
		res, err = h.Service.StartLogin(ctx, req.UserID)
	case "offer":
		res, err = h.Service.StartOffer(ctx, req.UserID)
	case "request":
		res, err = h.Service.StartRequest(ctx, req.UserID)
	case "response":
		res, err = h.Service.StartResponse(ctx, req.UserID)
	case "review":
		if req.ReviewedID <= 0 {
			http.Error(w, "Missing reviewed_id", http.StatusBadRequest)
			return
		}
		res, err = h.Service.StartReview(ctx, req.UserID, req.ReviewedID, req.ListingID)
	default:
		http.Error(w, "Unknown flow", http.StatusBadRequest)
		return
	}
	if err != nil {
		if errors.Is(err, flow.ErrFlowActive) {
			http.Error(w, "another flow is already active", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeDialogReply(w, res)
}

// HandleEvent feeds one user message into the active flow.
func (h *DialogHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req dialogEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	res, err := h.Service.Dispatch(r.Context(), flow.Event{UserID: req.UserID, Text: req.Text})
	if err != nil {
		switch {
		case errors.Is(err, flow.ErrCancelled):
			writeDialogReply(w, flow.Result{Next: flow.StateEnd, Reply: "Действие отменено."})
		case errors.Is(err, flow.ErrNoActiveFlow), errors.Is(err, flow.ErrUnknownState):
			http.Error(w, "no active flow", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeDialogReply(w, res)
}

func writeDialogReply(w http.ResponseWriter, res flow.Result) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dialogReply{
		State:   res.Next.String(),
		Reply:   res.Reply,
		Options: res.Options,
		Done:    res.Next == flow.StateEnd,
	})
}
