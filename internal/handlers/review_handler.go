package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/services"
)

type ReviewHandler struct {
	Service *services.RatingService
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review, err := h.Service.RecordReview(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrAlreadyReviewed):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, models.ErrSelfResponse):
			http.Error(w, err.Error(), http.StatusForbidden)
		case models.IsValidation(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

func (h *ReviewHandler) GetReviewsAbout(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reviews, err := h.Service.GetReviewsAbout(r.Context(), userID, queryInt(r, "limit", 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

func (h *ReviewHandler) GetReviewsBy(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reviews, err := h.Service.GetReviewsBy(r.Context(), userID, queryInt(r, "limit", 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

func (h *ReviewHandler) LikeReview(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.Service.LikeReview)
}

func (h *ReviewHandler) DislikeReview(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.Service.DislikeReview)
}

func (h *ReviewHandler) react(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) error) {
	id, err := pathID(r, ":id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := fn(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrReviewNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetUserRating returns the profile rating view with level and experience.
func (h *ReviewHandler) GetUserRating(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.Service.GetUserRating(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *ReviewHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := h.Service.GetUserStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *ReviewHandler) GetTopUsers(w http.ResponseWriter, r *http.Request) {
	top, err := h.Service.GetTopUsers(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(top)
}
