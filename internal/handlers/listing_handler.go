package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/services"
)

type ListingHandler struct {
	Service *services.ListingService
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req models.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.Service.CreateListing(r.Context(), req)
	if err != nil {
		if models.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(listing)
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, ":id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	listing, err := h.Service.GetListingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrListingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

// GetListings filters open listings by kind, category and optional max budget.
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	req := models.ListingFilterRequest{
		Kind:     r.URL.Query().Get("kind"),
		Category: r.URL.Query().Get("category"),
		Limit:    queryInt(r, "limit", 0),
	}
	if raw := r.URL.Query().Get("max_budget"); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "Invalid max_budget", http.StatusBadRequest)
			return
		}
		req.MaxBudget = &budget
	}

	var (
		listings []models.Listing
		err      error
	)
	if req.Category == "" {
		listings, err = h.Service.GetAllOpen(r.Context(), req.Kind, req.Limit)
	} else {
		listings, err = h.Service.GetListingsByCategory(r.Context(), req)
	}
	if err != nil {
		if models.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}

func (h *ListingHandler) GetListingsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	listings, err := h.Service.GetListingsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}

func (h *ListingHandler) GetStatsSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.Service.GetStatsSummary(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// UpdateStatus moves a listing along its lifecycle. Only the owner may do it.
func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, ":id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.ListingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.TransitionStatus(r.Context(), id, callerID(r, req.UserID), req.Status); err != nil {
		switch {
		case errors.Is(err, models.ErrListingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrNotOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, models.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}
