package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/services"
)

type ApplicationHandler struct {
	Service *services.ApplicationService
}

func (h *ApplicationHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	app, err := h.Service.SubmitApplication(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrListingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrListingNotOpen), errors.Is(err, models.ErrAlreadyResponded):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, models.ErrSelfResponse):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(app)
}

// DecideApplication accepts or rejects a pending application.
func (h *ApplicationHandler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, ":id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.DecideApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	app, err := h.Service.DecideApplication(r.Context(), id, callerID(r, req.UserID), req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrResponseNotFound), errors.Is(err, models.ErrListingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrNotOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		case models.IsValidation(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(app)
}

func (h *ApplicationHandler) CancelApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, ":id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	userID := callerID(r, queryInt(r, "user_id", 0))
	if userID == 0 {
		http.Error(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	if err := h.Service.CancelApplication(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, models.ErrResponseNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetApplicationsForListing returns all applications on the owner's listing.
func (h *ApplicationHandler) GetApplicationsForListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, ":listing_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	userID := callerID(r, queryInt(r, "user_id", 0))

	apps, err := h.Service.GetApplicationsForListing(r.Context(), listingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrListingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrNotOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apps)
}

func (h *ApplicationHandler) GetApplicationsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, ":user_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	apps, err := h.Service.GetApplicationsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apps)
}
