package handlers

import (
	"encoding/json"
	"net/http"

	"vzaimoBack/internal/repositories"
)

// DeviceTokenHandler manages FCM push tokens for mobile clients.
type DeviceTokenHandler struct {
	Repo *repositories.DeviceTokenRepository
}

func (h *DeviceTokenHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int    `json:"user_id"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.Token == "" {
		http.Error(w, "Missing user_id or token", http.StatusBadRequest)
		return
	}

	if err := h.Repo.SaveToken(r.Context(), req.UserID, req.Token); err != nil {
		http.Error(w, "Failed to save token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *DeviceTokenHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(":token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteToken(r.Context(), token); err != nil {
		http.Error(w, "Failed to delete token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
