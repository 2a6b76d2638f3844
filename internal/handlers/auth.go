package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/services"
)

// AuthHandler handles account registration and login
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a new customer account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			respondMessage(w, http.StatusConflict, "Username is already taken")
			return
		}
		respondMessage(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "validation failed: "))
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns an access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
