package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"park-ticketing-platform/internal/middleware"
	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/services"
)

// ReviewHandler handles customer feedback
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Submit records a new review
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer := models.GuestCustomer()
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		customer = claims.CustomerRef()
	}

	review, err := h.reviews.Submit(customer, &req)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "validation failed: "))
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

// List returns all reviews, newest first
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": h.reviews.List(),
	})
}

// Edit updates the comment of the caller's own review
func (h *ReviewHandler) Edit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		respondMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviews.Edit(claims.Subject, chi.URLParam(r, "reviewID"), req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReviewNotFound):
			respondMessage(w, http.StatusNotFound, "Review not found")
		case errors.Is(err, services.ErrNotReviewOwner):
			respondMessage(w, http.StatusForbidden, "You can only edit your own review")
		default:
			respondMessage(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "validation failed: "))
		}
		return
	}

	respondJSON(w, http.StatusOK, review)
}
