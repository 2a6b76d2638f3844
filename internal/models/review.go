package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review represents feedback submitted by a customer
type Review struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Rating       int        `json:"rating"` // 1 to 5
	Comment      string     `json:"comment"`
	CreatedAt    time.Time  `json:"created_at"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
}

// ReviewCreateRequest represents the data needed to submit a review
type ReviewCreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate validates the review data
func (req *ReviewCreateRequest) Validate() error {
	if req.Rating < 1 || req.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	if strings.TrimSpace(req.Comment) == "" {
		return errors.New("comment is required")
	}

	if len(req.Comment) > 1000 {
		return errors.New("comment must be less than 1000 characters")
	}

	return nil
}

// GenerateReviewID generates a synthetic review identifier
func GenerateReviewID() string {
	return "REV-" + uuid.NewString()
}
