package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"park-ticketing-platform/internal/models"
)

var (
	// ErrReviewNotFound is returned when a review id is unknown
	ErrReviewNotFound = errors.New("review not found")
	// ErrNotReviewOwner is returned when editing someone else's review
	ErrNotReviewOwner = errors.New("review belongs to a different customer")
)

// ReviewStore is the persistence contract the review service depends on
type ReviewStore interface {
	LoadReviews() ([]models.Review, error)
	SaveReviews(reviews []models.Review) error
}

// ReviewService manages customer feedback
type ReviewService struct {
	store ReviewStore

	mu      sync.RWMutex
	reviews []models.Review

	now func() time.Time
}

// NewReviewService creates a review service, restoring persisted reviews
func NewReviewService(store ReviewStore) *ReviewService {
	reviews, err := store.LoadReviews()
	if err != nil {
		log.Printf("Warning: failed to load reviews, starting empty: %v", err)
		reviews = nil
	}

	return &ReviewService{
		store:   store,
		reviews: reviews,
		now:     time.Now,
	}
}

// Submit records a new review from the given customer
func (s *ReviewService) Submit(customer models.CustomerRef, req *models.ReviewCreateRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if customer.ID == "" {
		customer = models.GuestCustomer()
	}

	review := models.Review{
		ID:           models.GenerateReviewID(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
		CreatedAt:    s.now(),
	}

	s.mu.Lock()
	s.reviews = append([]models.Review{review}, s.reviews...)
	if err := s.store.SaveReviews(s.reviews); err != nil {
		log.Printf("Warning: failed to persist reviews: %v", err)
	}
	s.mu.Unlock()

	return &review, nil
}

// List returns all reviews, newest first
func (s *ReviewService) List() []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// Edit updates the comment of the customer's own review
func (s *ReviewService) Edit(customerID, reviewID, comment string) (*models.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("validation failed: comment is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reviews {
		if s.reviews[i].ID != reviewID {
			continue
		}
		if s.reviews[i].CustomerID != customerID {
			return nil, ErrNotReviewOwner
		}

		edited := s.now()
		s.reviews[i].Comment = comment
		s.reviews[i].EditedAt = &edited

		if err := s.store.SaveReviews(s.reviews); err != nil {
			log.Printf("Warning: failed to persist reviews: %v", err)
		}

		review := s.reviews[i]
		return &review, nil
	}

	return nil, ErrReviewNotFound
}
