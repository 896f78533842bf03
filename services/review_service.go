package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"household-help-server/database"
	"household-help-server/models"
)

// ReviewService records reviews and keeps each worker's aggregate rating current
type ReviewService struct {
	db    *gorm.DB
	cache WorkerCache
}

// NewReviewService creates a new review service. cache may be nil.
func NewReviewService(db *gorm.DB, cache WorkerCache) *ReviewService {
	return &ReviewService{db: db, cache: cache}
}

// CreateReview records the customer's review of a completed booking and recomputes the worker's rating.
// The insert and the recomputation commit together.
func (s *ReviewService) CreateReview(ctx context.Context, customerID uint, req models.ReviewCreate) (*models.Review, error) {
	if customerID == 0 {
		return nil, ErrUnauthenticated
	}
	scores := []struct {
		name  string
		value int
	}{
		{"rating", req.Rating},
		{"service_quality", req.ServiceQuality},
		{"punctuality", req.Punctuality},
		{"professionalism", req.Professionalism},
	}
	for _, score := range scores {
		if score.value < 1 || score.value > 5 {
			return nil, fmt.Errorf("%w: %s must be between 1 and 5", ErrValidation, score.name)
		}
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, req.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, req.BookingID)
		}
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, fmt.Errorf("%w: only the booking's customer can review it", ErrUnauthorized)
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: booking %d is %s, not completed", ErrInvalidState, booking.ID, booking.Status)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).Where("booking_id = ?", booking.ID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: booking %d already reviewed", ErrConflict, booking.ID)
	}

	review := models.Review{
		BookingID:       booking.ID,
		CustomerID:      customerID,
		WorkerID:        booking.WorkerID,
		Rating:          req.Rating,
		Comment:         req.Comment,
		ServiceQuality:  req.ServiceQuality,
		Punctuality:     req.Punctuality,
		Professionalism: req.Professionalism,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			// Lost a race with a concurrent submission for the same booking
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: booking %d already reviewed", ErrConflict, booking.ID)
			}
			return err
		}
		return updateWorkerRating(tx, booking.WorkerID)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.Printf("⭐ Review %d created for worker %d (booking %d)", review.ID, review.WorkerID, review.BookingID)
	return &review, nil
}

// GetReviewsByWorker returns every review of the worker with the reviewing customer's display name
func (s *ReviewService) GetReviewsByWorker(ctx context.Context, workerID uint) ([]models.ReviewResponse, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("worker_id = ?", workerID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	responses := make([]models.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, models.ReviewResponse{
			Review:       review,
			CustomerName: review.Customer.DisplayName(),
		})
	}
	return responses, nil
}

// updateWorkerRating recomputes the aggregate from every stored review of the worker
func updateWorkerRating(tx *gorm.DB, workerID uint) error {
	var ratings []int
	if err := tx.Model(&models.Review{}).Where("worker_id = ?", workerID).Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	summary, ok := SummarizeRatings(ratings)
	if !ok {
		return nil
	}

	return tx.Model(&models.Worker{}).Where("id = ?", workerID).Updates(map[string]interface{}{
		"average_rating": summary.AverageRating,
		"total_reviews":  summary.TotalReviews,
	}).Error
}
