package services

import (
	"context"

	"gorm.io/gorm"

	"household-help-server/models"
)

// WorkerStats summarizes a worker's booking history
type WorkerStats struct {
	WorkerID          uint                           `json:"worker_id"`
	TotalBookings     int64                          `json:"total_bookings"`
	BookingsByStatus  map[models.BookingStatus]int64 `json:"bookings_by_status"`
	CompletedEarnings float64                        `json:"completed_earnings"`
	AverageRating     float64                        `json:"average_rating"`
	TotalReviews      int                            `json:"total_reviews"`
}

// WorkerAnalyticsService handles worker performance reporting
type WorkerAnalyticsService struct {
	db      *gorm.DB
	workers *WorkerService
}

// NewWorkerAnalyticsService creates a new worker analytics service
func NewWorkerAnalyticsService(db *gorm.DB, workers *WorkerService) *WorkerAnalyticsService {
	return &WorkerAnalyticsService{db: db, workers: workers}
}

// GetWorkerStats reports booking counts per status and completed earnings for the caller's profile
func (s *WorkerAnalyticsService) GetWorkerStats(ctx context.Context, userID uint) (*WorkerStats, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	worker, err := s.workers.GetWorkerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.BookingStatus
		Count  int64
		Amount float64
	}
	if err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Where("worker_id = ?", worker.ID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &WorkerStats{
		WorkerID:         worker.ID,
		BookingsByStatus: make(map[models.BookingStatus]int64, len(rows)),
		AverageRating:    worker.Rating(),
	}
	if worker.TotalReviews != nil {
		stats.TotalReviews = *worker.TotalReviews
	}
	for _, row := range rows {
		stats.BookingsByStatus[row.Status] = row.Count
		stats.TotalBookings += row.Count
		if row.Status == models.BookingStatusCompleted {
			stats.CompletedEarnings = row.Amount
		}
	}
	return stats, nil
}
