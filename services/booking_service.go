package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"household-help-server/models"
)

// Notifier delivers booking events to a user. Delivery failures are the notifier's concern.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind, title, body string, data map[string]interface{})
}

// BookingService handles the booking lifecycle between customers and workers
type BookingService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewBookingService creates a new booking service. notifier may be nil.
func NewBookingService(db *gorm.DB, notifier Notifier) *BookingService {
	return &BookingService{db: db, notifier: notifier}
}

// CreateBooking books a worker for the caller. The total is priced at the worker's current hourly rate.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uint, req models.BookingRequest) (*models.Booking, error) {
	if customerID == 0 {
		return nil, ErrUnauthenticated
	}

	category, err := models.ParseServiceCategory(req.ServiceCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := requireFields(
		field{"start_date", req.StartDate},
		field{"start_time", req.StartTime},
		field{"address", req.Address},
	); err != nil {
		return nil, err
	}
	// Duration and date are caller-trusted; the total follows whatever duration was sent

	var worker models.Worker
	if err := s.db.WithContext(ctx).First(&worker, req.WorkerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: worker %d", ErrNotFound, req.WorkerID)
		}
		return nil, err
	}

	booking := models.Booking{
		CustomerID:          customerID,
		WorkerID:            worker.ID,
		ServiceCategory:     category,
		StartDate:           req.StartDate,
		StartTime:           req.StartTime,
		Duration:            req.Duration,
		TotalAmount:         worker.HourlyRate * req.Duration,
		Status:              models.BookingStatusPending,
		SpecialInstructions: req.SpecialInstructions,
		Address:             req.Address,
		PaymentStatus:       models.PaymentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&booking).Error; err != nil {
		return nil, err
	}

	log.Printf("📋 Booking %d created: customer %d -> worker %d (%s)", booking.ID, customerID, worker.ID, category)

	s.notify(ctx, worker.UserID, models.NotificationBookingCreated,
		"New booking request",
		fmt.Sprintf("New %s booking on %s at %s", category.Label(), booking.StartDate, booking.StartTime),
		map[string]interface{}{"booking_id": booking.ID, "status": booking.Status})

	return &booking, nil
}

// UpdateBookingStatus lets either party move a booking to any updatable status
func (s *BookingService) UpdateBookingStatus(ctx context.Context, userID, bookingID uint, status models.BookingStatus) (*models.Booking, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if !status.IsUpdatable() {
		return nil, fmt.Errorf("%w: invalid booking status %q", ErrValidation, status)
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).Preload("Worker").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}

	callerWorker, err := s.workerOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID, callerWorker) {
		return nil, fmt.Errorf("%w: not a party to booking %d", ErrUnauthorized, bookingID)
	}

	if err := s.db.WithContext(ctx).Model(&booking).Update("status", status).Error; err != nil {
		return nil, err
	}
	booking.Status = status

	log.Printf("📋 Booking %d status -> %s by user %d", booking.ID, status, userID)

	// Notify the other party
	recipient := booking.CustomerID
	if userID == booking.CustomerID && booking.Worker != nil {
		recipient = booking.Worker.UserID
	}
	if recipient != userID {
		s.notify(ctx, recipient, models.NotificationBookingStatus,
			"Booking updated",
			fmt.Sprintf("Booking #%d is now %s", booking.ID, strings.ReplaceAll(string(status), "_", " ")),
			map[string]interface{}{"booking_id": booking.ID, "status": status})
	}

	return &booking, nil
}

// GetUserBookings returns the caller's bookings as a customer, each with its worker attached
func (s *BookingService) GetUserBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Worker").
		Where("customer_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetWorkerBookings returns bookings made against the caller's worker profile, each with its customer attached.
// A caller without a profile gets an empty list.
func (s *BookingService) GetWorkerBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	worker, err := s.workerOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return []models.Booking{}, nil
	}

	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("worker_id = ?", worker.ID).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// workerOwnedBy returns nil without error when the user has no worker profile
func (s *BookingService) workerOwnedBy(ctx context.Context, userID uint) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

func (s *BookingService) notify(ctx context.Context, userID uint, kind, title, body string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, kind, title, body, data)
}
