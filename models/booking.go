package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle progress is expected
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsUpdatable reports whether a party may set the booking to this status.
// pending is only ever assigned at creation.
func (s BookingStatus) IsUpdatable() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	CustomerID          uint            `json:"customer_id" gorm:"not null;index"`
	WorkerID            uint            `json:"worker_id" gorm:"not null;index"`
	ServiceCategory     ServiceCategory `json:"service_category" gorm:"type:varchar(20);not null"`
	StartDate           string          `json:"start_date" gorm:"size:20;not null"`
	EndDate             *string         `json:"end_date" gorm:"size:20"`
	StartTime           string          `json:"start_time" gorm:"size:20;not null"`
	Duration            float64         `json:"duration"` // hours
	TotalAmount         float64         `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status              BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index;check:status IN ('pending','confirmed','in_progress','completed','cancelled')"`
	SpecialInstructions *string         `json:"special_instructions" gorm:"size:1000"`
	Address             string          `json:"address" gorm:"size:500;not null"`
	PaymentStatus       PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending';check:payment_status IN ('pending','paid','refunded')"`
	CreatedAt           time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Customer *User   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Worker   *Worker `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsParty checks whether the user is the customer or the owner of the matched worker profile
func (b *Booking) IsParty(userID uint, worker *Worker) bool {
	if b.CustomerID == userID {
		return true
	}
	return worker != nil && worker.ID == b.WorkerID
}

// BookingRequest represents the request structure for creating a booking
type BookingRequest struct {
	WorkerID            uint    `json:"worker_id" binding:"required"`
	ServiceCategory     string  `json:"service_category" binding:"required,service_category"`
	StartDate           string  `json:"start_date" binding:"required"`
	StartTime           string  `json:"start_time" binding:"required"`
	Duration            float64 `json:"duration"`
	Address             string  `json:"address" binding:"required"`
	SpecialInstructions *string `json:"special_instructions"`
}

// BookingStatusRequest represents the request structure for a status change
type BookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required,oneof=confirmed in_progress completed cancelled"`
}
