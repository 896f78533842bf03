package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// VerificationStatus gates a worker's visibility in search
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// IsValid checks if the verification status is one of the fixed values
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	default:
		return false
	}
}

// WorkerReference is a previous employer or contact vouching for the worker
type WorkerReference struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
}

// Worker represents a domestic-service provider profile owned by exactly one user account
type Worker struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	UserID       uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Name         string  `json:"name" gorm:"size:255;not null"`
	Phone        string  `json:"phone" gorm:"size:20;not null"`
	Email        *string `json:"email" gorm:"size:255"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender" gorm:"size:20"`
	Address      string  `json:"address" gorm:"type:text;not null"`
	City         string  `json:"city" gorm:"size:100;not null;index"`
	Pincode      string  `json:"pincode" gorm:"size:20;not null"`
	ProfileImage *string `json:"profile_image" gorm:"size:500"`

	// Service details
	Categories   datatypes.JSONSlice[ServiceCategory] `json:"categories"`
	Experience   int                                  `json:"experience"` // years
	HourlyRate   float64                              `json:"hourly_rate" gorm:"type:decimal(10,2);not null"`
	Availability datatypes.JSONSlice[string]          `json:"availability"` // days of week
	Languages    datatypes.JSONSlice[string]          `json:"languages"`

	// Verification details
	VerificationStatus VerificationStatus                   `json:"verification_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	GovernmentID       string                               `json:"-" gorm:"size:100;not null"`
	PoliceVerification *string                              `json:"-" gorm:"size:255"`
	References         datatypes.JSONSlice[WorkerReference] `json:"references"`

	// Ratings and reviews
	AverageRating *float64 `json:"average_rating"`
	TotalReviews  *int     `json:"total_reviews"`

	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Worker model
func (Worker) TableName() string {
	return "workers"
}

// IsSearchable reports whether the worker may appear in directory listings
func (w *Worker) IsSearchable() bool {
	return w.VerificationStatus == VerificationVerified && w.IsActive
}

// HasCategory checks exact category membership
func (w *Worker) HasCategory(category ServiceCategory) bool {
	for _, c := range w.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Rating returns the average rating, treating a worker without reviews as 0
func (w *Worker) Rating() float64 {
	if w.AverageRating == nil {
		return 0
	}
	return *w.AverageRating
}

// MatchesTerm matches a lowercase term as a substring of the name, any category or any language
func (w *Worker) MatchesTerm(term string) bool {
	if strings.Contains(strings.ToLower(w.Name), term) {
		return true
	}
	for _, c := range w.Categories {
		if strings.Contains(strings.ToLower(string(c)), term) {
			return true
		}
	}
	for _, lang := range w.Languages {
		if strings.Contains(strings.ToLower(lang), term) {
			return true
		}
	}
	return false
}

// WorkerProfileRequest represents the request structure for creating a worker profile
type WorkerProfileRequest struct {
	Name         string            `json:"name" binding:"required"`
	Phone        string            `json:"phone" binding:"required"`
	Email        *string           `json:"email" binding:"omitempty,email"`
	Age          int               `json:"age" binding:"gte=0"`
	Gender       string            `json:"gender"`
	Address      string            `json:"address" binding:"required"`
	City         string            `json:"city" binding:"required"`
	Pincode      string            `json:"pincode" binding:"required"`
	Categories   []string          `json:"categories" binding:"required,min=1,dive,service_category"`
	Experience   int               `json:"experience" binding:"gte=0"`
	HourlyRate   float64           `json:"hourly_rate" binding:"gte=0"`
	Availability []string          `json:"availability"`
	Languages    []string          `json:"languages"`
	GovernmentID string            `json:"government_id" binding:"required"`
	References   []WorkerReference `json:"references" binding:"dive"`
}

// VerificationRequest is the admin payload changing a worker's verification status
type VerificationRequest struct {
	Status             VerificationStatus `json:"status" binding:"required,oneof=pending verified rejected"`
	PoliceVerification *string            `json:"police_verification"`
}
