package models

import (
	"time"
)

// Review is a customer's assessment of a completed booking. One per booking, never edited.
type Review struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	BookingID       uint      `json:"booking_id" gorm:"not null;uniqueIndex"`
	CustomerID      uint      `json:"customer_id" gorm:"not null;index"`
	WorkerID        uint      `json:"worker_id" gorm:"not null;index"`
	Rating          int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment         *string   `json:"comment" gorm:"type:text"`
	ServiceQuality  int       `json:"service_quality" gorm:"type:int;not null;check:service_quality >= 1 AND service_quality <= 5"`
	Punctuality     int       `json:"punctuality" gorm:"type:int;not null;check:punctuality >= 1 AND punctuality <= 5"`
	Professionalism int       `json:"professionalism" gorm:"type:int;not null;check:professionalism >= 1 AND professionalism <= 5"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`

	Customer *User `json:"-" gorm:"foreignKey:CustomerID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreate represents the request structure for creating a review
type ReviewCreate struct {
	BookingID       uint    `json:"booking_id" binding:"required"`
	Rating          int     `json:"rating" binding:"required,min=1,max=5"`
	Comment         *string `json:"comment"`
	ServiceQuality  int     `json:"service_quality" binding:"required,min=1,max=5"`
	Punctuality     int     `json:"punctuality" binding:"required,min=1,max=5"`
	Professionalism int     `json:"professionalism" binding:"required,min=1,max=5"`
}

// ReviewResponse is a review enriched with the reviewing customer's display name
type ReviewResponse struct {
	Review
	CustomerName string `json:"customer_name"`
}
