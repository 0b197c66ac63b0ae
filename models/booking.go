package models

import "time"

// Booking statuses. A new booking always starts pending, whatever the client sent.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type Payment struct {
	Amount    float64 `json:"amount,omitempty" bson:"amount,omitempty"`
	Status    string  `json:"status,omitempty" bson:"status,omitempty"`
	Method    string  `json:"method,omitempty" bson:"method,omitempty"`
	Reference string  `json:"reference,omitempty" bson:"reference,omitempty"`
}

type Booking struct {
	ID              string     `json:"id" bson:"id"`
	RoomID          string     `json:"roomId" bson:"roomId"`
	UserID          string     `json:"userId" bson:"userId"`
	Title           string     `json:"title" bson:"title"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	StartTime       time.Time  `json:"startTime" bson:"startTime"`
	EndTime         time.Time  `json:"endTime" bson:"endTime"`
	Status          string     `json:"status" bson:"status"` // pending, confirmed, cancelled
	RejectionReason string     `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	Attendees       int        `json:"attendees,omitempty" bson:"attendees,omitempty"`
	ResourceIDs     []string   `json:"resourceIds,omitempty" bson:"resourceIds,omitempty"`
	Payment         *Payment   `json:"payment,omitempty" bson:"payment,omitempty"`
	CheckInTime     *time.Time `json:"checkInTime,omitempty" bson:"checkInTime,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
}
