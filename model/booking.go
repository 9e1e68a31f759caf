package model

import (
	"time"

	"quicksports/engine"
)

type Booking struct {
	DTO
	PublicCode         string               `gorm:"unique;size:20" json:"publicCode"` // e.g. BKG-XXXXXX
	UserId             uint                 `gorm:"not null;index" json:"userId"`
	User               *User                `json:"user,omitempty"`
	CourtId            uint                 `gorm:"not null;index" json:"courtId"`
	Court              *Court               `json:"court,omitempty"`
	BookingDate        time.Time            `gorm:"not null" json:"bookingDate"`
	StartTime          time.Time            `gorm:"not null" json:"startTime"`
	EndTime            time.Time            `gorm:"not null" json:"endTime"`
	TotalAmount        float64              `gorm:"not null" json:"totalAmount"`
	Status             engine.BookingStatus `gorm:"default:PENDING;index" json:"status"`
	ConfirmedAt        *time.Time           `json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time           `json:"cancelledAt,omitempty"`
	CancellationReason *string              `json:"cancellationReason,omitempty"`

	Payment *Payment `gorm:"foreignKey:BookingId" json:"payment,omitempty"`
	Refunds []Refund `gorm:"foreignKey:BookingId" json:"refunds,omitempty"`
}

type CreateBookingInput struct {
	CourtId     uint   `json:"courtId" validate:"required,gt=0"`
	BookingDate string `json:"bookingDate" validate:"required"` // 2006-01-02
	StartHour   int    `json:"startHour" validate:"min=0,max=23"`
	EndHour     int    `json:"endHour" validate:"min=1,max=24,gtfield=StartHour"`
}

type CancelBookingInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

type AdminTransitionInput struct {
	Status       string   `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	Reason       string   `json:"reason" validate:"max=500"`
	RefundAmount *float64 `json:"refundAmount" validate:"omitempty,gte=0"`
	NotifyUser   bool     `json:"notifyUser"`
}

type FilterBooking struct {
	Pagination
	Status  string `query:"status"`
	VenueId uint   `query:"venueId"`
	CourtId uint   `query:"courtId"`
	UserId  uint   `query:"userId"`
	Date    string `query:"date"` // 2006-01-02
}
