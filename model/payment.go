package model

import (
	"time"

	"quicksports/engine"
)

type Payment struct {
	DTO
	BookingId   uint                 `gorm:"not null;index" json:"bookingId"`
	Amount      float64              `gorm:"not null" json:"amount"`
	PaymentCode string               `gorm:"unique" json:"paymentCode"`
	Status      engine.PaymentStatus `gorm:"default:PENDING" json:"status"`
	Method      string               `json:"method"` // CARD, CASH, TRANSFER
	PaidAt      *time.Time           `json:"paidAt,omitempty"`

	Booking Booking `gorm:"foreignKey:BookingId" json:"-"`
}

type CreatePaymentInput struct {
	BookingId uint   `json:"bookingId" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,oneof=CARD CASH TRANSFER"`
}
