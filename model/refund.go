package model

import "quicksports/engine"

type Refund struct {
	DTO
	BookingId        uint                `gorm:"not null;index" json:"bookingId"`
	PaymentId        uint                `gorm:"not null" json:"paymentId"`
	UserId           uint                `gorm:"not null" json:"userId"`
	Amount           float64             `gorm:"not null" json:"amount"`
	OriginalAmount   float64             `gorm:"not null" json:"originalAmount"`
	RefundPercentage int                 `json:"refundPercentage"` // 0-100, reflects the amount actually used
	Reason           string              `json:"reason"`
	Status           engine.RefundStatus `gorm:"default:PENDING" json:"status"`
	Notes            string              `json:"notes"` // JSON: actor id/name, timestamp, override flag
}
