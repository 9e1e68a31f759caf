package model

import "time"

type Notification struct {
	DTO
	UserId  uint       `gorm:"not null;index" json:"userId"`
	Type    string     `gorm:"not null" json:"type"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Data    string     `json:"data"` // JSON correlation ids (bookingId, reviewId, adminId)
	ReadAt  *time.Time `json:"readAt,omitempty"`
}
