package model

import "time"

type User struct {
	DTO
	FullName     string     `json:"fullName"`
	Email        string     `gorm:"unique;not null" json:"email"`
	Phone        string     `json:"phone"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"default:USER" json:"role"` // USER, OWNER, ADMIN
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	Venues []Venue `gorm:"foreignKey:OwnerId" json:"venues,omitempty"`
}

type RegisterInput struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=15"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type PasswordResetToken struct {
	DTO
	UserId    uint      `gorm:"not null" json:"userId"`
	Token     string    `gorm:"unique;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}
