package model

import "time"

type Review struct {
	DTO
	UserId          uint       `gorm:"not null;index" json:"userId"`
	User            *User      `json:"user,omitempty"`
	VenueId         uint       `gorm:"not null;index" json:"venueId"`
	Rating          int        `gorm:"not null" json:"rating"` // 1-5
	Title           string     `gorm:"size:120" json:"title"`
	Comment         string     `gorm:"size:2000" json:"comment"`
	IsApproved      bool       `gorm:"default:false" json:"isApproved"`
	IsFlagged       bool       `gorm:"default:false" json:"isFlagged"`
	FlagReason      *string    `json:"flagReason,omitempty"`
	HelpfulCount    int        `gorm:"default:0" json:"helpfulCount"`
	OwnerResponse   *string    `gorm:"size:2000" json:"ownerResponse,omitempty"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty"`
	ModeratedBy     *uint      `json:"moderatedBy,omitempty"`
	ModeratedAt     *time.Time `json:"moderatedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`

	Votes []ReviewVote `gorm:"foreignKey:ReviewId" json:"-"`
}

// ReviewVote is one helpful vote; (review_id, user_id) unique at the storage layer
type ReviewVote struct {
	DTO
	ReviewId uint `gorm:"not null;uniqueIndex:idx_review_voter" json:"reviewId"`
	UserId   uint `gorm:"not null;uniqueIndex:idx_review_voter" json:"userId"`
}

type CreateReviewInput struct {
	VenueId uint   `json:"venueId" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"max=120"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ModerateReviewInput struct {
	Action string `json:"action" validate:"required,oneof=APPROVE REJECT"`
	Reason string `json:"reason" validate:"max=500"`
}

type FlagReviewInput struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type OwnerResponseInput struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
