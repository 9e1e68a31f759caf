package model

type Court struct {
	DTO
	VenueId      uint    `gorm:"not null;index" json:"venueId"`
	Venue        *Venue  `json:"venue,omitempty"`
	Name         string  `gorm:"not null" json:"name"`
	SportType    string  `gorm:"not null" json:"sportType"`
	Surface      string  `json:"surface"`
	Indoor       bool    `gorm:"default:false" json:"indoor"`
	PricePerHour float64 `gorm:"not null" json:"pricePerHour"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`
}

type CreateCourtInput struct {
	Name         string  `json:"name" validate:"required,min=1,max=80"`
	SportType    string  `json:"sportType" validate:"required"`
	Surface      string  `json:"surface" validate:"max=50"`
	Indoor       bool    `json:"indoor"`
	PricePerHour float64 `json:"pricePerHour" validate:"required,gt=0"`
}

type EditCourtInput struct {
	Name         string   `json:"name" validate:"omitempty,min=1,max=80"`
	SportType    string   `json:"sportType"`
	Surface      string   `json:"surface" validate:"max=50"`
	Indoor       *bool    `json:"indoor"`
	PricePerHour *float64 `json:"pricePerHour" validate:"omitempty,gt=0"`
	IsActive     *bool    `json:"isActive"`
}
