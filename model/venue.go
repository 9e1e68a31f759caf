package model

type Venue struct {
	DTO
	Name        string  `gorm:"not null" json:"name"`
	Slug        string  `gorm:"unique;size:120" json:"slug"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	OwnerId     uint    `gorm:"not null" json:"ownerId"`
	Owner       *User   `json:"owner,omitempty"`
	IsApproved  bool    `gorm:"default:false" json:"isApproved"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
	OpenHour    int     `gorm:"default:6" json:"openHour"`
	CloseHour   int     `gorm:"default:22" json:"closeHour"`
	Rating      float64 `json:"rating"` // cached display mean, refreshed by the rating job

	Address *Address     `json:"address,omitempty"`
	Courts  []Court      `gorm:"foreignKey:VenueId" json:"courts,omitempty"`
	Photos  []VenuePhoto `gorm:"foreignKey:VenueId" json:"photos,omitempty"`
	Reviews []Review     `gorm:"foreignKey:VenueId" json:"reviews,omitempty"`

	CourtCount int64 `gorm:"-" json:"courtCount,omitempty"`
}

type VenuePhoto struct {
	DTO
	VenueId  uint    `gorm:"not null" json:"venueId"`
	Url      *string `json:"url"`
	PublicId string  `json:"publicId"`
	IsCover  bool    `gorm:"default:false" json:"isCover"`
}

type CreateVenueInput struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Phone       string `json:"phone" validate:"omitempty,min=8,max=15"`
	Email       string `json:"email" validate:"omitempty,email"`
	OpenHour    int    `json:"openHour" validate:"min=0,max=23"`
	CloseHour   int    `json:"closeHour" validate:"min=1,max=24,gtfield=OpenHour"`
	Province    string `json:"province" validate:"required"`
	District    string `json:"district"`
	FullAddress string `json:"fullAddress" validate:"required,max=255"`
}

type EditVenueInput struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Phone       string `json:"phone" validate:"omitempty,min=8,max=15"`
	Email       string `json:"email" validate:"omitempty,email"`
	OpenHour    *int   `json:"openHour" validate:"omitempty,min=0,max=23"`
	CloseHour   *int   `json:"closeHour" validate:"omitempty,min=1,max=24"`
	IsActive    *bool  `json:"isActive"`
}

type FilterVenue struct {
	Pagination
	SearchKey string `query:"searchKey"`
	Province  string `query:"province"`
	District  string `query:"district"`
	Sport     string `query:"sport"`
}
