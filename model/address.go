package model

type Address struct {
	DTO
	VenueId     uint    `gorm:"not null" json:"venueId"`
	Province    string  `json:"province"`
	District    string  `json:"district"`
	FullAddress string  `json:"fullAddress"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
