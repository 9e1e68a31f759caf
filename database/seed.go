package database

import (
	"log"

	"quicksports/constants"
	"quicksports/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("123456qs"), 10)
	hashPassword := string(bytes)
	if err != nil {
		hashPassword = "123456qs"
	}

	users := []model.User{
		{FullName: "Administration", Email: "admin@quicksports.local", PasswordHash: hashPassword, IsActive: true, Role: constants.ROLE_ADMIN},
		{FullName: "Demo Owner", Email: "owner@quicksports.local", PasswordHash: hashPassword, IsActive: true, Role: constants.ROLE_OWNER},
	}

	for _, user := range users {
		if err := db.Where(model.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
			log.Println("failed to seed user:", user.Email, "error:", err)
		}
	}

	var owner model.User
	if err := db.Where("email = ?", "owner@quicksports.local").First(&owner).Error; err != nil {
		return
	}

	var count int64
	db.Model(&model.Venue{}).Count(&count)
	if count > 0 {
		return
	}

	venue := model.Venue{
		Name:        "QuickSports Arena",
		Slug:        "quicksports-arena",
		Description: "Demo venue seeded on first run",
		OwnerId:     owner.ID,
		IsApproved:  true,
		IsActive:    true,
		OpenHour:    6,
		CloseHour:   22,
		Address: &model.Address{
			Province:    "Hanoi",
			District:    "Cau Giay",
			FullAddress: "1 Tran Thai Tong, Cau Giay, Hanoi",
		},
		Courts: []model.Court{
			{Name: "Court 1", SportType: "BADMINTON", Surface: "WOOD", Indoor: true, PricePerHour: 120000, IsActive: true},
			{Name: "Court 2", SportType: "BADMINTON", Surface: "WOOD", Indoor: true, PricePerHour: 120000, IsActive: true},
			{Name: "Futsal A", SportType: "FUTSAL", Surface: "TURF", PricePerHour: 350000, IsActive: true},
		},
	}
	if err := db.Create(&venue).Error; err != nil {
		log.Println("failed to seed demo venue:", err)
	}
}
