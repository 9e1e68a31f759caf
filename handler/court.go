package handler

import (
	"errors"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetCourtsByVenueId(c *fiber.Ctx) error {
	venueId := c.Locals("inputId").(int)

	var courts []model.Court
	if err := database.DB.Where("venue_id = ?", venueId).Order("id").Find(&courts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, courts)
}

// GetCourtAvailability returns booked slots per court of a venue for one date
func GetCourtAvailability(c *fiber.Ctx) error {
	venueId := c.Locals("inputId").(int)

	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}
	if !utils.IsValidYMD(dateStr) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Date must be YYYY-MM-DD", errors.New("invalid date"))
	}
	date, _ := time.ParseInLocation("2006-01-02", dateStr, time.Local)

	availability, err := helper.FetchVenueAvailability(uint(venueId), date)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"venueId": venueId,
		"date":    dateStr,
		"courts":  availability,
	})
}

func CreateCourt(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	venueId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.CreateCourtInput)

	db := database.DB

	var venue model.Venue
	if err := db.First(&venue, venueId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}
	if !isAdmin && venue.OwnerId != claim.UserId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your venue"))
	}

	var newCourt model.Court
	copier.Copy(&newCourt, &input)
	newCourt.VenueId = venueId
	newCourt.IsActive = true

	if err := db.Create(&newCourt).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Create court failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, newCourt)
}

func EditCourt(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	courtId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.EditCourtInput)

	db := database.DB

	var court model.Court
	if err := db.Preload("Venue").First(&court, courtId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.COURT_NOT_FOUND, err)
	}
	if !isAdmin && (court.Venue == nil || court.Venue.OwnerId != claim.UserId) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your venue"))
	}

	if input.Name != "" {
		court.Name = input.Name
	}
	if input.SportType != "" {
		court.SportType = input.SportType
	}
	if input.Surface != "" {
		court.Surface = input.Surface
	}
	if input.Indoor != nil {
		court.Indoor = *input.Indoor
	}
	if input.PricePerHour != nil {
		court.PricePerHour = *input.PricePerHour
	}
	if input.IsActive != nil {
		court.IsActive = *input.IsActive
	}

	court.Venue = nil
	if err := db.Save(&court).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Update court failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, court)
}

func DeleteCourt(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	input := c.Locals("deleteIds").(model.ArrayId)

	db := database.DB

	if !isAdmin {
		// owners can only delete courts of venues they own
		var count int64
		db.Model(&model.Court{}).
			Joins("JOIN venues ON venues.id = courts.venue_id").
			Where("courts.id IN ? AND venues.owner_id = ?", input.IDs, claim.UserId).
			Count(&count)
		if count != int64(len(input.IDs)) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your court"))
		}
	}

	if err := db.Delete(&model.Court{}, input.IDs).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Delete court failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": len(input.IDs)})
}
