package handler

import (
	"errors"
	"strings"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type VenueWithCourtCount struct {
	model.Venue
	CourtCount int64 `gorm:"column:court_count"`
}

// GetVenues lists venues for the admin/owner dashboard
func GetVenues(c *fiber.Ctx) error {
	filterInput := new(model.FilterVenue)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	claim, isAdmin, isOwner := helper.GetInfoUserFromToken(c)
	if !isAdmin && !isOwner {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.CAN_NOT_GET_VENUE, errors.New("not permission"))
	}

	limit := 10
	page := 1
	if filterInput.Limit != nil && *filterInput.Limit > 0 {
		limit = *filterInput.Limit
		if limit > 500 {
			limit = 500
		}
	}
	if filterInput.Page != nil && *filterInput.Page > 0 {
		page = *filterInput.Page
	}
	offset := (page - 1) * limit

	baseQuery := db.Model(&model.Venue{}).
		Select("venues.*, COALESCE(COUNT(DISTINCT courts.id), 0) AS court_count").
		Joins("LEFT JOIN addresses ON addresses.venue_id = venues.id").
		Joins("LEFT JOIN courts ON courts.venue_id = venues.id")

	if isOwner && !isAdmin {
		baseQuery = baseQuery.Where("venues.owner_id = ?", claim.UserId)
	}
	if filterInput.SearchKey != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(filterInput.SearchKey)) + "%"
		baseQuery = baseQuery.Where(
			db.Where("LOWER(venues.name) LIKE ?", search).
				Or("LOWER(addresses.province) LIKE ?", search).
				Or("LOWER(addresses.district) LIKE ?", search).
				Or("LOWER(addresses.full_address) LIKE ?", search),
		)
	}
	if filterInput.Province != "" {
		baseQuery = baseQuery.Where("LOWER(addresses.province) LIKE ?", "%"+strings.ToLower(filterInput.Province)+"%")
	}
	if filterInput.District != "" {
		baseQuery = baseQuery.Where("LOWER(addresses.district) LIKE ?", "%"+strings.ToLower(filterInput.District)+"%")
	}
	if filterInput.Sport != "" {
		baseQuery = baseQuery.Where("courts.sport_type = ?", strings.ToUpper(filterInput.Sport))
	}

	var totalCount int64
	countQuery := baseQuery.Session(&gorm.Session{})
	if err := countQuery.Group("venues.id").Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Count failed", err)
	}

	var venues []VenueWithCourtCount
	err := baseQuery.
		Group("venues.id").
		Offset(offset).
		Limit(limit).
		Order("venues.id DESC").
		Preload("Address").
		Preload("Photos").
		Find(&venues).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Query failed", err)
	}

	var result []model.Venue
	for _, item := range venues {
		venue := item.Venue
		venue.CourtCount = item.CourtCount
		venue.Courts = nil
		result = append(result, venue)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       result,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

// BrowseVenues is the public listing: approved + active venues only
func BrowseVenues(c *fiber.Ctx) error {
	filterInput := new(model.FilterVenue)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB

	limit := 10
	page := 1
	if filterInput.Limit != nil && *filterInput.Limit > 0 && *filterInput.Limit <= 100 {
		limit = *filterInput.Limit
	}
	if filterInput.Page != nil && *filterInput.Page > 0 {
		page = *filterInput.Page
	}

	query := db.Model(&model.Venue{}).
		Joins("LEFT JOIN addresses ON addresses.venue_id = venues.id").
		Where("venues.is_approved = ? AND venues.is_active = ?", true, true)

	if filterInput.SearchKey != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(filterInput.SearchKey)) + "%"
		query = query.Where(
			db.Where("LOWER(venues.name) LIKE ?", search).
				Or("LOWER(addresses.full_address) LIKE ?", search),
		)
	}
	if filterInput.Province != "" {
		query = query.Where("LOWER(addresses.province) LIKE ?", "%"+strings.ToLower(filterInput.Province)+"%")
	}
	if filterInput.Sport != "" {
		query = query.Where("EXISTS (SELECT 1 FROM courts WHERE courts.venue_id = venues.id AND courts.sport_type = ? AND courts.is_active)", strings.ToUpper(filterInput.Sport))
	}

	var totalCount int64
	query.Session(&gorm.Session{}).Distinct("venues.id").Count(&totalCount)

	var result []model.Venue
	err := query.
		Group("venues.id").
		Offset((page - 1) * limit).
		Limit(limit).
		Order("venues.rating DESC, venues.id DESC").
		Preload("Address").
		Preload("Photos").
		Find(&result).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Query failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       result,
		Limit:      &limit,
		Page:       &page,
		TotalCount: totalCount,
	})
}

// GetVenueDetail is the public detail page: courts, photos, rating summary
func GetVenueDetail(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var venue model.Venue
	err := database.DB.
		Preload("Address").
		Preload("Photos").
		Preload("Courts", "is_active = ?", true).
		Where("slug = ? AND is_approved = ? AND is_active = ?", slug, true, true).
		First(&venue).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}

	summary, err := helper.VenueRatingSummary(venue.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"venue":  venue,
		"rating": summary,
	})
}

func CreateVenue(c *fiber.Ctx) error {
	claim, isAdmin, isOwner := helper.GetInfoUserFromToken(c)
	if !isAdmin && !isOwner {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not permission"))
	}
	input := c.Locals("input").(model.CreateVenueInput)

	db := database.DB

	var newVenue model.Venue
	copier.Copy(&newVenue, &input)
	newVenue.OwnerId = claim.UserId
	newVenue.IsActive = true
	newVenue.IsApproved = isAdmin // owner-created venues wait for admin approval
	newVenue.Slug = helper.GenerateUniqueVenueSlug(db, input.Name)
	newVenue.Address = &model.Address{
		Province:    input.Province,
		District:    input.District,
		FullAddress: input.FullAddress,
	}

	if err := db.Create(&newVenue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Create venue failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, newVenue)
}

func EditVenue(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	venueId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.EditVenueInput)

	db := database.DB

	var venue model.Venue
	if err := db.First(&venue, venueId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}
	if !isAdmin && venue.OwnerId != claim.UserId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your venue"))
	}

	if input.Name != "" && input.Name != venue.Name {
		venue.Name = input.Name
		venue.Slug = helper.GenerateUniqueVenueSlug(db, input.Name)
	}
	if input.Description != "" {
		venue.Description = input.Description
	}
	if input.Phone != "" {
		venue.Phone = input.Phone
	}
	if input.Email != "" {
		venue.Email = input.Email
	}
	if input.OpenHour != nil {
		venue.OpenHour = *input.OpenHour
	}
	if input.CloseHour != nil {
		venue.CloseHour = *input.CloseHour
	}
	if input.IsActive != nil {
		venue.IsActive = *input.IsActive
	}

	if err := db.Save(&venue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Update venue failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, venue)
}

// ApproveVenue publishes an owner-submitted venue (admin only)
func ApproveVenue(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}
	venueId := c.Locals("inputId").(int)

	db := database.DB
	var venue model.Venue
	if err := db.First(&venue, venueId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}

	if err := db.Model(&venue).Update("is_approved", true).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Approve venue failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, venue)
}

func DeleteVenue(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}
	input := c.Locals("deleteIds").(model.ArrayId)

	db := database.DB
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venue_id IN ?", input.IDs).Delete(&model.Court{}).Error; err != nil {
			return err
		}
		if err := tx.Where("venue_id IN ?", input.IDs).Delete(&model.Address{}).Error; err != nil {
			return err
		}
		if err := tx.Where("venue_id IN ?", input.IDs).Delete(&model.VenuePhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Venue{}, input.IDs).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Delete venue failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": len(input.IDs)})
}
