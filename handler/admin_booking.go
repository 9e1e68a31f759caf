package handler

import (
	"errors"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/engine"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetBookings lists bookings for admins (all) and owners (their venues)
func GetBookings(c *fiber.Ctx) error {
	claim, isAdmin, isOwner := helper.GetInfoUserFromToken(c)
	if !isAdmin && !isOwner {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not permission"))
	}

	filterInput := new(model.FilterBooking)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB

	query := db.Model(&model.Booking{}).
		Joins("JOIN courts ON courts.id = bookings.court_id").
		Joins("JOIN venues ON venues.id = courts.venue_id")

	if isOwner && !isAdmin {
		query = query.Where("venues.owner_id = ?", claim.UserId)
	}
	if filterInput.Status != "" {
		query = query.Where("bookings.status = ?", filterInput.Status)
	}
	if filterInput.VenueId != 0 {
		query = query.Where("venues.id = ?", filterInput.VenueId)
	}
	if filterInput.CourtId != 0 {
		query = query.Where("bookings.court_id = ?", filterInput.CourtId)
	}
	if filterInput.UserId != 0 {
		query = query.Where("bookings.user_id = ?", filterInput.UserId)
	}
	if filterInput.Date != "" && utils.IsValidYMD(filterInput.Date) {
		date, _ := time.ParseInLocation("2006-01-02", filterInput.Date, time.Local)
		query = query.Where("bookings.start_time >= ? AND bookings.start_time < ?", date, date.Add(24*time.Hour))
	}

	var totalCount int64
	query.Session(&gorm.Session{}).Count(&totalCount)

	var bookings []model.Booking
	err := utils.ApplyPagination(query, filterInput.Limit, filterInput.Page).
		Order("bookings.created_at DESC").
		Preload("User").
		Preload("Court").
		Preload("Court.Venue").
		Preload("Payment").
		Find(&bookings).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       bookings,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

// TransitionBooking is the admin status-change endpoint; refund amount can be
// overridden and the user optionally notified
func TransitionBooking(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}
	bookingId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.AdminTransitionInput)

	db := database.DB

	var booking model.Booking
	if err := db.
		Preload("Court").
		Preload("Payment").
		First(&booking, bookingId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	admin := helper.CurrentUser(c)
	actorName := ""
	if admin != nil {
		actorName = admin.FullName
	}

	now := time.Now()
	decision, err := engine.Transition(helper.EngineBooking(booking), helper.EnginePayment(booking.Payment), engine.TransitionRequest{
		To:             engine.BookingStatus(input.Status),
		Reason:         input.Reason,
		RefundOverride: input.RefundAmount,
		NotifyUser:     input.NotifyUser,
		ActorID:        claim.UserId,
		ActorName:      actorName,
	}, now)
	if err != nil {
		return engineErrorResponse(c, constants.TRANSITION_FAILED, err)
	}

	warnings, err := helper.ApplyBookingDecision(db, &booking, decision)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.TRANSITION_FAILED, err)
	}

	if decision.Changed && booking.Court != nil {
		go helper.PublishVenueAvailability(booking.Court.VenueId, booking.BookingDate)
	}

	return utils.SuccessResponseWithWarnings(c, fiber.StatusOK, fiber.Map{
		"bookingCode": booking.PublicCode,
		"status":      booking.Status,
		"changed":     decision.Changed,
	}, warnings)
}

// GetRefunds lists refund records for reconciliation (admin only)
func GetRefunds(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	pagination := new(model.Pagination)
	if err := c.QueryParser(pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	var totalCount int64
	db.Model(&model.Refund{}).Count(&totalCount)

	var refunds []model.Refund
	err := utils.ApplyPagination(db.Model(&model.Refund{}).Order("id DESC"), pagination.Limit, pagination.Page).
		Find(&refunds).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       refunds,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

// ForceDeleteBooking removes a booking and its children entirely. Distinct
// destructive admin operation; does not go through the lifecycle engine.
func ForceDeleteBooking(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}
	bookingId := c.Locals("inputId").(int)

	db := database.DB

	var booking model.Booking
	if err := db.First(&booking, bookingId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&model.Refund{}).Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&model.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Delete booking failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": booking.PublicCode})
}
