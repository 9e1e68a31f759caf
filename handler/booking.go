package handler

import (
	"encoding/base64"
	"errors"
	"log"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/engine"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBooking(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}
	input := c.Locals("input").(model.CreateBookingInput)

	db := database.DB

	var court model.Court
	if err := db.Preload("Venue").First(&court, input.CourtId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.COURT_NOT_FOUND, err)
	}
	if !court.IsActive || court.Venue == nil || !court.Venue.IsActive || !court.Venue.IsApproved {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Court is not bookable", errors.New("inactive court"))
	}
	if input.StartHour < court.Venue.OpenHour || input.EndHour > court.Venue.CloseHour {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Outside venue opening hours", errors.New("outside opening hours"))
	}

	date, _ := time.ParseInLocation("2006-01-02", input.BookingDate, time.Local)
	startTime := date.Add(time.Duration(input.StartHour) * time.Hour)
	endTime := date.Add(time.Duration(input.EndHour) * time.Hour)

	if startTime.Before(time.Now()) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot book a slot in the past", errors.New("past slot"))
	}

	conflict, err := helper.HasBookingConflict(db, court.ID, startTime, endTime)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if conflict {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.SLOT_NOT_AVAILABLE, errors.New("slot taken"))
	}

	booking := model.Booking{
		PublicCode:  helper.GenerateBookingCode(),
		UserId:      user.ID,
		CourtId:     court.ID,
		BookingDate: date,
		StartTime:   startTime,
		EndTime:     endTime,
		TotalAmount: court.PricePerHour * float64(input.EndHour-input.StartHour),
		Status:      engine.BookingPending,
	}
	if err := db.Create(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Create booking failed", err)
	}

	go helper.PublishVenueAvailability(court.VenueId, date)

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"bookingCode": booking.PublicCode,
		"totalAmount": booking.TotalAmount,
		"status":      booking.Status,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}

	var bookings []model.Booking
	if err := database.DB.
		Preload("Court").
		Preload("Court.Venue").
		Preload("Payment").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Load bookings failed", err)
	}

	response := []map[string]interface{}{}
	for _, booking := range bookings {
		venueName := ""
		courtName := ""
		if booking.Court != nil {
			courtName = booking.Court.Name
			if booking.Court.Venue != nil {
				venueName = booking.Court.Venue.Name
			}
		}
		response = append(response, map[string]interface{}{
			"bookingCode": booking.PublicCode,
			"venueName":   venueName,
			"courtName":   courtName,
			"date":        booking.BookingDate.Format("02/01/2006"),
			"time":        booking.StartTime.Format("15:04") + " - " + booking.EndTime.Format("15:04"),
			"totalAmount": booking.TotalAmount,
			"status":      booking.Status,
		})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetBookingDetail(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}
	bookingCode := c.Params("bookingCode")

	var booking model.Booking
	if err := database.DB.
		Preload("Court").
		Preload("Court.Venue").
		Preload("Court.Venue.Address").
		Preload("Payment").
		Preload("Refunds").
		Where("public_code = ? AND user_id = ?", bookingCode, user.ID).
		First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	// one QR per booking, scanned at the venue for check-in
	qrBytes, err := utils.GenerateQRCode(booking.PublicCode, 400)
	qrBase64 := ""
	if err != nil {
		log.Printf("QR generation failed for booking %s: %v", booking.PublicCode, err)
	} else {
		qrBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
	}

	venueName := ""
	courtName := ""
	address := ""
	if booking.Court != nil {
		courtName = booking.Court.Name
		if booking.Court.Venue != nil {
			venueName = booking.Court.Venue.Name
			if booking.Court.Venue.Address != nil {
				address = booking.Court.Venue.Address.FullAddress
			}
		}
	}

	response := map[string]interface{}{
		"bookingCode":        booking.PublicCode,
		"venueName":          venueName,
		"courtName":          courtName,
		"address":            address,
		"date":               booking.BookingDate.Format("02/01/2006"),
		"time":               booking.StartTime.Format("15:04") + " - " + booking.EndTime.Format("15:04"),
		"totalAmount":        booking.TotalAmount,
		"status":             booking.Status,
		"cancellationReason": booking.CancellationReason,
		"payment":            booking.Payment,
		"refunds":            booking.Refunds,
		"qrCode":             qrBase64,
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// GetRefundPreview shows the user what a cancellation would return right now
func GetRefundPreview(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}
	bookingCode := c.Params("bookingCode")

	var booking model.Booking
	if err := database.DB.Preload("Payment").
		Where("public_code = ? AND user_id = ?", bookingCode, user.ID).
		First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}
	if booking.Payment == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Booking has no payment", errors.New("no payment"))
	}

	eligibility, err := engine.ComputeRefundEligibility(
		helper.EngineBooking(booking),
		*helper.EnginePayment(booking.Payment),
		time.Now(),
	)
	if err != nil {
		return engineErrorResponse(c, "Refund preview unavailable", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, eligibility)
}

// CancelMyBooking is the user self-cancel path; refund follows the time policy
func CancelMyBooking(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}
	bookingCode := c.Params("bookingCode")
	input := c.Locals("input").(model.CancelBookingInput)

	db := database.DB

	var booking model.Booking
	if err := db.
		Preload("Court").
		Preload("Court.Venue").
		Preload("Payment").
		Where("public_code = ? AND user_id = ?", bookingCode, user.ID).
		First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	now := time.Now()
	decision, err := engine.Transition(helper.EngineBooking(booking), helper.EnginePayment(booking.Payment), engine.TransitionRequest{
		To:         engine.BookingCancelled,
		Reason:     input.Reason,
		NotifyUser: true,
		ActorID:    user.ID,
		ActorName:  user.FullName,
	}, now)
	if err != nil {
		return engineErrorResponse(c, constants.CANCEL_BOOKING_FAILED, err)
	}

	warnings, err := helper.ApplyBookingDecision(db, &booking, decision)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CANCEL_BOOKING_FAILED, err)
	}

	refundAmount := 0.0
	for _, effect := range decision.SideEffects {
		if effect.Kind == engine.EffectRefundCreate {
			refundAmount = effect.Refund.Amount
		}
	}

	// a repeated cancel is an accepted no-op: nothing to publish, nothing to mail
	if decision.Changed {
		if booking.Court != nil {
			go helper.PublishVenueAvailability(booking.Court.VenueId, booking.BookingDate)
		}
		venueName := ""
		courtName := ""
		if booking.Court != nil {
			courtName = booking.Court.Name
			if booking.Court.Venue != nil {
				venueName = booking.Court.Venue.Name
			}
		}
		utils.SendBookingCancelledEmail(user.Email, utils.BookingEmailData{
			BookingCode:  booking.PublicCode,
			VenueName:    venueName,
			CourtName:    courtName,
			PlayDate:     booking.BookingDate.Format("02/01/2006"),
			TimeRange:    booking.StartTime.Format("15:04") + " - " + booking.EndTime.Format("15:04"),
			TotalAmount:  booking.TotalAmount,
			RefundAmount: refundAmount,
			CancelledAt:  now.Format("15:04 - 02/01/2006"),
		})
	}

	return utils.SuccessResponseWithWarnings(c, fiber.StatusOK, fiber.Map{
		"message":      "Booking cancelled",
		"refundAmount": refundAmount,
	}, warnings)
}
