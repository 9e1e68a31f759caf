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
)

// CreatePayment opens a payment record for a pending booking.
// TODO: wire a real gateway (VNPay/Stripe) here; ConfirmPayment currently
// stands in for the gateway callback.
func CreatePayment(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}
	input := c.Locals("input").(model.CreatePaymentInput)

	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ? AND user_id = ?", input.BookingId, user.ID).
		Preload("Payment").
		First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}
	if booking.Status != engine.BookingPending {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.TRANSITION_FAILED,
			errors.New("booking is not awaiting payment"))
	}
	if booking.Payment != nil && booking.Payment.Status != engine.PaymentFailed {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Payment already exists for this booking",
			errors.New("duplicate payment"))
	}

	payment := model.Payment{
		BookingId:   booking.ID,
		Amount:      booking.TotalAmount,
		PaymentCode: helper.GeneratePaymentCode(),
		Status:      engine.PaymentPending,
		Method:      input.Method,
	}
	if err := db.Create(&payment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Create payment failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"paymentCode": payment.PaymentCode,
		"amount":      payment.Amount,
		"status":      payment.Status,
	})
}

// ConfirmPayment marks a payment as completed and confirms the booking.
// Stands in for the gateway webhook; restricted to owners and admins so a
// cash payment at the front desk can also be recorded.
func ConfirmPayment(c *fiber.Ctx) error {
	claim, isAdmin, isOwner := helper.GetInfoUserFromToken(c)
	if !isAdmin && !isOwner {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not permission"))
	}
	paymentId := c.Locals("inputId").(int)

	db := database.DB

	var payment model.Payment
	if err := db.First(&payment, paymentId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.PAYMENT_NOT_FOUND, err)
	}
	if payment.Status == engine.PaymentCompleted {
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
			"paymentCode": payment.PaymentCode,
			"status":      payment.Status,
		})
	}

	var booking model.Booking
	if err := db.
		Preload("User").
		Preload("Court").
		Preload("Court.Venue").
		First(&booking, payment.BookingId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	if isOwner && !isAdmin {
		if booking.Court == nil || !helper.OwnsVenue(db, claim.UserId, booking.Court.VenueId) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your venue"))
		}
	}

	now := time.Now()
	payment.Status = engine.PaymentCompleted
	payment.PaidAt = &now
	if err := db.Save(&payment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Confirm payment failed", err)
	}

	actor := helper.CurrentUser(c)
	actorName := ""
	if actor != nil {
		actorName = actor.FullName
	}

	decision, err := engine.Transition(helper.EngineBooking(booking), helper.EnginePayment(&payment), engine.TransitionRequest{
		To:         engine.BookingConfirmed,
		NotifyUser: true,
		ActorID:    claim.UserId,
		ActorName:  actorName,
	}, now)
	if err != nil {
		return engineErrorResponse(c, constants.TRANSITION_FAILED, err)
	}

	warnings, err := helper.ApplyBookingDecision(db, &booking, decision)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.TRANSITION_FAILED, err)
	}

	if booking.Court != nil {
		go helper.PublishVenueAvailability(booking.Court.VenueId, booking.BookingDate)
	}

	if booking.User != nil {
		venueName, courtName := "", ""
		if booking.Court != nil {
			courtName = booking.Court.Name
			if booking.Court.Venue != nil {
				venueName = booking.Court.Venue.Name
			}
		}
		utils.SendBookingConfirmationEmail(booking.User.Email, utils.BookingEmailData{
			BookingCode: booking.PublicCode,
			VenueName:   venueName,
			CourtName:   courtName,
			PlayDate:    booking.BookingDate.Format("02/01/2006"),
			TimeRange:   booking.StartTime.Format("15:04") + " - " + booking.EndTime.Format("15:04"),
			TotalAmount: booking.TotalAmount,
		})
	}

	return utils.SuccessResponseWithWarnings(c, fiber.StatusOK, fiber.Map{
		"paymentCode": payment.PaymentCode,
		"bookingCode": booking.PublicCode,
		"status":      booking.Status,
	}, warnings)
}
