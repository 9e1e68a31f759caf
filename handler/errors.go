package handler

import (
	"quicksports/constants"
	"quicksports/engine"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
)

// engineErrorResponse maps engine error kinds to HTTP status codes.
func engineErrorResponse(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch engine.KindOf(err) {
	case engine.KindNotFound:
		status = fiber.StatusNotFound
	case engine.KindNotVenueOwner:
		status = fiber.StatusForbidden
	case engine.KindAlreadyVoted, engine.KindAlreadyResponded:
		status = fiber.StatusConflict
	case engine.KindInvalidTransition, engine.KindMissingReason, engine.KindInvalidState,
		engine.KindCannotVoteOwnReview, engine.KindNotVoted, engine.KindNoResponseToUpdate:
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		// unexpected failure, do not leak detail
		return utils.ErrorResponse(c, status, constants.ERROR_INTERNAL_ERROR, nil)
	}
	return utils.ErrorResponse(c, status, message, err)
}
