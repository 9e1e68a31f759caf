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

// GetModerationQueue returns the reviews waiting on a moderator: unapproved
// submissions first, then approved-but-flagged ones.
func GetModerationQueue(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	pagination := new(model.Pagination)
	if err := c.QueryParser(pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB

	query := db.Model(&model.Review{}).
		Where("is_approved = ? OR is_flagged = ?", false, true)

	var totalCount int64
	query.Session(&gorm.Session{}).Count(&totalCount)

	var reviews []model.Review
	err := utils.ApplyPagination(query, pagination.Limit, pagination.Page).
		Order("is_approved ASC, created_at ASC").
		Preload("User").
		Find(&reviews).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       reviews,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

// ModerateReview applies an admin APPROVE or REJECT to a review. Rejection
// removes the row; approval publishes it and refreshes the venue rating.
func ModerateReview(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}
	reviewId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.ModerateReviewInput)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	update, err := engine.Moderate(helper.EngineReview(*review, venueOwnerId),
		engine.ModerationAction(input.Action), claim.UserId, input.Reason, time.Now())
	if err != nil {
		return engineErrorResponse(c, "Moderation failed", err)
	}

	warnings, err := helper.ApplyReviewUpdate(db, review, update)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Moderation failed", err)
	}

	if update.Changed {
		if _, err := helper.RefreshVenueRating(review.VenueId); err != nil {
			warnings = append(warnings, "rating refresh failed: "+err.Error())
		}
	}

	return utils.SuccessResponseWithWarnings(c, fiber.StatusOK, fiber.Map{
		"action":  input.Action,
		"changed": update.Changed,
		"deleted": update.Delete,
	}, warnings)
}
