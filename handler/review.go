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

// CreateReview submits a review for a venue. One review per user per venue;
// it stays hidden until a moderator approves it.
func CreateReview(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}
	input := c.Locals("input").(model.CreateReviewInput)

	db := database.DB

	var existing int64
	db.Model(&model.Review{}).
		Where("venue_id = ? AND user_id = ?", input.VenueId, user.ID).
		Count(&existing)
	if existing > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ALREADY_REVIEWED, errors.New("duplicate review"))
	}

	review := model.Review{
		UserId:  user.ID,
		VenueId: input.VenueId,
		Rating:  input.Rating,
		Title:   input.Title,
		Comment: input.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Create review failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"id":         review.ID,
		"isApproved": review.IsApproved,
	})
}

// GetVenueReviews lists the approved reviews of a venue with the rating summary
func GetVenueReviews(c *fiber.Ctx) error {
	venueId := c.Locals("inputId").(int)

	pagination := new(model.Pagination)
	if err := c.QueryParser(pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB

	var venue model.Venue
	if err := db.First(&venue, venueId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}

	query := db.Model(&model.Review{}).Where("venue_id = ? AND is_approved = ?", venue.ID, true)

	var totalCount int64
	query.Session(&gorm.Session{}).Count(&totalCount)

	var reviews []model.Review
	err := utils.ApplyPagination(query, pagination.Limit, pagination.Page).
		Order("helpful_count DESC, created_at DESC").
		Preload("User").
		Find(&reviews).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	summary, err := helper.VenueRatingSummary(venue.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"rating": summary,
		"reviews": &model.ResponseCustom{
			Rows:       reviews,
			Limit:      pagination.Limit,
			Page:       pagination.Page,
			TotalCount: totalCount,
		},
	})
}

// VoteHelpful adds one helpful vote; the unique (review, voter) index in
// storage backs the engine's idempotence check under concurrency.
func VoteHelpful(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}
	reviewId := c.Locals("inputId").(int)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	var voted int64
	db.Model(&model.ReviewVote{}).
		Where("review_id = ? AND user_id = ?", review.ID, user.ID).
		Count(&voted)

	if _, err := engine.VoteHelpful(helper.EngineReview(*review, venueOwnerId), user.ID, voted > 0); err != nil {
		return engineErrorResponse(c, "Vote failed", err)
	}

	count, err := helper.ApplyVote(db, review, user.ID)
	if err != nil {
		// unique index hit means a concurrent duplicate vote
		return utils.ErrorResponse(c, fiber.StatusConflict, "You already voted on this review", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"helpfulCount": count})
}

// UnvoteHelpful withdraws a previously cast vote
func UnvoteHelpful(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}
	reviewId := c.Locals("inputId").(int)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	var voted int64
	db.Model(&model.ReviewVote{}).
		Where("review_id = ? AND user_id = ?", review.ID, user.ID).
		Count(&voted)

	if _, err := engine.UnvoteHelpful(helper.EngineReview(*review, venueOwnerId), user.ID, voted > 0); err != nil {
		return engineErrorResponse(c, "Unvote failed", err)
	}

	count, err := helper.RemoveVote(db, review, user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Unvote failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"helpfulCount": count})
}

// FlagReview reports a review for moderation; repeated reports accumulate
func FlagReview(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}
	reviewId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.FlagReviewInput)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	update := engine.Flag(helper.EngineReview(*review, venueOwnerId), user.ID, input.Reason)
	if _, err := helper.ApplyReviewUpdate(db, review, update); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Flag review failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"flagged": true})
}

// AddOwnerResponse attaches the venue owner's single reply to a review
func AddOwnerResponse(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	reviewId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.OwnerResponseInput)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	update, err := engine.AddOwnerResponse(helper.EngineReview(*review, venueOwnerId), claim.UserId, isAdmin, input.Text, time.Now())
	if err != nil {
		return engineErrorResponse(c, "Respond failed", err)
	}

	warnings, err := helper.ApplyReviewUpdate(db, review, update)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Respond failed", err)
	}

	return utils.SuccessResponseWithWarnings(c, fiber.StatusCreated, review, warnings)
}

// UpdateOwnerResponse rewrites an existing owner reply
func UpdateOwnerResponse(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	reviewId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.OwnerResponseInput)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	update, err := engine.UpdateOwnerResponse(helper.EngineReview(*review, venueOwnerId), claim.UserId, isAdmin, input.Text, time.Now())
	if err != nil {
		return engineErrorResponse(c, "Update response failed", err)
	}

	if _, err := helper.ApplyReviewUpdate(db, review, update); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Update response failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, review)
}

// DeleteOwnerResponse removes the owner reply
func DeleteOwnerResponse(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	reviewId := c.Locals("inputId").(int)

	db := database.DB

	review, venueOwnerId, err := loadReviewWithOwner(db, reviewId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
	}

	update, err := engine.DeleteOwnerResponse(helper.EngineReview(*review, venueOwnerId), claim.UserId, isAdmin)
	if err != nil {
		return engineErrorResponse(c, "Delete response failed", err)
	}

	if _, err := helper.ApplyReviewUpdate(db, review, update); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Delete response failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// loadReviewWithOwner fetches a review plus its venue's owner id in one go
func loadReviewWithOwner(db *gorm.DB, reviewId int) (*model.Review, uint, error) {
	var review model.Review
	if err := db.First(&review, reviewId).Error; err != nil {
		return nil, 0, err
	}
	var venue model.Venue
	if err := db.Select("id", "owner_id").First(&venue, review.VenueId).Error; err != nil {
		return nil, 0, err
	}
	return &review, venue.OwnerId, nil
}
