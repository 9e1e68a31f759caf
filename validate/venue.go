package validate

import (
	"errors"
	"fmt"
	"strconv"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateVenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateVenueInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Cannot parse request: %s", err.Error()),
			})
		}

		if err := validate.Struct(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		var existing model.Venue
		if err := database.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.VENUE_NAME_EXISTS, fmt.Errorf("name already exists"), "name")
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func EditVenue(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		venueId, err := strconv.Atoi(c.Params(key))
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.EditVenueInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Cannot parse request: %s", err.Error()),
			})
		}

		if err := validate.Struct(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if input.OpenHour != nil && input.CloseHour != nil && *input.CloseHour <= *input.OpenHour {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Close hour must be after open hour", errors.New("invalid hours"), "closeHour")
		}

		c.Locals("inputId", venueId)
		c.Locals("input", input)
		return c.Next()
	}
}

func CreateCourt(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		venueId, err := strconv.Atoi(c.Params(key))
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.CreateCourtInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Cannot parse request: %s", err.Error()),
			})
		}

		if err := validate.Struct(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if !utils.IsValidValueOfConstant(input.SportType, constants.SportTypes) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Unknown sport type", errors.New("invalid sport"), "sportType")
		}

		c.Locals("inputId", venueId)
		c.Locals("input", input)
		return c.Next()
	}
}

func EditCourt(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courtId, err := strconv.Atoi(c.Params(key))
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.EditCourtInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Cannot parse request: %s", err.Error()),
			})
		}

		if err := validate.Struct(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if input.SportType != "" && !utils.IsValidValueOfConstant(input.SportType, constants.SportTypes) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Unknown sport type", errors.New("invalid sport"), "sportType")
		}

		c.Locals("inputId", courtId)
		c.Locals("input", input)
		return c.Next()
	}
}
