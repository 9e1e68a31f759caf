package handler

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/jordan-wright/email"
)

func Register(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RegisterInput)

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var newUser model.User
	copier.Copy(&newUser, &input)
	newUser.PasswordHash = hash
	newUser.Role = constants.ROLE_USER
	newUser.IsActive = true

	if err := database.DB.Create(&newUser).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Register failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"id":       newUser.ID,
		"fullName": newUser.FullName,
		"email":    newUser.Email,
	})
}

func Me(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func ChangePassword(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return err
	}
	input := c.Locals("input").(model.ChangePassword)

	if !helper.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Current password is wrong", errors.New("password mismatch"))
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := database.DB.Model(user).Update("password_hash", hash).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Change password failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Password changed")
}

func ForgotPassword(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ForgotPasswordInput)
	db := database.DB

	var user model.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		// do not reveal whether the email exists
		return utils.SuccessResponse(c, fiber.StatusOK, "If the email exists, a reset link has been sent")
	}

	resetToken := model.PasswordResetToken{
		UserId:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := db.Create(&resetToken).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", os.Getenv("FRONTEND_URL"), resetToken.Token)

	e := email.NewEmail()
	e.From = os.Getenv("SMTP_FROM")
	e.To = []string{user.Email}
	e.Subject = "Password reset"
	e.Text = []byte(fmt.Sprintf("Click the link to reset your password: %s", resetLink))
	addr := os.Getenv("SMTP_HOST") + ":" + os.Getenv("SMTP_PORT")
	if err := e.Send(addr, smtp.PlainAuth("", os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), os.Getenv("SMTP_HOST"))); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not send reset email", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "If the email exists, a reset link has been sent")
}

func ResetPassword(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ResetPasswordInput)
	db := database.DB

	var resetToken model.PasswordResetToken
	if err := db.Where("token = ? AND expires_at > ?", input.Token, time.Now()).First(&resetToken).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Token is invalid or expired", err)
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := db.Model(&model.User{}).Where("id = ?", resetToken.UserId).Update("password_hash", hash).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", err)
	}

	db.Delete(&resetToken)

	return utils.SuccessResponse(c, fiber.StatusOK, "Password has been reset")
}

// GetUsers lists accounts for the admin dashboard
func GetUsers(c *fiber.Ctx) error {
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
	db.Model(&model.User{}).Count(&totalCount)

	var users []model.User
	query := utils.ApplyPagination(db.Model(&model.User{}).Order("id DESC"), pagination.Limit, pagination.Page)
	if err := query.Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       users,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}
