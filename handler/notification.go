package handler

import (
	"time"

	"quicksports/constants"
	"quicksports/database"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetMyNotifications lists the caller's notifications, unread first
func GetMyNotifications(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}

	pagination := new(model.Pagination)
	if err := c.QueryParser(pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB

	query := db.Model(&model.Notification{}).Where("user_id = ?", user.ID)

	var totalCount int64
	query.Session(&gorm.Session{}).Count(&totalCount)

	var unreadCount int64
	db.Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", user.ID).
		Count(&unreadCount)

	var notifications []model.Notification
	err = utils.ApplyPagination(query, pagination.Limit, pagination.Page).
		Order("read_at IS NULL DESC, created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"unreadCount": unreadCount,
		"notifications": &model.ResponseCustom{
			Rows:       notifications,
			Limit:      pagination.Limit,
			Page:       pagination.Page,
			TotalCount: totalCount,
		},
	})
}

// MarkNotificationRead stamps one notification as read
func MarkNotificationRead(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}
	notificationId := c.Locals("inputId").(int)

	db := database.DB

	var notification model.Notification
	if err := db.Where("id = ? AND user_id = ?", notificationId, user.ID).
		First(&notification).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOTIFICATION_NOT_FOUND, err)
	}

	if notification.ReadAt == nil {
		now := time.Now()
		if err := db.Model(&notification).Update("read_at", now).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Mark read failed", err)
		}
		notification.ReadAt = &now
	}

	return utils.SuccessResponse(c, fiber.StatusOK, notification)
}

// MarkAllNotificationsRead stamps every unread notification of the caller
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	user, err := helper.RequireLogin(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.LOGIN_REQUIRED, err)
	}

	db := database.DB

	result := db.Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", user.ID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Mark all read failed", result.Error)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"marked": result.RowsAffected})
}
