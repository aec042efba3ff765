package controllers

import (
	"strconv"
	"time"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetMyNotifications returns the current user's notifications
func (nc *NotificationController) GetMyNotifications(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	query := database.DB.Where("user_id = ?", user.ID)
	if unread := c.Query("unread"); unread == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch notifications", err))
	}

	var unreadCount int64
	database.DB.Model(&models.Notification{}).Where("user_id = ? AND read = ?", user.ID, false).Count(&unreadCount)

	return utils.Success(c, fiber.Map{
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// MarkNotificationRead marks a single notification as read
func (nc *NotificationController) MarkNotificationRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid notification ID"))
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).First(&notification).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Notification not found"))
	}

	now := time.Now()
	if err := database.DB.Model(&notification).Updates(map[string]interface{}{
		"read":    true,
		"read_at": now,
	}).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to mark notification read", err))
	}

	return utils.Success(c, notification)
}

// MarkAllNotificationsRead marks every unread notification as read
func (nc *NotificationController) MarkAllNotificationsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return utils.RespondError(c, utils.InternalError("Failed to mark notifications read", result.Error))
	}

	return utils.Success(c, fiber.Map{"marked": result.RowsAffected})
}
