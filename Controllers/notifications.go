package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"TaskHive/Models"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)

	var notifications []Models.Notification
	err := Models.DB.Where("user_id = ?", me.ID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve notifications"})
	}
	return c.JSON(notifications)
}

// MarkAllNotificationsRead flips every unread notification of the caller.
// Other users' rows are untouched.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)

	result := Models.DB.Model(&Models.Notification{}).
		Where("user_id = ? AND is_read = ?", me.ID, false).
		Update("is_read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}
	return c.JSON(fiber.Map{"updated": result.RowsAffected})
}

// GetUnreadCounts serves the badge refetch triggered by update_unreads.
func GetUnreadCounts(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)

	var notifications int64
	Models.DB.Model(&Models.Notification{}).
		Where("user_id = ? AND is_read = ?", me.ID, false).
		Count(&notifications)

	var messages int64
	Models.DB.Model(&Models.Message{}).
		Where("receiver_id = ? AND is_read = ?", me.ID, false).
		Count(&messages)

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"messages":      messages,
	})
}
