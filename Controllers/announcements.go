package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"TaskHive/Models"
	"TaskHive/Notifications"
)

type AnnouncementController struct {
	DB       *gorm.DB
	Notifier *Notifications.Notifier
}

func NewAnnouncementController(db *gorm.DB, notifier *Notifications.Notifier) *AnnouncementController {
	return &AnnouncementController{DB: db, Notifier: notifier}
}

type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateAnnouncement persists the announcement, then fans out: a global
// live broadcast plus one durable notification per user except the
// author. Admin only.
func (a *AnnouncementController) CreateAnnouncement(c *fiber.Ctx) error {
	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	author := c.Locals("user").(Models.User)
	announcement := Models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		CreatedByID: author.ID,
	}
	if err := a.DB.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}

	a.Notifier.AnnouncementCreated(&announcement)
	return c.Status(fiber.StatusCreated).JSON(announcement)
}

func (a *AnnouncementController) GetAnnouncements(c *fiber.Ctx) error {
	var announcements []Models.Announcement
	err := a.DB.Preload("CreatedBy").Order("created_at DESC").Find(&announcements).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve announcements"})
	}
	return c.JSON(announcements)
}
