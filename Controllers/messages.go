package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"TaskHive/Models"
	"TaskHive/Notifications"
)

type MessageController struct {
	DB       *gorm.DB
	Notifier *Notifications.Notifier
}

func NewMessageController(db *gorm.DB, notifier *Notifications.Notifier) *MessageController {
	return &MessageController{DB: db, Notifier: notifier}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

func (m *MessageController) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var receiver Models.User
	if err := m.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Receiver not found"})
	}

	sender := c.Locals("user").(Models.User)
	msg := Models.Message{
		SenderID:   sender.ID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := m.DB.Create(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	m.Notifier.MessageSent(&msg)
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversations derives the conversation list from the message table:
// distinct counterparts, most recent activity first, annotated with unread
// counts. Nothing is cached; the messages are the single source of truth.
func (m *MessageController) GetConversations(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)

	var msgs []Models.Message
	err := m.DB.
		Where("sender_id = ? OR receiver_id = ?", me.ID, me.ID).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve messages"})
	}

	return c.JSON(Models.BuildConversations(msgs, me.ID))
}

// GetThread returns the full history with one partner, oldest first.
func (m *MessageController) GetThread(c *fiber.Ctx) error {
	partnerID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	me := c.Locals("user").(Models.User)
	var msgs []Models.Message
	err = m.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			me.ID, partnerID, partnerID, me.ID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve messages"})
	}
	return c.JSON(msgs)
}

// MarkRead flips every unread message from the given sender in one bulk
// update. Idempotent: a second call reports zero updated. The reader's
// own session gets an update_unreads nudge for multi-tab badge refresh;
// the sender is not notified.
func (m *MessageController) MarkRead(c *fiber.Ctx) error {
	senderID, err := strconv.Atoi(c.Params("senderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid sender ID"})
	}

	me := c.Locals("user").(Models.User)
	result := m.DB.Model(&Models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, me.ID, false).
		Update("is_read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark messages read"})
	}

	m.Notifier.UnreadsChanged(me.ID)
	return c.JSON(fiber.Map{"updated": result.RowsAffected})
}
