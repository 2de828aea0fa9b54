package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"TaskHive/Models"
	"TaskHive/Notifications"
)

type ChannelController struct {
	DB       *gorm.DB
	Notifier *Notifications.Notifier
	Now      func() time.Time
}

func NewChannelController(db *gorm.DB, notifier *Notifications.Notifier) *ChannelController {
	return &ChannelController{DB: db, Notifier: notifier, Now: time.Now}
}

type CreateChannelRequest struct {
	Name        string `json:"name" validate:"required"`
	IsBroadcast bool   `json:"isBroadcast"`
	MemberIDs   []uint `json:"memberIds"`
}

// CreateChannel creates a channel and its memberships. Admin only.
// Broadcast channels carry no membership rows; every user is implicitly a
// member and rows appear lazily on first read.
func (ch *ChannelController) CreateChannel(c *fiber.Ctx) error {
	var req CreateChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	creator := c.Locals("user").(Models.User)
	channel := Models.Channel{
		Name:        req.Name,
		IsBroadcast: req.IsBroadcast,
		CreatedByID: creator.ID,
	}
	if err := ch.DB.Create(&channel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create channel"})
	}

	memberIDs := req.MemberIDs
	if !channel.IsBroadcast {
		seen := map[uint]bool{creator.ID: true}
		memberIDs = []uint{creator.ID}
		for _, id := range req.MemberIDs {
			if !seen[id] {
				seen[id] = true
				memberIDs = append(memberIDs, id)
			}
		}
		for _, userID := range memberIDs {
			member := Models.ChannelMember{ChannelID: channel.ID, UserID: userID}
			if err := ch.DB.Create(&member).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add channel members"})
			}
		}
	}

	ch.Notifier.ChannelCreated(&channel, memberIDs)
	return c.Status(fiber.StatusCreated).JSON(channel)
}

// DeleteChannel removes the channel with its memberships and history.
// Admin only.
func (ch *ChannelController) DeleteChannel(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
	}

	var channel Models.Channel
	if err := ch.DB.First(&channel, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Channel not found"})
	}

	ch.DB.Where("channel_id = ?", channel.ID).Delete(&Models.ChannelMember{})
	ch.DB.Where("channel_id = ?", channel.ID).Delete(&Models.ChannelMessage{})
	if err := ch.DB.Delete(&channel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete channel"})
	}

	ch.Notifier.ChannelDeleted(channel.ID)
	return c.JSON(fiber.Map{"message": "Channel deleted successfully"})
}

type channelView struct {
	Models.Channel
	UnreadCount int64 `json:"unreadCount"`
}

// GetChannels lists the channels visible to the caller: broadcast
// channels plus explicit memberships, each with an unread count.
func (ch *ChannelController) GetChannels(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)

	var memberRows []Models.ChannelMember
	if err := ch.DB.Where("user_id = ?", me.ID).Find(&memberRows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve memberships"})
	}
	memberOf := make([]uint, 0, len(memberRows))
	for _, row := range memberRows {
		memberOf = append(memberOf, row.ChannelID)
	}

	var channels []Models.Channel
	query := ch.DB.Order("created_at DESC")
	if len(memberOf) > 0 {
		query = query.Where("is_broadcast = ? OR id IN ?", true, memberOf)
	} else {
		query = query.Where("is_broadcast = ?", true)
	}
	if err := query.Find(&channels).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve channels"})
	}

	views := make([]channelView, 0, len(channels))
	for i := range channels {
		unread, err := Models.ChannelUnreadCount(ch.DB, &channels[i], me.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count unreads"})
		}
		views = append(views, channelView{Channel: channels[i], UnreadCount: unread})
	}
	return c.JSON(views)
}

type AddMemberRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

// AddMember adds a user to a channel. Admin only.
func (ch *ChannelController) AddMember(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
	}

	var channel Models.Channel
	if err := ch.DB.First(&channel, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Channel not found"})
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	var user Models.User
	if err := ch.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	member := Models.ChannelMember{ChannelID: channel.ID, UserID: req.UserID}
	if err := ch.DB.Where("channel_id = ? AND user_id = ?", channel.ID, req.UserID).
		FirstOrCreate(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
	}

	ch.Notifier.MemberAdded(&channel, req.UserID)
	return c.Status(fiber.StatusCreated).JSON(member)
}

type SendChannelMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// SendChannelMessage appends to the channel history and pushes to joined
// sessions. Membership (or a broadcast channel) is required to post.
func (ch *ChannelController) SendChannelMessage(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
	}

	var channel Models.Channel
	if err := ch.DB.First(&channel, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Channel not found"})
	}

	me := c.Locals("user").(Models.User)
	if !channel.IsBroadcast {
		var member Models.ChannelMember
		err := ch.DB.Where("channel_id = ? AND user_id = ?", channel.ID, me.ID).First(&member).Error
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not a member of this channel"})
		}
	}

	var req SendChannelMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	msg := Models.ChannelMessage{
		ChannelID: channel.ID,
		SenderID:  me.ID,
		Content:   req.Content,
	}
	if err := ch.DB.Create(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	ch.Notifier.ChannelMessageSent(&msg)
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetChannelMessages returns the full history, oldest first. Also serves
// members whose sessions never joined the live room.
func (ch *ChannelController) GetChannelMessages(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
	}

	var channel Models.Channel
	if err := ch.DB.First(&channel, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Channel not found"})
	}

	var msgs []Models.ChannelMessage
	err = ch.DB.Preload("Sender").
		Where("channel_id = ?", channel.ID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve messages"})
	}
	return c.JSON(msgs)
}

// MarkChannelRead advances the caller's read cursor, creating the
// membership row if absent (broadcast channels).
func (ch *ChannelController) MarkChannelRead(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
	}

	var channel Models.Channel
	if err := ch.DB.First(&channel, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Channel not found"})
	}

	me := c.Locals("user").(Models.User)
	if err := Models.MarkChannelRead(ch.DB, channel.ID, me.ID, ch.Now()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark channel read"})
	}
	return c.JSON(fiber.Map{"message": "Channel marked read"})
}
