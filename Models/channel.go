package Models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Channel struct {
	gorm.Model
	Name        string          `json:"name"`
	IsBroadcast bool            `json:"isBroadcast"`
	CreatedByID uint            `json:"createdById"`
	Members     []ChannelMember `json:"members,omitempty"`
}

// ChannelMember tracks membership and the read cursor. For broadcast
// channels rows are created lazily on first read, since every user is
// implicitly a member.
type ChannelMember struct {
	gorm.Model
	ChannelID  uint       `json:"channelId" gorm:"uniqueIndex:idx_channel_member"`
	UserID     uint       `json:"userId" gorm:"uniqueIndex:idx_channel_member"`
	LastReadAt *time.Time `json:"lastReadAt,omitempty"`
}

// ChannelMessage is append-only.
type ChannelMessage struct {
	gorm.Model
	ChannelID uint   `json:"channelId" gorm:"index"`
	SenderID  uint   `json:"senderId"`
	Content   string `json:"content"`
	Sender    *User  `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// ChannelUnreadCount counts messages created after the member's read
// cursor, falling back to the channel's creation time when the user has
// never read the channel.
func ChannelUnreadCount(db *gorm.DB, channel *Channel, userID uint) (int64, error) {
	since := channel.CreatedAt
	var member ChannelMember
	err := db.Where("channel_id = ? AND user_id = ?", channel.ID, userID).First(&member).Error
	if err == nil && member.LastReadAt != nil {
		since = *member.LastReadAt
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	var count int64
	err = db.Model(&ChannelMessage{}).
		Where("channel_id = ? AND created_at > ?", channel.ID, since).
		Count(&count).Error
	return count, err
}

// MarkChannelRead advances the member's read cursor to now, creating the
// membership row if absent.
func MarkChannelRead(db *gorm.DB, channelID, userID uint, now time.Time) error {
	member := ChannelMember{ChannelID: channelID, UserID: userID, LastReadAt: &now}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_at", "updated_at"}),
	}).Create(&member).Error
}
