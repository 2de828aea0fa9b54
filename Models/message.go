package Models

import (
	"gorm.io/gorm"
)

// Message is a direct message between two users. Immutable once created
// except for the IsRead flip performed in bulk when the receiver opens
// the thread.
type Message struct {
	gorm.Model
	SenderID   uint   `json:"senderId" gorm:"index"`
	ReceiverID uint   `json:"receiverId" gorm:"index"`
	Content    string `json:"content"`
	IsRead     bool   `json:"isRead" gorm:"default:false"`
}

// Conversation is one entry of the derived conversations list: a
// counterpart plus the unread count from them. Never stored.
type Conversation struct {
	PartnerID   uint     `json:"partnerId"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int64    `json:"unreadCount"`
}

// BuildConversations derives the conversation list for user me from
// messages ordered newest first: distinct counterparts in order of first
// occurrence, each with the count of unread messages they sent to me.
func BuildConversations(newestFirst []Message, me uint) []Conversation {
	index := make(map[uint]int)
	var out []Conversation
	for i := range newestFirst {
		msg := newestFirst[i]
		partner := msg.SenderID
		if partner == me {
			partner = msg.ReceiverID
		}
		pos, seen := index[partner]
		if !seen {
			index[partner] = len(out)
			pos = len(out)
			out = append(out, Conversation{PartnerID: partner, LastMessage: &newestFirst[i]})
		}
		if msg.ReceiverID == me && msg.SenderID == partner && !msg.IsRead {
			out[pos].UnreadCount++
		}
	}
	return out
}
