package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelUnreadFallsBackToCreation(t *testing.T) {
	db := testDB(t)

	channel := Channel{Name: "general"}
	require.NoError(t, db.Create(&channel).Error)
	require.NoError(t, db.Create(&ChannelMessage{ChannelID: channel.ID, SenderID: 2, Content: "hi"}).Error)

	// User 1 never read the channel: everything since creation counts.
	unread, err := ChannelUnreadCount(db, &channel, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMarkChannelReadResetsUnread(t *testing.T) {
	db := testDB(t)

	channel := Channel{Name: "general"}
	require.NoError(t, db.Create(&channel).Error)
	require.NoError(t, db.Create(&ChannelMessage{ChannelID: channel.ID, SenderID: 2, Content: "hi"}).Error)

	require.NoError(t, MarkChannelRead(db, channel.ID, 1, time.Now().Add(time.Minute)))

	unread, err := ChannelUnreadCount(db, &channel, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// Marking twice keeps a single membership row.
	require.NoError(t, MarkChannelRead(db, channel.ID, 1, time.Now().Add(2*time.Minute)))
	var members int64
	db.Model(&ChannelMember{}).Where("channel_id = ?", channel.ID).Count(&members)
	assert.Equal(t, int64(1), members)
}
