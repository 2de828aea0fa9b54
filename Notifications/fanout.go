package Notifications

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"TaskHive/Models"
	"TaskHive/Socket"
)

// Notifier turns committed mutations into pushes and durable notification
// rows. Every method is fire-and-forget: it runs only after the primary
// write succeeded and never reports an error back to the request path.
// Push failures are logged and swallowed.
type Notifier struct {
	DB  *gorm.DB
	Hub *Socket.Hub
}

func New(db *gorm.DB, hub *Socket.Hub) *Notifier {
	return &Notifier{DB: db, Hub: hub}
}

type taskEvent struct {
	Task      *Models.Task `json:"task"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

type taskBroadcast struct {
	Task      *Models.Task `json:"task"`
	Timestamp time.Time    `json:"timestamp"`
}

type taskDeletedEvent struct {
	TaskID    uint      `json:"taskId"`
	TaskTitle string    `json:"taskTitle"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskCreated pushes a live taskAssigned to the assignee. No durable row
// is written on this path; the task list itself is the durable record.
func (n *Notifier) TaskCreated(task *Models.Task) {
	n.Hub.EmitToUser(task.AssignedToID, Socket.EventTaskAssigned, taskEvent{
		Task:      task,
		Message:   fmt.Sprintf("New task assigned: %s", task.Title),
		Timestamp: time.Now(),
	})
}

// TaskUpdated notifies the affected parties of an already-committed task
// update. previousAssignee is the assignee before the update.
func (n *Notifier) TaskUpdated(task *Models.Task, previousAssignee uint, statusChanged bool) {
	now := time.Now()

	if task.AssignedToID != previousAssignee {
		n.Hub.EmitToUser(task.AssignedToID, Socket.EventTaskAssigned, taskEvent{
			Task:      task,
			Message:   fmt.Sprintf("Task reassigned to you: %s", task.Title),
			Timestamp: now,
		})
	}

	n.Hub.EmitToUser(task.AssignedToID, Socket.EventTaskUpdated, taskEvent{
		Task:      task,
		Message:   fmt.Sprintf("Task updated: %s", task.Title),
		Timestamp: now,
	})

	if statusChanged && task.CreatedByID != task.AssignedToID {
		n.Hub.EmitToUser(task.CreatedByID, Socket.EventTaskStatusChanged, taskEvent{
			Task:      task,
			Message:   fmt.Sprintf("Task %q is now %s", task.Title, task.Status),
			Timestamp: now,
		})
	}

	// Keeps every open dashboard's task list consistent regardless of
	// who is online.
	n.Hub.Broadcast(Socket.EventTaskUpdatedBroadcast, taskBroadcast{Task: task, Timestamp: now})
}

// TaskDeleted tells the assignee's session to drop the task without a
// refetch.
func (n *Notifier) TaskDeleted(task *Models.Task) {
	n.Hub.EmitToUser(task.AssignedToID, Socket.EventTaskDeleted, taskDeletedEvent{
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Message:   fmt.Sprintf("Task deleted: %s", task.Title),
		Timestamp: time.Now(),
	})
}

// AnnouncementCreated broadcasts the announcement live and writes one
// durable notification per user except the author, so offline users see
// it on next login. Connected users other than the author also get an
// update_unreads nudge to refresh badge counts.
func (n *Notifier) AnnouncementCreated(a *Models.Announcement) {
	n.Hub.Broadcast(Socket.EventNewAnnouncement, a)

	var users []Models.User
	if err := n.DB.Where("id <> ?", a.CreatedByID).Find(&users).Error; err != nil {
		log.Printf("fanout: listing announcement recipients: %v", err)
		return
	}
	for _, user := range users {
		row := Models.Notification{
			UserID:  user.ID,
			Title:   a.Title,
			Message: a.Content,
			Type:    Models.NotifAnnouncement,
		}
		if err := n.DB.Create(&row).Error; err != nil {
			log.Printf("fanout: notification row for user %d: %v", user.ID, err)
			continue
		}
		n.mirrorToDevice(user.ID, a.Title, a.Content)
	}

	n.Hub.BroadcastExcept(a.CreatedByID, Socket.EventUpdateUnreads, nil)
}

// MessageSent pushes the message to the receiver's session if present,
// then nudges their badge counts. No durable row: the conversation list
// and unread counters are the offline record.
func (n *Notifier) MessageSent(msg *Models.Message) {
	if n.Hub.EmitToUser(msg.ReceiverID, Socket.EventReceiveMessage, msg) {
		n.Hub.EmitToUser(msg.ReceiverID, Socket.EventUpdateUnreads, nil)
	}
}

// ChannelMessageSent pushes to every session joined to the channel room.
func (n *Notifier) ChannelMessageSent(msg *Models.ChannelMessage) {
	n.Hub.EmitToChannel(msg.ChannelID, Socket.EventReceiveChannelMessage, msg)
}

// ChannelCreated announces the channel to its members (or everyone for a
// broadcast channel) and joins connected members to the room so they
// receive traffic immediately.
func (n *Notifier) ChannelCreated(channel *Models.Channel, memberIDs []uint) {
	if channel.IsBroadcast {
		n.Hub.Broadcast(Socket.EventNewChannel, channel)
		return
	}
	for _, userID := range memberIDs {
		n.Hub.EmitToUser(userID, Socket.EventNewChannel, channel)
		n.Hub.JoinUserToChannel(userID, channel.ID)
	}
}

// ChannelDeleted tells joined sessions to drop the channel, then closes
// the room.
func (n *Notifier) ChannelDeleted(channelID uint) {
	n.Hub.EmitToChannel(channelID, Socket.EventChannelDeleted, map[string]uint{"channelId": channelID})
	n.Hub.CloseChannel(channelID)
}

// MemberAdded notifies the new member and joins their session to the room.
func (n *Notifier) MemberAdded(channel *Models.Channel, userID uint) {
	n.Hub.EmitToUser(userID, Socket.EventAddedToChannel, channel)
	n.Hub.JoinUserToChannel(userID, channel.ID)
}

// UnreadsChanged nudges a single user's session to refetch badge counts,
// e.g. the reader's other session after a bulk mark-as-read.
func (n *Notifier) UnreadsChanged(userID uint) {
	n.Hub.EmitToUser(userID, Socket.EventUpdateUnreads, nil)
}
