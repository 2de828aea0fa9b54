package Models

import (
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifAnnouncement NotificationType = "ANNOUNCEMENT"
	NotifTaskAssigned NotificationType = "TASK_ASSIGNED"
	NotifTaskUpdated  NotificationType = "TASK_UPDATED"
	NotifChannel      NotificationType = "CHANNEL"
)

// Notification is the durable record of an event, written after the
// primary mutation commits so offline users still see it. Only IsRead is
// ever mutated.
type Notification struct {
	gorm.Model
	UserID  uint             `json:"userId" gorm:"index"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	IsRead  bool             `json:"isRead" gorm:"default:false"`
}

type Announcement struct {
	gorm.Model
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreatedByID uint   `json:"createdById"`
	CreatedBy   *User  `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
}
