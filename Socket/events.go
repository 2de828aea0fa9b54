package Socket

// Client -> server events.
const (
	EventRegister     = "register"
	EventJoinChannel  = "join_channel"
	EventJoinChannels = "join_channels"
)

// Server -> client events. Names are the wire contract consumed by the
// frontend; do not rename without a coordinated client release.
const (
	EventTaskAssigned          = "taskAssigned"
	EventTaskUpdated           = "taskUpdated"
	EventTaskStatusChanged     = "taskStatusChanged"
	EventTaskUpdatedBroadcast  = "taskUpdatedBroadcast"
	EventTaskDeleted           = "taskDeleted"
	EventReceiveMessage        = "receive_message"
	EventReceiveChannelMessage = "receive_channel_message"
	EventNewAnnouncement       = "new_announcement"
	EventUpdateUnreads         = "update_unreads"
	EventNewChannel            = "new_channel"
	EventChannelDeleted        = "channel_deleted"
	EventAddedToChannel        = "added_to_channel"
)

// Frame is the envelope for every message in both directions.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}
