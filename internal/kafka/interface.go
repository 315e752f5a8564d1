package kafka

import "context"

// LifecycleEvent represents a meeting lifecycle change.
type LifecycleEvent struct {
	Type        string `json:"type"` // "meeting_ended" | "participant_kicked"
	RoomCode    string `json:"room_code"`
	MeetingCode string `json:"meeting_code,omitempty"`
	ConnID      string `json:"conn_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// Event types
const (
	EventMeetingEnded      = "meeting_ended"
	EventParticipantKicked = "participant_kicked"
)

// LifecycleEventProducer publishes meeting lifecycle events for
// downstream consumers (history, analytics, presence).
type LifecycleEventProducer interface {
	ProduceMeetingEnded(ctx context.Context, roomCode, meetingCode string) error
	ProduceParticipantKicked(ctx context.Context, roomCode, connID, displayName string) error
	Close() error
}
