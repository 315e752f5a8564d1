package domain

import "encoding/json"

// WebSocket message types from client.
const (
	MsgTypeJoin       = "join"
	MsgTypeSignal     = "signal"
	MsgTypeChat       = "chat"
	MsgTypeHandRaise  = "hand_raise"
	MsgTypeReaction   = "reaction"
	MsgTypeKick       = "kick"
	MsgTypeEndMeeting = "end_meeting"
	MsgTypePing       = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeJoined           = "joined"
	MsgTypeBanned           = "banned"
	MsgTypeSignalForward    = "signal"
	MsgTypeChatBroadcast    = "chat"
	MsgTypeHandUpdate       = "hand_update"
	MsgTypeReactionUpdate   = "reaction_update"
	MsgTypeKicked           = "kicked"
	MsgTypeLeft             = "left"
	MsgTypeMeetingEnded     = "meeting_ended"
	MsgTypeEndMeetingResult = "end_meeting_result"
	MsgTypeError            = "error"
	MsgTypePong             = "pong"
)

// BaseMessage is the envelope every inbound frame is probed with.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

// JoinMessage requests admission to a room.
type JoinMessage struct {
	Type        string `json:"type"`
	RoomCode    string `json:"room_code"`
	DisplayName string `json:"display_name"`
}

// SignalMessage carries an opaque negotiation payload for one peer.
type SignalMessage struct {
	Type     string          `json:"type"`
	TargetID string          `json:"target_id"`
	Payload  json.RawMessage `json:"payload"`
}

// ChatMessageIn is an inbound chat message.
type ChatMessageIn struct {
	Type        string `json:"type"`
	Body        string `json:"body"`
	DisplayName string `json:"display_name"`
}

// HandRaiseMessage toggles the sender's raised hand.
type HandRaiseMessage struct {
	Type     string `json:"type"`
	Raised   bool   `json:"raised"`
	RoomCode string `json:"room_code"`
}

// ReactionMessage broadcasts an ephemeral emoji reaction.
type ReactionMessage struct {
	Type     string `json:"type"`
	Emoji    string `json:"emoji"`
	RoomCode string `json:"room_code"`
}

// KickMessage removes and bans a participant.
type KickMessage struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	RoomCode string `json:"room_code"`
}

// EndMeetingMessage ends the meeting for every participant. MeetingCode is
// the persistent record's code; when empty the room code is used.
type EndMeetingMessage struct {
	Type        string `json:"type"`
	RoomCode    string `json:"room_code"`
	MeetingCode string `json:"meeting_code"`
}

// Server -> Client messages

// JoinedMessage announces a new member to the whole room, including the
// member ids and the full roster snapshot at admission time.
type JoinedMessage struct {
	Type      string        `json:"type"`
	ConnID    string        `json:"conn_id"`
	MemberIDs []string      `json:"member_ids"`
	Roster    []RosterEntry `json:"roster"`
}

// BannedMessage rejects a join from a banned display name.
type BannedMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"room_code"`
}

// ChatBroadcast delivers a chat message to room members. FromID lets
// clients recognise their own echoed messages.
type ChatBroadcast struct {
	Type        string `json:"type"`
	Body        string `json:"body"`
	DisplayName string `json:"display_name"`
	FromID      string `json:"from_id"`
}

// SignalForward delivers a relayed negotiation payload.
type SignalForward struct {
	Type    string          `json:"type"`
	FromID  string          `json:"from_id"`
	Payload json.RawMessage `json:"payload"`
}

// HandUpdateMessage notifies other members of a hand state change.
type HandUpdateMessage struct {
	Type   string `json:"type"`
	FromID string `json:"from_id"`
	Raised bool   `json:"raised"`
}

// ReactionUpdateMessage fans a reaction out to the room.
type ReactionUpdateMessage struct {
	Type   string `json:"type"`
	FromID string `json:"from_id"`
	Emoji  string `json:"emoji"`
}

// KickedMessage tells the target it was removed from the room.
type KickedMessage struct {
	Type string `json:"type"`
}

// LeftMessage announces a departed member to the rest of the room.
type LeftMessage struct {
	Type        string `json:"type"`
	ConnID      string `json:"conn_id"`
	DisplayName string `json:"display_name"`
}

// MeetingEndedMessage tells every member the meeting is over.
type MeetingEndedMessage struct {
	Type string `json:"type"`
}

// EndMeetingResult acknowledges an end_meeting request to its issuer.
type EndMeetingResult struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrorMessage is sent when an inbound frame cannot be processed.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// NewErrorMessage creates a new error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
