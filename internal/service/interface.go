package service

import (
	"context"
	"encoding/json"
)

// Sender delivers outbound frames to live connections. Implemented by the
// hub; sends to unknown connections are silently dropped.
type Sender interface {
	Send(connID string, message interface{}) error
	CloseConn(connID string)
}

// SessionService handles every inbound session event. One method per
// event kind, all routed through the single dispatch switch in the
// WebSocket handler.
type SessionService interface {
	// HandleJoin admits a connection to a room, or rejects it with a
	// ban notice sent to the caller only.
	HandleJoin(ctx context.Context, connID, roomCode, displayName string) error

	// HandleSignal forwards an opaque negotiation payload to one peer,
	// at most once; undeliverable payloads are dropped.
	HandleSignal(ctx context.Context, fromID, targetID string, payload json.RawMessage) error

	// HandleChat appends to the sender's room transcript and echoes the
	// message to every member including the sender.
	HandleChat(ctx context.Context, senderID, displayName, body string) error

	// HandleHandRaise notifies every other room member of a hand state
	// change.
	HandleHandRaise(ctx context.Context, connID, roomCode string, raised bool) error

	// HandleReaction fans an ephemeral reaction out to the whole room,
	// sender included.
	HandleReaction(ctx context.Context, connID, roomCode, emoji string) error

	// HandleKick bans and force-removes a participant. Unknown targets
	// are a strict no-op.
	HandleKick(ctx context.Context, issuedBy, targetID, roomCode string) error

	// HandleEndMeeting broadcasts the end of the meeting, tears the room
	// down, then updates the persistent meeting record. ack receives nil
	// on success or the persistence error; teardown is never reversed.
	HandleEndMeeting(ctx context.Context, connID, roomCode, meetingCode string, ack func(error)) error

	// HandleDisconnect removes a connection on transport close and
	// notifies the remaining room members.
	HandleDisconnect(ctx context.Context, connID string) error
}
