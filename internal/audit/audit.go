package audit

import (
	"context"

	"github.com/Raj72620/meet-relay/pkg/log"
)

// Audit actions for the relay.
const (
	ActionJoin       = "relay.join"
	ActionJoinBanned = "relay.join_banned"
	ActionKick       = "relay.kick"
	ActionEndMeeting = "relay.end_meeting"
	ActionDisconnect = "relay.disconnect"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
	FieldDetail   = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, connID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldConnID, connID).
		Msg(msg)
}

// LogWithTarget emits an audit log naming the connection the action was
// aimed at.
func LogWithTarget(ctx context.Context, action, connID, targetID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldConnID, connID).
		Str(FieldTargetID, targetID).
		Msg(msg)
}
