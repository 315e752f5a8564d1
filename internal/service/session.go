package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Raj72620/meet-relay/internal/audit"
	"github.com/Raj72620/meet-relay/internal/directory"
	"github.com/Raj72620/meet-relay/internal/domain"
	"github.com/Raj72620/meet-relay/internal/kafka"
	"github.com/Raj72620/meet-relay/internal/registry"
	"github.com/Raj72620/meet-relay/internal/repository"
	"github.com/Raj72620/meet-relay/pkg/log"
)

// sessionService implements SessionService around the room directory.
// registry and producer may be nil; the relay runs without them.
type sessionService struct {
	dir      *directory.Directory
	sender   Sender
	meetings repository.MeetingRepository
	registry registry.Registry
	producer kafka.LifecycleEventProducer
}

// NewSessionService creates the session service.
func NewSessionService(
	dir *directory.Directory,
	sender Sender,
	meetings repository.MeetingRepository,
	reg registry.Registry,
	producer kafka.LifecycleEventProducer,
) SessionService {
	return &sessionService{
		dir:      dir,
		sender:   sender,
		meetings: meetings,
		registry: reg,
		producer: producer,
	}
}

func (s *sessionService) HandleJoin(ctx context.Context, connID, roomCode, displayName string) error {
	l := log.Ctx(ctx)

	err := s.join(ctx, connID, roomCode, displayName)
	if errors.Is(err, directory.ErrAlreadyJoined) {
		// At most one room per connection: migrate out of the old one.
		if err := s.leave(ctx, connID); err != nil {
			return err
		}
		err = s.join(ctx, connID, roomCode, displayName)
	}

	if errors.Is(err, directory.ErrBanned) {
		audit.Log(ctx, audit.ActionJoinBanned, connID, "join rejected, display name banned")
		s.sender.Send(connID, &domain.BannedMessage{Type: domain.MsgTypeBanned, RoomCode: roomCode})
		return nil
	}
	if err != nil {
		return err
	}

	if s.registry != nil {
		if err := s.registry.Register(ctx, roomCode, connID); err != nil {
			l.Warn().Err(err).Str(log.FieldRoomCode, roomCode).Msg("presence registry update failed")
		}
	}

	audit.Log(ctx, audit.ActionJoin, connID, "joined room")
	l.Info().
		Str(log.FieldConnID, connID).
		Str(log.FieldRoomCode, roomCode).
		Str(log.FieldDisplayName, displayName).
		Msg("participant joined")
	return nil
}

func (s *sessionService) join(ctx context.Context, connID, roomCode, displayName string) error {
	return s.dir.Join(connID, roomCode, displayName, func(f directory.JoinFanout) {
		joined := &domain.JoinedMessage{
			Type:      domain.MsgTypeJoined,
			ConnID:    connID,
			MemberIDs: f.MemberIDs,
			Roster:    f.Roster,
		}
		for _, id := range f.MemberIDs {
			s.sender.Send(id, joined)
		}

		// Transcript replay, original order, joiner only.
		for _, msg := range f.Replay {
			s.sender.Send(connID, &domain.ChatBroadcast{
				Type:        domain.MsgTypeChatBroadcast,
				Body:        msg.Body,
				DisplayName: msg.DisplayName,
				FromID:      msg.SenderID,
			})
		}
	})
}

func (s *sessionService) HandleSignal(ctx context.Context, fromID, targetID string, payload json.RawMessage) error {
	// Verbatim, fire-and-forget: the hub drops payloads for dead targets.
	return s.sender.Send(targetID, &domain.SignalForward{
		Type:    domain.MsgTypeSignalForward,
		FromID:  fromID,
		Payload: payload,
	})
}

func (s *sessionService) HandleChat(ctx context.Context, senderID, displayName, body string) error {
	err := s.dir.AppendChat(senderID, displayName, body, func(f directory.ChatFanout) {
		echo := &domain.ChatBroadcast{
			Type:        domain.MsgTypeChatBroadcast,
			Body:        f.Message.Body,
			DisplayName: f.Message.DisplayName,
			FromID:      f.Message.SenderID,
		}
		for _, id := range f.Members {
			s.sender.Send(id, echo)
		}
	})
	if errors.Is(err, directory.ErrNotFound) {
		// Sender is not in any room; nothing to broadcast.
		log.Ctx(ctx).Debug().Str(log.FieldConnID, senderID).Msg("chat from unregistered connection dropped")
		return nil
	}
	return err
}

func (s *sessionService) HandleDisconnect(ctx context.Context, connID string) error {
	conn, err := s.dir.Connection(connID)
	if errors.Is(err, directory.ErrNotFound) {
		// Connected but never joined a room.
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.leave(ctx, connID); err != nil && !errors.Is(err, directory.ErrNotFound) {
		return err
	}

	audit.Log(ctx, audit.ActionDisconnect, connID, "participant disconnected")
	log.Ctx(ctx).Info().
		Str(log.FieldConnID, connID).
		Str(log.FieldRoomCode, conn.RoomCode).
		Dur("session_duration", time.Since(conn.JoinedAt)).
		Msg("participant left")
	return nil
}

// leave removes the connection from its room and notifies the remainder.
func (s *sessionService) leave(ctx context.Context, connID string) error {
	var roomCode string
	err := s.dir.Leave(connID, func(f directory.LeaveFanout) {
		roomCode = f.Conn.RoomCode
		left := &domain.LeftMessage{
			Type:        domain.MsgTypeLeft,
			ConnID:      connID,
			DisplayName: f.Conn.DisplayName,
		}
		for _, id := range f.Remaining {
			s.sender.Send(id, left)
		}
	})
	if err != nil {
		return err
	}

	if s.registry != nil && roomCode != "" {
		if err := s.registry.Deregister(ctx, roomCode, connID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str(log.FieldRoomCode, roomCode).Msg("presence registry update failed")
		}
	}
	return nil
}
