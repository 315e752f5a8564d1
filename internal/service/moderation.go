package service

import (
	"context"

	"github.com/Raj72620/meet-relay/internal/audit"
	"github.com/Raj72620/meet-relay/internal/directory"
	"github.com/Raj72620/meet-relay/internal/domain"
	"github.com/Raj72620/meet-relay/pkg/log"
)

func (s *sessionService) HandleHandRaise(ctx context.Context, connID, roomCode string, raised bool) error {
	update := &domain.HandUpdateMessage{
		Type:   domain.MsgTypeHandUpdate,
		FromID: connID,
		Raised: raised,
	}
	s.dir.ForEachMember(roomCode, func(memberID string) {
		if memberID != connID {
			s.sender.Send(memberID, update)
		}
	})
	return nil
}

func (s *sessionService) HandleReaction(ctx context.Context, connID, roomCode, emoji string) error {
	// Ephemeral: everyone sees it, including the sender; never stored.
	update := &domain.ReactionUpdateMessage{
		Type:   domain.MsgTypeReactionUpdate,
		FromID: connID,
		Emoji:  emoji,
	}
	s.dir.ForEachMember(roomCode, func(memberID string) {
		s.sender.Send(memberID, update)
	})
	return nil
}

// HandleKick trusts the caller to hold host authority; verification is
// the upstream's responsibility.
func (s *sessionService) HandleKick(ctx context.Context, issuedBy, targetID, roomCode string) error {
	var target domain.Connection
	kicked := s.dir.Kick(targetID, roomCode, func(f directory.KickFanout) {
		target = *f.Target

		s.sender.Send(targetID, &domain.KickedMessage{Type: domain.MsgTypeKicked})

		left := &domain.LeftMessage{
			Type:        domain.MsgTypeLeft,
			ConnID:      targetID,
			DisplayName: f.Target.DisplayName,
		}
		for _, id := range f.Remaining {
			s.sender.Send(id, left)
		}
	})
	if !kicked {
		// Target already gone: no broadcast, no error.
		return nil
	}

	s.sender.CloseConn(targetID)

	if s.registry != nil {
		if err := s.registry.Deregister(ctx, roomCode, targetID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str(log.FieldRoomCode, roomCode).Msg("presence registry update failed")
		}
	}
	if s.producer != nil {
		if err := s.producer.ProduceParticipantKicked(ctx, roomCode, targetID, target.DisplayName); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to produce participant_kicked event")
		}
	}

	audit.LogWithTarget(ctx, audit.ActionKick, issuedBy, targetID, "participant kicked and banned")
	log.Ctx(ctx).Info().
		Str(log.FieldConnID, targetID).
		Str(log.FieldRoomCode, roomCode).
		Str(log.FieldDisplayName, target.DisplayName).
		Msg("participant kicked")
	return nil
}
