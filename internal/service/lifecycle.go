package service

import (
	"context"
	"time"

	"github.com/Raj72620/meet-relay/internal/audit"
	"github.com/Raj72620/meet-relay/internal/directory"
	"github.com/Raj72620/meet-relay/internal/domain"
	"github.com/Raj72620/meet-relay/pkg/log"
)

// HandleEndMeeting broadcasts and tears down first; the persistent update
// runs after and its failure only reaches the issuer through ack. Live
// participants are never held hostage to storage latency.
func (s *sessionService) HandleEndMeeting(ctx context.Context, connID, roomCode, meetingCode string, ack func(error)) error {
	l := log.Ctx(ctx)

	if meetingCode == "" {
		meetingCode = roomCode
	}

	var members []string
	s.dir.Close(roomCode, func(f directory.CloseFanout) {
		members = f.Members
		ended := &domain.MeetingEndedMessage{Type: domain.MsgTypeMeetingEnded}
		for _, id := range f.Members {
			s.sender.Send(id, ended)
		}
	})

	if s.registry != nil {
		for _, id := range members {
			if err := s.registry.Deregister(ctx, roomCode, id); err != nil {
				l.Warn().Err(err).Str(log.FieldRoomCode, roomCode).Msg("presence registry update failed")
			}
		}
	}

	err := s.meetings.UpdateOnEnd(ctx, meetingCode, time.Now())
	if err != nil {
		l.Error().Err(err).
			Str(log.FieldRoomCode, roomCode).
			Str(log.FieldMeetingCode, meetingCode).
			Msg("meeting record update failed, session already torn down")
	}
	if ack != nil {
		ack(err)
	}

	if s.producer != nil {
		if perr := s.producer.ProduceMeetingEnded(ctx, roomCode, meetingCode); perr != nil {
			l.Warn().Err(perr).Msg("failed to produce meeting_ended event")
		}
	}

	audit.Log(ctx, audit.ActionEndMeeting, connID, "meeting ended")
	l.Info().
		Str(log.FieldRoomCode, roomCode).
		Str(log.FieldMeetingCode, meetingCode).
		Int("participants", len(members)).
		Msg("meeting ended")
	return nil
}
