package repository

import (
	"context"
	"time"
)

// MeetingRepository is the relay's view of the persistent meeting store.
// The relay never creates meeting records; it only marks them ended when
// a host closes the session.
type MeetingRepository interface {
	// UpdateOnEnd sets isEnded and the end time on the meeting record.
	// A missing record is not an error: the live session is
	// authoritative and the write is best-effort bookkeeping.
	UpdateOnEnd(ctx context.Context, meetingCode string, endTime time.Time) error
}
