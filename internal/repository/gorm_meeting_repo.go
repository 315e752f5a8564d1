package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Raj72620/meet-relay/internal/domain"
	"github.com/Raj72620/meet-relay/pkg/log"
)

// GormMeetingRepository implements MeetingRepository using GORM.
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewGormMeetingRepository creates a new GORM-based meeting repository.
func NewGormMeetingRepository(db *gorm.DB) *GormMeetingRepository {
	return &GormMeetingRepository{db: db}
}

// UpdateOnEnd marks the meeting record ended. Zero matched rows means the
// record never existed or was already cleaned up; only database failures
// surface to the caller.
func (r *GormMeetingRepository) UpdateOnEnd(ctx context.Context, meetingCode string, endTime time.Time) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Model(&domain.MeetingModel{}).
		Where("meeting_code = ?", meetingCode).
		Updates(map[string]interface{}{
			"is_ended": true,
			"end_time": endTime,
		})
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldMeetingCode, meetingCode).Msg("failed to mark meeting ended")
		return result.Error
	}
	if result.RowsAffected == 0 {
		l.Warn().Str(log.FieldMeetingCode, meetingCode).Msg("no meeting record matched on end")
		return nil
	}
	l.Debug().Str(log.FieldMeetingCode, meetingCode).Msg("meeting marked ended")
	return nil
}
