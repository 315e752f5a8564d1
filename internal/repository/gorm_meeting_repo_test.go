package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Raj72620/meet-relay/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MeetingModel{}))
	return db
}

func seedMeeting(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.MeetingModel{
		ID:          uuid.New().String(),
		MeetingCode: code,
		HostID:      "host-1",
		StartTime:   time.Now().Add(-time.Hour),
	}).Error)
}

func TestUpdateOnEnd_MarksMeetingEnded(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	seedMeeting(t, db, "MEET-9")

	repo := NewGormMeetingRepository(db)
	endTime := time.Now()
	req.NoError(repo.UpdateOnEnd(context.Background(), "MEET-9", endTime))

	var stored domain.MeetingModel
	req.NoError(db.Where("meeting_code = ?", "MEET-9").First(&stored).Error)
	req.True(stored.IsEnded)
	req.NotNil(stored.EndTime)
	req.WithinDuration(endTime, *stored.EndTime, time.Second)
}

func TestUpdateOnEnd_MissingRecordIsNotAnError(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)

	repo := NewGormMeetingRepository(db)
	req.NoError(repo.UpdateOnEnd(context.Background(), "NO-SUCH-MEETING", time.Now()))
}

func TestUpdateOnEnd_LeavesOtherMeetingsAlone(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	seedMeeting(t, db, "MEET-1")
	seedMeeting(t, db, "MEET-2")

	repo := NewGormMeetingRepository(db)
	req.NoError(repo.UpdateOnEnd(context.Background(), "MEET-1", time.Now()))

	var other domain.MeetingModel
	req.NoError(db.Where("meeting_code = ?", "MEET-2").First(&other).Error)
	req.False(other.IsEnded)
	req.Nil(other.EndTime)
}
