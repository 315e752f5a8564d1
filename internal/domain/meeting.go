package domain

import (
	"time"
)

// Meeting is the persistent meeting record kept by the surrounding system.
// The relay only ever flips IsEnded/EndTime when a host ends the meeting;
// creation and validation belong to the meeting API service.
type Meeting struct {
	ID          string     `json:"id"`
	MeetingCode string     `json:"meeting_code"`
	HostID      string     `json:"host_id"`
	HasPassword bool       `json:"has_password"`
	IsEnded     bool       `json:"is_ended"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// MeetingModel is the GORM model for the meetings table.
type MeetingModel struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	MeetingCode string `gorm:"type:varchar(32);uniqueIndex;not null"`
	HostID      string `gorm:"type:varchar(64);index"`
	Password    string `gorm:"type:varchar(128)"`
	IsEnded     bool   `gorm:"index;not null;default:false"`
	StartTime   time.Time
	EndTime     *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for MeetingModel.
func (MeetingModel) TableName() string {
	return "meetings"
}

// ToDomain converts MeetingModel to domain Meeting.
func (m *MeetingModel) ToDomain() *Meeting {
	return &Meeting{
		ID:          m.ID,
		MeetingCode: m.MeetingCode,
		HostID:      m.HostID,
		HasPassword: m.Password != "",
		IsEnded:     m.IsEnded,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
	}
}
