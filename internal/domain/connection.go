package domain

import "time"

// Connection is the registry record for one live transport connection.
// A connection that was never registered is unknown to the directory; once
// it leaves (voluntarily or by kick) its record is destroyed and the id is
// never reused, so no further events can be accepted for it.
type Connection struct {
	ID          string
	RoomCode    string
	DisplayName string
	JoinedAt    time.Time
}

// RosterEntry is one member of a room's ordered roster snapshot.
type RosterEntry struct {
	ConnID      string `json:"conn_id"`
	DisplayName string `json:"display_name"`
}
