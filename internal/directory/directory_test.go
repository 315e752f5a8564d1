package directory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raj72620/meet-relay/internal/domain"
)

func TestJoin_CreatesRoomAndOrdersRoster(t *testing.T) {
	req := require.New(t)
	d := New()

	var fanout JoinFanout
	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.NoError(d.Join("conn-b", "ABC123", "bob", func(f JoinFanout) { fanout = f }))

	req.True(d.HasRoom("ABC123"))
	req.Equal([]string{"conn-a", "conn-b"}, d.Members("ABC123"))

	req.Equal([]string{"conn-a", "conn-b"}, fanout.MemberIDs)
	req.Equal([]domain.RosterEntry{
		{ConnID: "conn-a", DisplayName: "alice"},
		{ConnID: "conn-b", DisplayName: "bob"},
	}, fanout.Roster)

	room, err := d.LookupRoom("conn-b")
	req.NoError(err)
	req.Equal("ABC123", room)
}

func TestJoin_SameConnectionTwiceFails(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.ErrorIs(d.Join("conn-a", "XYZ789", "alice", nil), ErrAlreadyJoined)

	// Still only a member of the first room.
	req.Equal([]string{"conn-a"}, d.Members("ABC123"))
	req.False(d.HasRoom("XYZ789"))
}

func TestLeave_RosterShrinksAndEmptyRoomDies(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.NoError(d.Join("conn-b", "ABC123", "bob", nil))

	var fanout LeaveFanout
	req.NoError(d.Leave("conn-a", func(f LeaveFanout) { fanout = f }))

	// Mutation happens before delivery: the leaver is already gone.
	req.Equal("alice", fanout.Conn.DisplayName)
	req.Equal([]string{"conn-b"}, fanout.Remaining)
	req.True(d.HasRoom("ABC123"))

	req.NoError(d.Leave("conn-b", nil))
	req.False(d.HasRoom("ABC123"))

	_, err := d.LookupRoom("conn-a")
	req.ErrorIs(err, ErrNotFound)
}

func TestLeave_UnknownConnection(t *testing.T) {
	require.ErrorIs(t, New().Leave("ghost", nil), ErrNotFound)
}

func TestAppendChat_TranscriptOrderAndJoinReplay(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf("message %d", i)
		var fanout ChatFanout
		req.NoError(d.AppendChat("conn-a", "alice", body, func(f ChatFanout) { fanout = f }))
		req.Equal(body, fanout.Message.Body)
		req.Equal([]string{"conn-a"}, fanout.Members)
	}

	// A joiner replays everything appended before admission, in order.
	var fanout JoinFanout
	req.NoError(d.Join("conn-b", "ABC123", "bob", func(f JoinFanout) { fanout = f }))
	req.Len(fanout.Replay, 3)
	for i, msg := range fanout.Replay {
		req.Equal(fmt.Sprintf("message %d", i), msg.Body)
		req.Equal("conn-a", msg.SenderID)
		req.Equal("alice", msg.DisplayName)
	}
}

func TestAppendChat_UsesRegisteredNameWhenEmpty(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))

	var fanout ChatFanout
	req.NoError(d.AppendChat("conn-a", "", "hello", func(f ChatFanout) { fanout = f }))
	req.Equal("alice", fanout.Message.DisplayName)
}

func TestAppendChat_UnknownSender(t *testing.T) {
	req := require.New(t)
	d := New()

	called := false
	req.ErrorIs(d.AppendChat("ghost", "x", "hi", func(ChatFanout) { called = true }), ErrNotFound)
	req.False(called)
}

func TestKick_BansRemovesAndReports(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.NoError(d.Join("conn-b", "ABC123", "bob", nil))

	var fanout KickFanout
	req.True(d.Kick("conn-b", "ABC123", func(f KickFanout) { fanout = f }))

	req.Equal("bob", fanout.Target.DisplayName)
	req.Equal([]string{"conn-a"}, fanout.Remaining)
	req.Equal([]string{"conn-a"}, d.Members("ABC123"))

	_, err := d.LookupRoom("conn-b")
	req.ErrorIs(err, ErrNotFound)

	// The banned name cannot rejoin this room instance.
	req.ErrorIs(d.Join("conn-c", "ABC123", "bob", nil), ErrBanned)
	_, err = d.LookupRoom("conn-c")
	req.ErrorIs(err, ErrNotFound)
}

func TestKick_MissingTargetIsNoOp(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))

	called := false
	req.False(d.Kick("ghost", "ABC123", func(KickFanout) { called = true }))
	req.False(called)
	req.Equal([]string{"conn-a"}, d.Members("ABC123"))
}

func TestKick_TargetInDifferentRoomIsNoOp(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.NoError(d.Join("conn-b", "XYZ789", "bob", nil))

	req.False(d.Kick("conn-b", "ABC123", nil))
	req.Equal([]string{"conn-b"}, d.Members("XYZ789"))
}

func TestBan_ClearedWhenRoomIsRecreated(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.NoError(d.Join("conn-b", "ABC123", "bob", nil))
	req.True(d.Kick("conn-b", "ABC123", nil))
	req.ErrorIs(d.Join("conn-c", "ABC123", "bob", nil), ErrBanned)

	// Draining the room discards the ban set with it.
	req.NoError(d.Leave("conn-a", nil))
	req.False(d.HasRoom("ABC123"))

	req.NoError(d.Join("conn-d", "ABC123", "bob", nil))
	req.Equal([]string{"conn-d"}, d.Members("ABC123"))
}

func TestClose_TearsDownEverything(t *testing.T) {
	req := require.New(t)
	d := New()

	req.NoError(d.Join("conn-a", "ABC123", "alice", nil))
	req.NoError(d.Join("conn-b", "ABC123", "bob", nil))
	req.NoError(d.AppendChat("conn-a", "alice", "hi", nil))

	var fanout CloseFanout
	req.True(d.Close("ABC123", func(f CloseFanout) { fanout = f }))
	req.ElementsMatch([]string{"conn-a", "conn-b"}, fanout.Members)

	req.False(d.HasRoom("ABC123"))
	_, err := d.LookupRoom("conn-a")
	req.ErrorIs(err, ErrNotFound)
	_, err = d.LookupRoom("conn-b")
	req.ErrorIs(err, ErrNotFound)
}

func TestClose_UnknownRoom(t *testing.T) {
	require.False(t, New().Close("NOPE", nil))
}

func TestForEachMember_UnknownRoomIsNoOp(t *testing.T) {
	called := false
	New().ForEachMember("NOPE", func(string) { called = true })
	require.False(t, called)
}

func TestRosterArithmeticUnderConcurrency(t *testing.T) {
	req := require.New(t)
	d := New()

	const perRoom = 20
	rooms := []string{"R1", "R2", "R3", "R4"}

	var wg sync.WaitGroup
	for _, code := range rooms {
		for i := 0; i < perRoom; i++ {
			wg.Add(1)
			go func(code string, i int) {
				defer wg.Done()
				id := fmt.Sprintf("%s-conn-%d", code, i)
				if err := d.Join(id, code, fmt.Sprintf("user-%d", i), nil); err != nil {
					t.Error(err)
				}
			}(code, i)
		}
	}
	wg.Wait()

	for _, code := range rooms {
		req.Len(d.Members(code), perRoom)
	}

	// Drain half of each room concurrently.
	for _, code := range rooms {
		for i := 0; i < perRoom/2; i++ {
			wg.Add(1)
			go func(code string, i int) {
				defer wg.Done()
				if err := d.Leave(fmt.Sprintf("%s-conn-%d", code, i), nil); err != nil {
					t.Error(err)
				}
			}(code, i)
		}
	}
	wg.Wait()

	for _, code := range rooms {
		req.Len(d.Members(code), perRoom/2)
	}
}
