// Package directory owns the shared session state of the relay: which
// connection sits in which room, each room's ordered roster, ban set and
// chat transcript.
//
// Every mutating operation takes a deliver callback that runs while the
// room lock is held, so a mutation and its broadcast form one atomic step
// per room. Callbacks must only enqueue to buffered client send channels;
// they must never block. Operations on different rooms share no lock.
package directory

import (
	"errors"
	"sync"
	"time"

	"github.com/Raj72620/meet-relay/internal/domain"
)

var (
	// ErrBanned rejects a join with a banned display name.
	ErrBanned = errors.New("display name is banned from this room")
	// ErrNotFound marks an event from or to a connection the directory
	// does not know. Callers treat it as a silent drop.
	ErrNotFound = errors.New("connection not registered")
	// ErrAlreadyJoined marks a join from a connection that still sits in
	// a room. The caller must leave the old room first.
	ErrAlreadyJoined = errors.New("connection already in a room")
)

// Directory maps connection ids to rooms and holds all room state. The
// directory mutex only guards the two maps; room content is guarded by
// each room's own lock.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*room
	conns map[string]*domain.Connection
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{
		rooms: make(map[string]*room),
		conns: make(map[string]*domain.Connection),
	}
}

// JoinFanout is the data a join broadcast is built from, captured under
// the room lock at admission time.
type JoinFanout struct {
	Conn      *domain.Connection
	MemberIDs []string
	Roster    []domain.RosterEntry
	Replay    []domain.ChatMessage
}

// Join admits a connection to a room, creating the room if absent. A
// banned display name fails with ErrBanned and mutates nothing. deliver
// runs under the room lock with the post-join roster and the transcript
// replay for the joiner.
func (d *Directory) Join(connID, roomCode, displayName string, deliver func(JoinFanout)) error {
	d.mu.Lock()
	if _, ok := d.conns[connID]; ok {
		d.mu.Unlock()
		return ErrAlreadyJoined
	}

	r, ok := d.rooms[roomCode]
	if !ok {
		r = newRoom(roomCode)
		d.rooms[roomCode] = r
	}

	r.mu.Lock()
	if r.dead {
		// Drained and unlinked concurrently; start a fresh instance.
		r.mu.Unlock()
		r = newRoom(roomCode)
		d.rooms[roomCode] = r
		r.mu.Lock()
	}

	if _, banned := r.banned[displayName]; banned {
		r.mu.Unlock()
		d.mu.Unlock()
		return ErrBanned
	}

	conn := &domain.Connection{
		ID:          connID,
		RoomCode:    roomCode,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}
	d.conns[connID] = conn
	d.mu.Unlock()

	r.roster = append(r.roster, connID)
	r.members[connID] = conn

	if deliver != nil {
		deliver(JoinFanout{
			Conn:      conn,
			MemberIDs: r.rosterIDs(),
			Roster:    r.rosterSnapshot(),
			Replay:    append([]domain.ChatMessage(nil), r.transcript...),
		})
	}
	r.mu.Unlock()
	return nil
}

// LeaveFanout is the data a leave broadcast is built from.
type LeaveFanout struct {
	Conn      *domain.Connection
	Remaining []string
}

// Leave removes a connection from its room. The roster is mutated before
// deliver runs, so the broadcast only reaches the remaining members. A
// room whose roster drains is deleted, discarding its transcript and ban
// set.
func (d *Directory) Leave(connID string, deliver func(LeaveFanout)) error {
	d.mu.Lock()
	conn, ok := d.conns[connID]
	if !ok {
		d.mu.Unlock()
		return ErrNotFound
	}
	delete(d.conns, connID)

	r, ok := d.rooms[conn.RoomCode]
	if !ok {
		d.mu.Unlock()
		return ErrNotFound
	}
	r.mu.Lock()
	d.mu.Unlock()

	r.removeFromRoster(connID)
	delete(r.members, connID)

	if deliver != nil {
		deliver(LeaveFanout{Conn: conn, Remaining: r.rosterIDs()})
	}

	empty := len(r.roster) == 0
	if empty {
		r.dead = true
	}
	r.mu.Unlock()

	if empty {
		d.unlink(conn.RoomCode, r)
	}
	return nil
}

// ChatFanout is one appended transcript entry plus its audience.
type ChatFanout struct {
	Message domain.ChatMessage
	Members []string
}

// AppendChat appends a message to the sender's room transcript and hands
// deliver the full member list, sender included. An unknown sender is
// reported as ErrNotFound and appends nothing. An empty display name
// falls back to the name the sender registered with.
func (d *Directory) AppendChat(senderID, displayName, body string, deliver func(ChatFanout)) error {
	d.mu.RLock()
	conn, ok := d.conns[senderID]
	if !ok {
		d.mu.RUnlock()
		return ErrNotFound
	}
	r, ok := d.rooms[conn.RoomCode]
	if !ok {
		d.mu.RUnlock()
		return ErrNotFound
	}
	r.mu.Lock()
	d.mu.RUnlock()

	if displayName == "" {
		displayName = conn.DisplayName
	}
	msg := domain.ChatMessage{SenderID: senderID, DisplayName: displayName, Body: body}
	r.transcript = append(r.transcript, msg)

	if deliver != nil {
		deliver(ChatFanout{Message: msg, Members: r.rosterIDs()})
	}
	r.mu.Unlock()
	return nil
}

// ForEachMember runs fn for every member of a room under the room lock.
// Unknown rooms are a no-op. Used for ephemeral broadcasts that mutate
// nothing but still need the per-room total order.
func (d *Directory) ForEachMember(roomCode string, fn func(connID string)) {
	d.mu.RLock()
	r, ok := d.rooms[roomCode]
	if !ok {
		d.mu.RUnlock()
		return
	}
	r.mu.Lock()
	d.mu.RUnlock()

	for _, id := range r.roster {
		fn(id)
	}
	r.mu.Unlock()
}

// KickFanout is the data a kick broadcast is built from.
type KickFanout struct {
	Target    *domain.Connection
	Remaining []string
}

// Kick bans the target's display name in the given room and removes the
// target from the roster. deliver runs after both mutations, still under
// the room lock. A target that is not a member of that room is a strict
// no-op and reports false.
func (d *Directory) Kick(targetID, roomCode string, deliver func(KickFanout)) bool {
	d.mu.Lock()
	conn, ok := d.conns[targetID]
	if !ok || conn.RoomCode != roomCode {
		d.mu.Unlock()
		return false
	}
	delete(d.conns, targetID)

	r, ok := d.rooms[roomCode]
	if !ok {
		d.mu.Unlock()
		return false
	}
	r.mu.Lock()
	d.mu.Unlock()

	r.banned[conn.DisplayName] = struct{}{}
	r.removeFromRoster(targetID)
	delete(r.members, targetID)

	if deliver != nil {
		deliver(KickFanout{Target: conn, Remaining: r.rosterIDs()})
	}

	empty := len(r.roster) == 0
	if empty {
		r.dead = true
	}
	r.mu.Unlock()

	if empty {
		d.unlink(roomCode, r)
	}
	return true
}

// CloseFanout is the audience of a meeting-ended broadcast.
type CloseFanout struct {
	Members []string
}

// Close tears a room down unconditionally: every member is unregistered
// and the room record (roster, transcript, ban set) is discarded. deliver
// runs under the room lock with the final member list. Closing an unknown
// room reports false.
func (d *Directory) Close(roomCode string, deliver func(CloseFanout)) bool {
	d.mu.Lock()
	r, ok := d.rooms[roomCode]
	if !ok {
		d.mu.Unlock()
		return false
	}
	r.mu.Lock()
	delete(d.rooms, roomCode)
	for id := range r.members {
		delete(d.conns, id)
	}
	d.mu.Unlock()

	r.dead = true
	if deliver != nil {
		deliver(CloseFanout{Members: r.rosterIDs()})
	}

	r.roster = nil
	r.members = map[string]*domain.Connection{}
	r.mu.Unlock()
	return true
}

// LookupRoom resolves the room a connection currently sits in.
func (d *Directory) LookupRoom(connID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	conn, ok := d.conns[connID]
	if !ok {
		return "", ErrNotFound
	}
	return conn.RoomCode, nil
}

// Connection returns a copy of the registry record for a connection.
func (d *Directory) Connection(connID string) (domain.Connection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	conn, ok := d.conns[connID]
	if !ok {
		return domain.Connection{}, ErrNotFound
	}
	return *conn, nil
}

// HasRoom reports whether a room currently exists.
func (d *Directory) HasRoom(roomCode string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.rooms[roomCode]
	return ok
}

// Members returns the ordered member ids of a room, or nil for an
// unknown room.
func (d *Directory) Members(roomCode string) []string {
	d.mu.RLock()
	r, ok := d.rooms[roomCode]
	if !ok {
		d.mu.RUnlock()
		return nil
	}
	r.mu.Lock()
	d.mu.RUnlock()

	ids := r.rosterIDs()
	r.mu.Unlock()
	return ids
}

// unlink removes a drained room from the map unless it was already
// replaced by a fresh instance with the same code.
func (d *Directory) unlink(roomCode string, r *room) {
	d.mu.Lock()
	if d.rooms[roomCode] == r {
		delete(d.rooms, roomCode)
	}
	d.mu.Unlock()
}
