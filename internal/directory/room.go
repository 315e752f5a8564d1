package directory

import (
	"sync"

	"github.com/Raj72620/meet-relay/internal/domain"
)

// room is one live meeting room. Its mutex is held across every roster or
// transcript mutation and the resulting fan-out, so members never observe
// a stale roster. A drained room is marked dead under its own lock and
// then dropped from the directory; the mark is never cleared, so a racing
// joiner holding a stale pointer knows to start a fresh instance.
type room struct {
	mu         sync.Mutex
	code       string
	roster     []string // ordered conn ids, join order
	members    map[string]*domain.Connection
	banned     map[string]struct{} // display names
	transcript []domain.ChatMessage
	dead       bool
}

func newRoom(code string) *room {
	return &room{
		code:    code,
		members: make(map[string]*domain.Connection),
		banned:  make(map[string]struct{}),
	}
}

// removeFromRoster drops one conn id preserving roster order.
func (r *room) removeFromRoster(connID string) {
	for i, id := range r.roster {
		if id == connID {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			return
		}
	}
}

// rosterIDs returns a copy of the ordered member ids.
func (r *room) rosterIDs() []string {
	return append([]string(nil), r.roster...)
}

// rosterSnapshot builds the ordered {conn id, display name} view.
func (r *room) rosterSnapshot() []domain.RosterEntry {
	entries := make([]domain.RosterEntry, 0, len(r.roster))
	for _, id := range r.roster {
		name := ""
		if c, ok := r.members[id]; ok {
			name = c.DisplayName
		}
		entries = append(entries, domain.RosterEntry{ConnID: id, DisplayName: name})
	}
	return entries
}
