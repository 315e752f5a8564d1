package registry

import "context"

// Registry mirrors live room membership into a shared store so sibling
// services can locate the relay instance hosting a given participant.
// The mirror is best-effort and TTL-bound: the in-memory directory stays
// authoritative and registry failures never surface to clients.
type Registry interface {
	Register(ctx context.Context, roomCode, connID string) error
	Deregister(ctx context.Context, roomCode, connID string) error
	StartHeartbeat(ctx context.Context) error
	StopHeartbeat()
	Close() error
}
