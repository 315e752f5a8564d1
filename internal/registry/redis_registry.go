package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raj72620/meet-relay/internal/config"
	"github.com/Raj72620/meet-relay/pkg/log"
)

// RedisRegistry implements Registry on redis with TTL'd keys refreshed by
// a heartbeat, so entries of a crashed instance expire on their own.
type RedisRegistry struct {
	client            *redis.Client
	advertiseAddress  string
	prefix            string
	keyTTL            time.Duration
	heartbeatInterval time.Duration
	managedKeys       map[string]struct{} // keys owned by this instance
	mu                sync.RWMutex
	cancel            context.CancelFunc
}

// NewRedisRegistry connects to redis and returns a registry advertising
// the given instance address.
func NewRedisRegistry(cfg config.RedisConfig, advertiseAddress string) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRegistry{
		client:            client,
		advertiseAddress:  advertiseAddress,
		prefix:            cfg.RegistryPrefix,
		keyTTL:            cfg.KeyTTL,
		heartbeatInterval: cfg.HeartbeatInterval,
		managedKeys:       make(map[string]struct{}),
	}, nil
}

func (r *RedisRegistry) keyFor(roomCode, connID string) string {
	return fmt.Sprintf("%s:room:%s:conn:%s", r.prefix, roomCode, connID)
}

// Register records one room membership under this instance's address.
func (r *RedisRegistry) Register(ctx context.Context, roomCode, connID string) error {
	key := r.keyFor(roomCode, connID)

	if err := r.client.Set(ctx, key, r.advertiseAddress, r.keyTTL).Err(); err != nil {
		return fmt.Errorf("failed to register room membership: %w", err)
	}

	r.mu.Lock()
	r.managedKeys[key] = struct{}{}
	r.mu.Unlock()

	log.L().Debug().Str(log.FieldRoomCode, roomCode).Str(log.FieldConnID, connID).Msg("membership registered")
	return nil
}

// Deregister drops one room membership.
func (r *RedisRegistry) Deregister(ctx context.Context, roomCode, connID string) error {
	key := r.keyFor(roomCode, connID)

	r.mu.Lock()
	delete(r.managedKeys, key)
	r.mu.Unlock()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to deregister room membership: %w", err)
	}

	log.L().Debug().Str(log.FieldRoomCode, roomCode).Str(log.FieldConnID, connID).Msg("membership deregistered")
	return nil
}

// StartHeartbeat begins refreshing the TTL of every managed key.
func (r *RedisRegistry) StartHeartbeat(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go r.heartbeatLoop(ctx)
	log.L().Info().Dur("interval", r.heartbeatInterval).Dur("ttl", r.keyTTL).Msg("registry heartbeat started")
	return nil
}

func (r *RedisRegistry) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(r.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshKeys(ctx)
		}
	}
}

func (r *RedisRegistry) refreshKeys(ctx context.Context) {
	r.mu.RLock()
	keys := make([]string, 0, len(r.managedKeys))
	for k := range r.managedKeys {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	for _, key := range keys {
		if err := r.client.Set(ctx, key, r.advertiseAddress, r.keyTTL).Err(); err != nil {
			log.L().Error().Str("key", key).Err(err).Msg("failed to refresh registry key")
		}
	}
}

// StopHeartbeat stops the refresh loop.
func (r *RedisRegistry) StopHeartbeat() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Close stops the heartbeat and releases the redis client.
func (r *RedisRegistry) Close() error {
	r.StopHeartbeat()
	return r.client.Close()
}
