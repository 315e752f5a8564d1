package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load()
	req.NoError(err)

	req.Equal("0.0.0.0", cfg.Server.Host)
	req.Equal(8080, cfg.Server.Port)

	req.Equal(30*time.Second, cfg.WebSocket.PingInterval)
	req.Equal(60*time.Second, cfg.WebSocket.PongWait)
	req.Equal(10*time.Second, cfg.WebSocket.WriteWait)
	req.Equal(int64(65536), cfg.WebSocket.MaxMessageSize)
	req.Equal(256, cfg.WebSocket.SendBufferSize)

	req.Equal("sqlite", cfg.Database.Driver)
	req.Equal("meetings.db", cfg.Database.FilePath)

	req.Equal("localhost:6379", cfg.Redis.Address)
	req.Equal("relay", cfg.Redis.RegistryPrefix)
	req.Equal(90*time.Second, cfg.Redis.KeyTTL)

	req.Equal("meeting-lifecycle", cfg.Kafka.Topic)
	req.Equal("info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	req.NoError(err)

	req.Equal(9090, cfg.Server.Port)
	req.Equal("postgres", cfg.Database.Driver)
	req.Equal("db.internal", cfg.Database.Host)
	req.Equal("redis.internal:6379", cfg.Redis.Address)
	req.Equal("debug", cfg.Log.Level)
}
